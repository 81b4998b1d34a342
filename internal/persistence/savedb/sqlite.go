package savedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// Store indexes save files and achievement unlocks in SQLite. Writes go
// through a buffered channel to a single writer goroutine so the simulation
// never blocks on disk.
type Store struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqSave reqKind = iota + 1
	reqUnlock
)

type req struct {
	kind   reqKind
	save   SaveMeta
	unlock unlockRow
}

// SaveMeta is the queryable summary of one written save file.
type SaveMeta struct {
	Slot     string
	Path     string
	Version  int
	SavedAt  int64
	Depth    float64
	PlayTime float64
	Clicks   int
}

type unlockRow struct {
	Slot       string
	ID         string
	UnlockedAt int64
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saves (
			slot TEXT NOT NULL,
			saved_at INTEGER NOT NULL,
			path TEXT NOT NULL,
			version INTEGER NOT NULL,
			depth REAL NOT NULL,
			play_time REAL NOT NULL,
			clicks INTEGER NOT NULL,
			PRIMARY KEY (slot, saved_at)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_slot_saved_at ON saves(slot, saved_at DESC);`,
		`CREATE TABLE IF NOT EXISTS unlocks (
			slot TEXT NOT NULL,
			achievement TEXT NOT NULL,
			unlocked_at INTEGER NOT NULL,
			PRIMARY KEY (slot, achievement)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	return nil
}

func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordSave enqueues a save row. Drops the row if the writer falls behind;
// the save file on disk remains the source of truth.
func (s *Store) RecordSave(m SaveMeta) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqSave, save: m}:
	default:
	}
}

// RecordUnlock enqueues an achievement unlock row.
func (s *Store) RecordUnlock(slot, achievement string, atUnix int64) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqUnlock, unlock: unlockRow{Slot: slot, ID: achievement, UnlockedAt: atUnix}}:
	default:
	}
}

// LatestSave returns the most recent save row for a slot. Queried
// synchronously at startup, before the writer has traffic.
func (s *Store) LatestSave(slot string) (SaveMeta, error) {
	var m SaveMeta
	row := s.db.QueryRow(
		`SELECT slot, saved_at, path, version, depth, play_time, clicks
		 FROM saves WHERE slot = ? ORDER BY saved_at DESC LIMIT 1`, slot)
	err := row.Scan(&m.Slot, &m.SavedAt, &m.Path, &m.Version, &m.Depth, &m.PlayTime, &m.Clicks)
	if err != nil {
		return SaveMeta{}, err
	}
	return m, nil
}

// Unlocks returns the recorded unlock times for a slot.
func (s *Store) Unlocks(slot string) (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT achievement, unlocked_at FROM unlocks WHERE slot = ?`, slot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var id string
		var at int64
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		out[id] = at
	}
	return out, rows.Err()
}

func (s *Store) loop() {
	ctx := context.Background()

	insertSave, _ := s.db.Prepare(`INSERT OR REPLACE INTO saves(slot,saved_at,path,version,depth,play_time,clicks) VALUES(?,?,?,?,?,?,?)`)
	insertUnlock, _ := s.db.Prepare(`INSERT OR IGNORE INTO unlocks(slot,achievement,unlocked_at) VALUES(?,?,?)`)
	defer func() {
		if insertSave != nil {
			_ = insertSave.Close()
		}
		if insertUnlock != nil {
			_ = insertUnlock.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqSave:
			m := r.save
			if insertSave != nil {
				if _, err := tx.Stmt(insertSave).Exec(m.Slot, m.SavedAt, m.Path, m.Version, m.Depth, m.PlayTime, m.Clicks); err != nil {
					rollback()
					continue
				}
				opCount++
			}
		case reqUnlock:
			u := r.unlock
			if insertUnlock != nil {
				if _, err := tx.Stmt(insertUnlock).Exec(u.Slot, u.ID, u.UnlockedAt); err != nil {
					rollback()
					continue
				}
				opCount++
			}
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}
