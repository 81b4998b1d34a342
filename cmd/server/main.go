package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"digdeep.game/internal/persistence/archive"
	persistlog "digdeep.game/internal/persistence/log"
	"digdeep.game/internal/persistence/savedb"
	"digdeep.game/internal/persistence/snapshot"
	"digdeep.game/internal/protocol"
	"digdeep.game/internal/sim/catalogs"
	"digdeep.game/internal/sim/game"
	"digdeep.game/internal/sim/tuning"
	"digdeep.game/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		slot       = flag.String("slot", "default", "save slot")
		seed       = flag.Int64("seed", 1337, "rng seed (used only when starting fresh)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the save/unlock index db")

		savePath   = flag.String("save", "", "path to save file to load (optional)")
		loadLatest = flag.Bool("load_latest_save", true, "load latest save from data dir if present (when -save is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	saveDir := filepath.Join(*dataDir, "saves", *slot)
	_ = os.MkdirAll(saveDir, 0o755)

	var db *savedb.Store
	if !*disableDB {
		db, err = savedb.Open(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open save db: %v", err)
		}
		defer db.Close()
	}

	g, err := game.New(game.Config{
		Slot:              *slot,
		Seed:              *seed,
		TickRateHz:        tune.TickRateHz,
		ClickCooldown:     time.Duration(tune.ClickCooldownMs) * time.Millisecond,
		DepthPerDig:       tune.DepthPerDig,
		BaseDirtChance:    tune.BaseDirtChance,
		BaseStoneChance:   tune.BaseStoneChance,
		BaseGemChance:     tune.BaseGemChance,
		StartingDirt:      tune.StartingDirt,
		StartingStone:     tune.StartingStone,
		StartingGems:      tune.StartingGems,
		AutosaveInterval:  time.Duration(tune.AutosaveIntervalS) * time.Second,
		StateEveryTicks:   tune.StateEveryTicks,
		DiscoveryCooldown: time.Duration(tune.DiscoveryCooldownS) * time.Second,
	}, cats, logger)
	if err != nil {
		logger.Fatalf("game: %v", err)
	}

	g.SetLoadFunc(func() (snapshot.SaveV1, error) {
		path := latestSave(saveDir)
		if path == "" {
			return snapshot.SaveV1{}, fmt.Errorf("no save found for slot %q", *slot)
		}
		return snapshot.Read(path)
	})

	saveToLoad := strings.TrimSpace(*savePath)
	if saveToLoad == "" && *loadLatest {
		saveToLoad = latestSave(saveDir)
	}
	if saveToLoad != "" {
		doc, err := snapshot.Read(saveToLoad)
		if err != nil {
			logger.Fatalf("read save: %v", err)
		}
		if doc.Header.Slot != "" && doc.Header.Slot != *slot {
			logger.Fatalf("save slot mismatch: flag=%s save=%s", *slot, doc.Header.Slot)
		}
		g.ApplySaveDoc(doc)
		logger.Printf("resumed from save=%s depth=%.1f", filepath.Base(saveToLoad), g.Depth())
	}

	ctx, cancel := signalContext()
	defer cancel()

	journal := persistlog.NewEventJournal(filepath.Join(*dataDir, *slot))
	defer journal.Close()
	g.Notify(func(ev protocol.Event) {
		if err := journal.WriteEvent(ev); err != nil {
			logger.Printf("journal: %v", err)
		}
		if ev.Name == game.EvAchievementUnlocked && db != nil {
			if id, ok := ev.Data["id"].(string); ok {
				db.RecordUnlock(*slot, id, time.Now().Unix())
			}
		}
	})

	// Save writer.
	saveCh := make(chan snapshot.SaveV1, 2)
	g.SetSaveSink(saveCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case doc := <-saveCh:
				path := filepath.Join(saveDir, fmt.Sprintf("%d.save.zst", doc.Header.SavedAtUnix))
				if err := snapshot.Write(path, doc); err != nil {
					logger.Printf("save write: %v", err)
					continue
				}
				if layer, _, archived, err := archive.ArchiveMilestoneSave(saveDir, path, doc); err != nil {
					logger.Printf("archive: %v", err)
				} else if archived {
					logger.Printf("archived first save in layer=%s", layer)
				}
				if db != nil {
					db.RecordSave(savedb.SaveMeta{
						Slot:     doc.Header.Slot,
						Path:     path,
						Version:  doc.Header.Version,
						SavedAt:  doc.Header.SavedAtUnix,
						Depth:    doc.Depth,
						PlayTime: doc.Stats.PlayTime,
						Clicks:   doc.Stats.Clicks,
					})
				}
			}
		}
	}()

	go func() {
		if err := g.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("game stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP digdeep_tick Current simulation tick.\n")
		fmt.Fprintf(rw, "# TYPE digdeep_tick gauge\n")
		fmt.Fprintf(rw, "digdeep_tick{slot=%q} %d\n", *slot, g.CurrentTick())
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(g, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func latestSave(saveDir string) string {
	ents, err := os.ReadDir(saveDir)
	if err != nil {
		return ""
	}
	var best string
	var bestAt int64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".save.zst") {
			continue
		}
		base := strings.TrimSuffix(name, ".save.zst")
		at, err := strconv.ParseInt(base, 10, 64)
		if err != nil {
			continue
		}
		if best == "" || at > bestAt {
			bestAt = at
			best = filepath.Join(saveDir, name)
		}
	}
	return best
}
