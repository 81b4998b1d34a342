package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"digdeep.game/internal/protocol"
)

func TestEventJournalWritesCompressedJSONL(t *testing.T) {
	dir := t.TempDir()
	j := NewEventJournal(dir)

	events := []protocol.Event{
		{Name: "depthChanged", Data: map[string]any{"depth": 1.5}},
		{Name: "layerChanged", Data: map[string]any{"layer": "topsoil"}},
		{Name: "gameSaved"},
	}
	for _, ev := range events {
		if err := j.WriteEvent(ev); err != nil {
			t.Fatalf("write event: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ents, err := os.ReadDir(filepath.Join(dir, "events"))
	if err != nil {
		t.Fatalf("read events dir: %v", err)
	}
	if len(ents) != 1 {
		t.Fatalf("journal files = %d, want 1", len(ents))
	}
	name := ents[0].Name()
	if !strings.HasPrefix(name, "events-") || !strings.HasSuffix(name, ".jsonl.zst") {
		t.Fatalf("journal file name = %s", name)
	}

	f, err := os.Open(filepath.Join(dir, "events", name))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	var lines int
	for sc.Scan() {
		var entry struct {
			At   string         `json:"at"`
			Name string         `json:"name"`
			Data map[string]any `json:"data"`
		}
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if entry.At == "" || entry.Name != events[lines].Name {
			t.Fatalf("line %d = %+v", lines, entry)
		}
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if lines != len(events) {
		t.Fatalf("lines = %d, want %d", lines, len(events))
	}
}

func TestJSONLZstdWriterCloseIdempotent(t *testing.T) {
	w := NewJSONLZstdWriter(t.TempDir(), "test")
	if err := w.Write(map[string]int{"n": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
