package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"digdeep.game/internal/persistence/snapshot"
)

type journalEntry struct {
	At   string         `json:"at"`
	Name string         `json:"name"`
	Data map[string]any `json:"data,omitempty"`
}

func main() {
	var (
		savePath  = flag.String("save", "", "path to .save.zst to summarize (optional)")
		eventsDir = flag.String("events", "", "events dir containing events-*.jsonl.zst")
		filter    = flag.String("filter", "", "only print events with this name")
		countOnly = flag.Bool("count", false, "print per-event-name counts instead of lines")
	)
	flag.Parse()

	if *savePath != "" {
		doc, err := snapshot.Read(*savePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read save:", err)
			os.Exit(1)
		}
		fmt.Printf("save v%d slot=%s saved_at=%d depth=%.1f layer=%s play_time=%.0fs clicks=%d upgrades=%d achievements=%d discoveries=%d\n",
			doc.Header.Version, doc.Header.Slot, doc.Header.SavedAtUnix,
			doc.Depth, doc.Layer, doc.Stats.PlayTime, doc.Stats.Clicks,
			len(doc.Upgrades), len(doc.Achievements), len(doc.Discoveries))
	}

	if *eventsDir == "" {
		if *savePath == "" {
			fmt.Fprintln(os.Stderr, "nothing to do: pass -save and/or -events")
			os.Exit(2)
		}
		return
	}

	files, err := listEventFiles(*eventsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
		os.Exit(1)
	}

	counts := map[string]int{}
	var total int
	for _, path := range files {
		if err := scanFile(path, func(e journalEntry) {
			total++
			counts[e.Name]++
			if *countOnly {
				return
			}
			if *filter != "" && e.Name != *filter {
				return
			}
			if len(e.Data) > 0 {
				b, _ := json.Marshal(e.Data)
				fmt.Printf("%s %s %s\n", e.At, e.Name, b)
			} else {
				fmt.Printf("%s %s\n", e.At, e.Name)
			}
		}); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}

	if *countOnly {
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%8d  %s\n", counts[name], name)
		}
	}
	fmt.Printf("total=%d events across %d files\n", total, len(files))
}

func listEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "events-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func scanFile(path string, fn func(journalEntry)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var entry journalEntry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		fn(entry)
	}
	return sc.Err()
}
