package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"digdeep.game/internal/persistence/savedb"
	"digdeep.game/internal/persistence/snapshot"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "saves":
			savesCmd(os.Args[2:])
			return
		case "unlocks":
			unlocksCmd(os.Args[2:])
			return
		case "show":
			showCmd(os.Args[2:])
			return
		case "prune":
			pruneCmd(os.Args[2:])
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: admin <saves|unlocks|show|prune> [flags]")
	os.Exit(2)
}

// savesCmd lists save files for a slot, newest first.
func savesCmd(args []string) {
	fs := flag.NewFlagSet("saves", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	slot := fs.String("slot", "default", "save slot")
	_ = fs.Parse(args)

	paths := listSaves(filepath.Join(*dataDir, "saves", *slot))
	if len(paths) == 0 {
		fmt.Println("no saves")
		return
	}
	for _, p := range paths {
		doc, err := snapshot.Read(p)
		if err != nil {
			fmt.Printf("%s  (unreadable: %v)\n", filepath.Base(p), err)
			continue
		}
		fmt.Printf("%s  saved_at=%s depth=%.1f layer=%s play_time=%.0fs clicks=%d\n",
			filepath.Base(p),
			time.Unix(doc.Header.SavedAtUnix, 0).UTC().Format(time.RFC3339),
			doc.Depth, doc.Layer, doc.Stats.PlayTime, doc.Stats.Clicks)
	}
}

func unlocksCmd(args []string) {
	fs := flag.NewFlagSet("unlocks", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	slot := fs.String("slot", "default", "save slot")
	_ = fs.Parse(args)

	db, err := savedb.Open(filepath.Join(*dataDir, "index.db"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open db:", err)
		os.Exit(1)
	}
	defer db.Close()

	unlocks, err := db.Unlocks(*slot)
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	ids := make([]string, 0, len(unlocks))
	for id := range unlocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return unlocks[ids[i]] < unlocks[ids[j]] })
	for _, id := range ids {
		fmt.Printf("%s  %s\n", time.Unix(unlocks[id], 0).UTC().Format(time.RFC3339), id)
	}
}

// showCmd dumps one save document as indented JSON.
func showCmd(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: admin show <path/to/save.zst>")
		os.Exit(2)
	}

	doc, err := snapshot.Read(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read save:", err)
		os.Exit(1)
	}
	b, err := snapshot.Export(doc)
	if err != nil {
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}
	fmt.Println(string(b))
}

// pruneCmd deletes old save files, keeping the newest N. Milestone archives
// under saves/<slot>/archives are never touched.
func pruneCmd(args []string) {
	fs := flag.NewFlagSet("prune", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	slot := fs.String("slot", "default", "save slot")
	keep := fs.Int("keep", 20, "number of newest saves to keep")
	dryRun := fs.Bool("dry_run", false, "print what would be deleted")
	_ = fs.Parse(args)

	if *keep < 1 {
		fmt.Fprintln(os.Stderr, "-keep must be at least 1")
		os.Exit(2)
	}

	paths := listSaves(filepath.Join(*dataDir, "saves", *slot))
	if len(paths) <= *keep {
		fmt.Printf("kept %d saves, nothing to prune\n", len(paths))
		return
	}
	for _, p := range paths[*keep:] {
		if *dryRun {
			fmt.Println("would delete", filepath.Base(p))
			continue
		}
		if err := os.Remove(p); err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			continue
		}
		fmt.Println("deleted", filepath.Base(p))
	}
}

// listSaves returns save file paths sorted newest first.
func listSaves(saveDir string) []string {
	ents, err := os.ReadDir(saveDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".save.zst") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(saveDir, name))
	}
	return out
}
