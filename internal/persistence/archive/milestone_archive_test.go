package archive

import (
	"os"
	"path/filepath"
	"testing"

	"digdeep.game/internal/persistence/snapshot"
)

func writeSave(t *testing.T, dir string, doc snapshot.SaveV1) string {
	t.Helper()
	path := filepath.Join(dir, "100.save.zst")
	if err := snapshot.Write(path, doc); err != nil {
		t.Fatalf("write save: %v", err)
	}
	return path
}

func TestArchiveMilestoneSave_FirstSaveInLayer(t *testing.T) {
	dir := t.TempDir()
	doc := snapshot.SaveV1{
		Header: snapshot.Header{Version: 1, Slot: "default", SavedAtUnix: 100},
		Depth:  12.5,
		Layer:  "topsoil",
	}
	path := writeSave(t, dir, doc)

	layer, dst, archived, err := ArchiveMilestoneSave(dir, path, doc)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !archived || layer != "topsoil" {
		t.Fatalf("archived=%v layer=%s", archived, layer)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("archived copy missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "archives", "layer_topsoil", "meta.json")); err != nil {
		t.Fatalf("meta missing: %v", err)
	}

	got, err := snapshot.Read(dst)
	if err != nil {
		t.Fatalf("read archived copy: %v", err)
	}
	if got.Depth != 12.5 || got.Layer != "topsoil" {
		t.Fatalf("archived doc = %+v", got)
	}
}

func TestArchiveMilestoneSave_SkipsRepeatLayer(t *testing.T) {
	dir := t.TempDir()
	doc := snapshot.SaveV1{
		Header: snapshot.Header{Version: 1, SavedAtUnix: 100},
		Depth:  12.5,
		Layer:  "topsoil",
	}
	path := writeSave(t, dir, doc)

	if _, _, archived, err := ArchiveMilestoneSave(dir, path, doc); err != nil || !archived {
		t.Fatalf("first archive: archived=%v err=%v", archived, err)
	}
	doc.Depth = 20
	if _, _, archived, err := ArchiveMilestoneSave(dir, path, doc); err != nil || archived {
		t.Fatalf("repeat archive: archived=%v err=%v", archived, err)
	}
}

func TestArchiveMilestoneSave_NoLayerNoop(t *testing.T) {
	dir := t.TempDir()
	_, _, archived, err := ArchiveMilestoneSave(dir, filepath.Join(dir, "missing"), snapshot.SaveV1{})
	if err != nil || archived {
		t.Fatalf("archived=%v err=%v", archived, err)
	}
}
