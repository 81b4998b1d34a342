package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"digdeep.game/internal/persistence/snapshot"
)

type MilestoneMeta struct {
	Layer     string  `json:"layer"`
	Depth     float64 `json:"depth"`
	SavedAt   int64   `json:"saved_at_unix"`
	Save      string  `json:"save"`
	CreatedAt string  `json:"created_at"`
	PlayTime  float64 `json:"play_time_s"`
	Clicks    int     `json:"clicks"`
}

// ArchiveMilestoneSave copies the first save written in each layer into
// `saveDir/archives/layer_<id>/`. Later saves in the same layer are ignored,
// so the archive keeps one snapshot per layer the player has reached.
func ArchiveMilestoneSave(saveDir, savePath string, doc snapshot.SaveV1) (layer string, archivedPath string, archived bool, err error) {
	if doc.Layer == "" {
		return "", "", false, nil
	}

	archiveDir := filepath.Join(saveDir, "archives", fmt.Sprintf("layer_%s", doc.Layer))
	if _, statErr := os.Stat(archiveDir); statErr == nil {
		return doc.Layer, "", false, nil
	}
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", "", false, err
	}

	dst := filepath.Join(archiveDir, filepath.Base(savePath))
	if err := copyFile(savePath, dst); err != nil {
		return "", "", false, err
	}

	meta := MilestoneMeta{
		Layer:     doc.Layer,
		Depth:     doc.Depth,
		SavedAt:   doc.Header.SavedAtUnix,
		Save:      filepath.Base(dst),
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		PlayTime:  doc.Stats.PlayTime,
		Clicks:    doc.Stats.Clicks,
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644)
	}

	return doc.Layer, dst, true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
