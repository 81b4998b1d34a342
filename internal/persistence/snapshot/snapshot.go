package snapshot

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed save.schema.json
var saveSchemaSrc string

var saveSchema = jsonschema.MustCompileString("save.schema.json", saveSchemaSrc)

// Current save document version.
const Version = 1

type Header struct {
	Version     int    `json:"version"`
	Slot        string `json:"slot,omitempty"`
	SavedAtUnix int64  `json:"saved_at_unix"`
}

// SaveV1 is the full serialized game state. It is the on-disk save format,
// the export/import document, and the STATE payload on the wire. Loading
// merges it field-by-field into a freshly initialized state so that fields
// absent from older saves keep their defaults.
type SaveV1 struct {
	Header Header `json:"header"`

	Resources       map[string]float64 `json:"resources"`
	Multipliers     map[string]float64 `json:"multipliers"`
	TempMultipliers []TempMultiplierV1 `json:"temporary_multipliers,omitempty"`

	Stats        StatsV1            `json:"stats"`
	SpecialStats map[string]float64 `json:"special_stats,omitempty"`

	Upgrades map[string]int `json:"upgrades,omitempty"`

	Depth float64 `json:"depth"`
	Layer string  `json:"layer,omitempty"`

	AutoDigRate    float64 `json:"auto_dig_rate,omitempty"`
	DigAccumulator float64 `json:"dig_accumulator,omitempty"`

	Hazards []HazardV1 `json:"active_hazards,omitempty"`

	Achievements map[string]AchievementV1 `json:"achievements,omitempty"`
	Discoveries  []string                 `json:"discoveries,omitempty"`
	Features     []string                 `json:"unlocked_features,omitempty"`
}

type TempMultiplierV1 struct {
	Kind      string  `json:"kind"`
	Factor    float64 `json:"factor"`
	Duration  float64 `json:"duration_s"`
	Remaining float64 `json:"remaining_s"`
	Permanent bool    `json:"permanent,omitempty"`
	Source    string  `json:"source,omitempty"`
}

type StatsV1 struct {
	Clicks     int     `json:"clicks"`
	TotalDirt  float64 `json:"total_dirt"`
	TotalStone float64 `json:"total_stone"`
	TotalGems  float64 `json:"total_gems"`
	PlayTime   float64 `json:"play_time_s"`
}

type HazardV1 struct {
	Type      string  `json:"type"`
	State     string  `json:"state"`
	Remaining float64 `json:"remaining_s"`
}

type AchievementV1 struct {
	Unlocked      bool `json:"unlocked"`
	RewardApplied bool `json:"reward_applied,omitempty"`
}

// Write stores the save as a zstd frame: a JSON header line followed by the
// JSON document body.
func Write(path string, doc SaveV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 64*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(doc.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(&doc); err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	return nil
}

func Read(path string) (SaveV1, error) {
	var doc SaveV1
	f, err := os.Open(path)
	if err != nil {
		return doc, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return doc, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// Header line is advisory; the body repeats it.
	_, _ = br.ReadBytes('\n')

	if err := json.NewDecoder(br).Decode(&doc); err != nil {
		return doc, fmt.Errorf("decode save: %w", err)
	}
	if doc.Header.Version > Version {
		return doc, fmt.Errorf("save version %d newer than supported %d", doc.Header.Version, Version)
	}
	return doc, nil
}

// Export renders the save as an uncompressed, indented JSON document for
// download; Import reads the same shape back.
func Export(doc SaveV1) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Import reads an exported document back. Imports are untrusted input (the
// user can paste anything), so the document is schema-checked before decoding.
func Import(b []byte) (SaveV1, error) {
	var doc SaveV1

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return doc, fmt.Errorf("decode import: %w", err)
	}
	if err := saveSchema.Validate(raw); err != nil {
		return doc, fmt.Errorf("invalid save document: %w", err)
	}

	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("decode import: %w", err)
	}
	if doc.Header.Version > Version {
		return doc, fmt.Errorf("save version %d newer than supported %d", doc.Header.Version, Version)
	}
	return doc, nil
}
