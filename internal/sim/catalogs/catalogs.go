package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Upgrades     UpgradeCatalog
	Hazards      HazardCatalog
	Achievements AchievementCatalog
	Layers       LayerCatalog
	Discoveries  DiscoveryCatalog
}

type UpgradeCatalog struct {
	ByID   map[string]UpgradeDef
	IDs    []string
	Digest string
}

type UpgradeDef struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"` // "tools","automation","special"
	MaxLevel    int                `json:"max_level"`
	BaseCost    map[string]float64 `json:"base_cost"`
	CostScaling float64            `json:"cost_scaling"`
	Effect      UpgradeEffect      `json:"effect"`
	Requires    Requirement        `json:"requires,omitempty"`
}

// Upgrade effect kinds.
const (
	EffectMultiplier      = "multiplier"
	EffectResourceChance  = "resource_chance"
	EffectAutoDigRate     = "auto_dig_rate"
	EffectHazardReduction = "hazard_reduction"
	EffectFeature         = "feature"
)

type UpgradeEffect struct {
	// Kind selects how the effect is applied per owned level:
	// "multiplier" adds PerLevel to the named multiplier,
	// "resource_chance" adds PerLevel to the base find chance of Target,
	// "auto_dig_rate" adds PerLevel digs/second,
	// "hazard_reduction" softens hazard penalties by PerLevel (capped at 1),
	// "feature" unlocks Feature once level > 0.
	Kind     string  `json:"kind"`
	Target   string  `json:"target,omitempty"`
	PerLevel float64 `json:"per_level,omitempty"`
	Feature  string  `json:"feature,omitempty"`
}

type Requirement struct {
	Depth    float64        `json:"depth,omitempty"`
	Upgrades map[string]int `json:"upgrades,omitempty"`
}

// CostAt returns the per-resource cost of buying the next level when the
// current level is level: floor(base * scaling^level).
func (c UpgradeCatalog) CostAt(id string, level int) map[string]float64 {
	def, ok := c.ByID[id]
	if !ok {
		return nil
	}
	scale := math.Pow(def.CostScaling, float64(level))
	out := make(map[string]float64, len(def.BaseCost))
	for res, base := range def.BaseCost {
		out[res] = math.Floor(base * scale)
	}
	return out
}

type HazardCatalog struct {
	ByID   map[string]HazardDef
	IDs    []string
	Digest string
}

type HazardDef struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	MinDepth       float64 `json:"min_depth"`
	BaseChance     float64 `json:"base_chance"`
	ChanceIncrease float64 `json:"chance_increase"`
	WarningSeconds float64 `json:"warning_s"`
	ActiveSeconds  float64 `json:"duration_s"`

	// ResourceLoss is the fraction of each pool destroyed on activation
	// (consumed, never refunded). MultiplierPenalty holds factors applied to
	// multipliers for the active window and reverted on resolve.
	ResourceLoss      map[string]float64 `json:"resource_loss,omitempty"`
	MultiplierPenalty map[string]float64 `json:"multiplier_penalty,omitempty"`
	PreventCost       map[string]float64 `json:"prevent_cost,omitempty"`
}

type AchievementCatalog struct {
	ByID   map[string]AchievementDef
	IDs    []string
	Digest string
}

type AchievementDef struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"`
	Visible     bool               `json:"visible"`
	Criteria    map[string]float64 `json:"criteria"`
	Reward      *RewardDef         `json:"reward,omitempty"`
}

type RewardDef struct {
	Description string             `json:"description,omitempty"`
	Resources   map[string]float64 `json:"resources,omitempty"`
	Multipliers map[string]float64 `json:"multipliers,omitempty"` // additive deltas; "all" fans out
	Feature     string             `json:"feature,omitempty"`
}

type LayerCatalog struct {
	Ordered []LayerDef // sorted by depth_start
	ByID    map[string]LayerDef
	Digest  string
}

type LayerDef struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	DepthStart float64 `json:"depth_start"`
	DepthEnd   float64 `json:"depth_end"`

	DirtMultiplier  float64 `json:"dirt_multiplier"`
	StoneMultiplier float64 `json:"stone_multiplier"`
	GemMultiplier   float64 `json:"gem_multiplier"`
	Color           string  `json:"color,omitempty"`
}

func (d LayerDef) ResourceMultiplier(kind string) float64 {
	switch kind {
	case "dirt":
		return d.DirtMultiplier
	case "stone":
		return d.StoneMultiplier
	case "gems":
		return d.GemMultiplier
	}
	return 1
}

// AtDepth returns the layer whose band contains depth; the shallowest layer
// is the fallback for out-of-band depths.
func (c LayerCatalog) AtDepth(depth float64) LayerDef {
	for _, l := range c.Ordered {
		if depth >= l.DepthStart && depth < l.DepthEnd {
			return l
		}
	}
	return c.Ordered[0]
}

type DiscoveryCatalog struct {
	ByID   map[string]DiscoveryDef
	IDs    []string
	Digest string
}

type DiscoveryDef struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Depth       float64            `json:"depth"`
	DepthRange  float64            `json:"depth_range"`
	Reward      map[string]float64 `json:"reward,omitempty"`
	Effect      *DiscoveryEffect   `json:"effect,omitempty"`
}

type DiscoveryEffect struct {
	Kind      string  `json:"kind"` // multiplier kind, or "all"
	Factor    float64 `json:"factor"`
	DurationS float64 `json:"duration_s,omitempty"`
	Permanent bool    `json:"permanent,omitempty"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadUpgrades(filepath.Join(configDir, "upgrades.json"), &c.Upgrades); err != nil {
		return nil, err
	}
	if err := loadHazards(filepath.Join(configDir, "hazards.json"), &c.Hazards); err != nil {
		return nil, err
	}
	if err := loadAchievements(filepath.Join(configDir, "achievements.json"), &c.Achievements); err != nil {
		return nil, err
	}
	if err := loadLayers(filepath.Join(configDir, "layers.json"), &c.Layers); err != nil {
		return nil, err
	}
	if err := loadDiscoveries(filepath.Join(configDir, "discoveries.json"), &c.Discoveries); err != nil {
		return nil, err
	}

	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadUpgrades(path string, out *UpgradeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []UpgradeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("upgrades.json: %w", err)
	}
	out.ByID = map[string]UpgradeDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("upgrades.json: empty id")
		}
		if d.MaxLevel <= 0 {
			return fmt.Errorf("upgrades.json: %s: max_level must be positive", d.ID)
		}
		if d.CostScaling <= 0 {
			return fmt.Errorf("upgrades.json: %s: cost_scaling must be positive", d.ID)
		}
		out.ByID[d.ID] = d
		out.IDs = append(out.IDs, d.ID)
	}
	sort.Strings(out.IDs)
	return nil
}

func loadHazards(path string, out *HazardCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []HazardDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("hazards.json: %w", err)
	}
	out.ByID = map[string]HazardDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("hazards.json: empty id")
		}
		if d.WarningSeconds <= 0 || d.ActiveSeconds <= 0 {
			return fmt.Errorf("hazards.json: %s: warning_s and duration_s must be positive", d.ID)
		}
		out.ByID[d.ID] = d
		out.IDs = append(out.IDs, d.ID)
	}
	sort.Strings(out.IDs)
	return nil
}

func loadAchievements(path string, out *AchievementCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []AchievementDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("achievements.json: %w", err)
	}
	out.ByID = map[string]AchievementDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("achievements.json: empty id")
		}
		if len(d.Criteria) == 0 {
			return fmt.Errorf("achievements.json: %s: empty criteria", d.ID)
		}
		out.ByID[d.ID] = d
		out.IDs = append(out.IDs, d.ID)
	}
	sort.Strings(out.IDs)
	return nil
}

func loadLayers(path string, out *LayerCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []LayerDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("layers.json: %w", err)
	}
	if len(defs) == 0 {
		return fmt.Errorf("layers.json: at least one layer required")
	}
	out.ByID = map[string]LayerDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("layers.json: empty id")
		}
		if d.DepthEnd <= d.DepthStart {
			return fmt.Errorf("layers.json: %s: depth_end must exceed depth_start", d.ID)
		}
		out.ByID[d.ID] = d
	}
	out.Ordered = append([]LayerDef(nil), defs...)
	sort.Slice(out.Ordered, func(i, j int) bool { return out.Ordered[i].DepthStart < out.Ordered[j].DepthStart })
	return nil
}

func loadDiscoveries(path string, out *DiscoveryCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		// Discoveries are flavor content; a game without them is valid.
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			out.ByID = map[string]DiscoveryDef{}
			return nil
		}
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []DiscoveryDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("discoveries.json: %w", err)
	}
	out.ByID = map[string]DiscoveryDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("discoveries.json: empty id")
		}
		out.ByID[d.ID] = d
		out.IDs = append(out.IDs, d.ID)
	}
	sort.Strings(out.IDs)
	return nil
}
