package game

// Resource kinds.
const (
	ResDirt  = "dirt"
	ResStone = "stone"
	ResGems  = "gems"
)

var resourceKinds = []string{ResDirt, ResStone, ResGems}

// Multiplier kinds. MultAll is a write-only alias that fans out to the three
// resource multipliers when applied.
const (
	MultDirt           = "dirt"
	MultStone          = "stone"
	MultGems           = "gems"
	MultDepth          = "depth"
	MultClickPower     = "clickPower"
	MultAutoDigSpeed   = "autoDigSpeed"
	MultGemChance      = "gemChance"
	MultHazardChance   = "hazardChance"
	MultHazardDuration = "hazardDuration"

	MultAll = "all"
)

var multiplierKinds = []string{
	MultDirt, MultStone, MultGems, MultDepth, MultClickPower,
	MultAutoDigSpeed, MultGemChance, MultHazardChance, MultHazardDuration,
}

// TempMultiplier is a timed modifier layered on top of the base multiplier
// set. The live value of a kind is always recomputed as base times the
// product of live factors, never mutated in place, so expiry cannot drift
// the base value.
type TempMultiplier struct {
	Kind      string
	Factor    float64
	Duration  float64
	Remaining float64
	Permanent bool

	// Source names the hazard that injected this modifier; hazard penalties
	// are removed on resolve rather than by countdown.
	Source string
}

// Hazard lifecycle states. Resolved hazards are removed from the list, so
// only warning and active appear on live instances.
const (
	HazardWarning = "warning"
	HazardActive  = "active"
)

type HazardInstance struct {
	Type      string
	State     string
	Remaining float64
}

type AchievementState struct {
	Unlocked      bool
	RewardApplied bool
}

type Stats struct {
	Clicks   int
	PlayTime float64 // seconds
}

// State is the full mutable simulation state. It is owned by the Game and
// mutated only through Game operations so that invariants (non-negative
// resources, monotonic achievements, hazard exclusivity) hold after every
// call.
type State struct {
	Resources map[string]float64
	Totals    map[string]float64 // lifetime gains per resource

	Multipliers     map[string]float64 // base values; live value layers temp factors on top
	TempMultipliers []TempMultiplier

	Stats        Stats
	SpecialStats map[string]float64

	Upgrades map[string]int

	Depth float64
	Layer string

	AutoDigRate    float64 // digs per second before the autoDigSpeed multiplier
	DigAccumulator float64 // fractional auto-dig progress

	Hazards []HazardInstance

	Achievements map[string]*AchievementState
	Discoveries  map[string]bool
	Features     map[string]bool

	LastSaveUnix int64
}

func newState(cfg Config, firstLayer string) *State {
	s := &State{
		Resources: map[string]float64{
			ResDirt:  cfg.StartingDirt,
			ResStone: cfg.StartingStone,
			ResGems:  cfg.StartingGems,
		},
		Totals:       map[string]float64{ResDirt: 0, ResStone: 0, ResGems: 0},
		Multipliers:  map[string]float64{},
		SpecialStats: map[string]float64{},
		Upgrades:     map[string]int{},
		Layer:        firstLayer,
		Achievements: map[string]*AchievementState{},
		Discoveries:  map[string]bool{},
		Features:     map[string]bool{},
	}
	for _, k := range multiplierKinds {
		s.Multipliers[k] = 1
	}
	return s
}
