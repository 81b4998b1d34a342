package game

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"digdeep.game/internal/persistence/snapshot"
	"digdeep.game/internal/protocol"
	"digdeep.game/internal/sim/catalogs"
)

// Game owns all mutable simulation state. A single goroutine (the Run loop,
// or the test body) drives it; nothing here is safe for concurrent use.
type Game struct {
	cfg Config
	cat *catalogs.Catalogs
	log *log.Logger
	rng *rand.Rand

	state   *State
	derived derivedEffects
	crit    map[string][]criterion

	listeners []func(protocol.Event)
	outbox    []protocol.Event

	// clock is simulation time in seconds, advanced only by Step. The
	// manual-dig cooldown and the autosave cadence are measured against it.
	clock         float64
	lastManualDig float64
	lastAutosave  float64
	lastDiscovery float64

	saveSink chan<- snapshot.SaveV1
	loadFn   func() (snapshot.SaveV1, error)

	checkingAchievements bool

	// runtime loop plumbing
	tick    uint64
	stop    chan struct{}
	joins   chan JoinRequest
	leaves  chan string
	inbox   chan CmdEnvelope
	clients map[string]*client
}

// derivedEffects is recomputed from upgrade levels whenever they change, so
// that loading a save never double-applies upgrade effects.
type derivedEffects struct {
	multBonus       map[string]float64 // additive bumps to base multipliers
	chanceBonus     map[string]float64 // additive bumps to base find chances
	autoDigRate     float64
	hazardReduction float64
}

func New(cfg Config, cat *catalogs.Catalogs, logger *log.Logger) (*Game, error) {
	cfg.applyDefaults()
	if cat == nil {
		return nil, fmt.Errorf("nil catalogs")
	}
	if len(cat.Layers.Ordered) == 0 {
		return nil, fmt.Errorf("empty layer catalog")
	}
	g := &Game{
		cfg:     cfg,
		cat:     cat,
		log:     logger,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		stop:    make(chan struct{}),
		joins:   make(chan JoinRequest, 16),
		leaves:  make(chan string, 16),
		inbox:   make(chan CmdEnvelope, 256),
		clients: map[string]*client{},
	}
	g.state = newState(cfg, cat.Layers.Ordered[0].ID)
	g.lastManualDig = -cfg.ClickCooldown.Seconds()
	g.lastDiscovery = math.Inf(-1)
	g.crit = compileCriteria(cat.Achievements)
	g.recalcUpgradeEffects()
	return g, nil
}

// SetSaveSink installs the channel save documents are handed to. The send is
// non-blocking; persistence must never stall the simulation.
func (g *Game) SetSaveSink(ch chan<- snapshot.SaveV1) { g.saveSink = ch }

// SetLoadFunc installs the loader used by the load command to fetch the
// latest stored save document.
func (g *Game) SetLoadFunc(fn func() (snapshot.SaveV1, error)) { g.loadFn = fn }

func (g *Game) Slot() string        { return g.cfg.Slot }
func (g *Game) TickRateHz() int     { return g.cfg.TickRateHz }
func (g *Game) CurrentTick() uint64 { return g.tick }

// Depth returns the current depth in meters.
func (g *Game) Depth() float64 { return g.state.Depth }

// Resource returns the current amount of a resource, 0 for unknown kinds.
func (g *Game) Resource(kind string) float64 { return g.state.Resources[kind] }

// UpgradeLevel returns the owned level of an upgrade, 0 if not owned.
func (g *Game) UpgradeLevel(id string) int { return g.state.Upgrades[id] }

func (g *Game) Stats() Stats { return g.state.Stats }

func (g *Game) SpecialStat(key string) float64 { return g.state.SpecialStats[key] }

func (g *Game) IsAchievementUnlocked(id string) bool {
	a := g.state.Achievements[id]
	return a != nil && a.Unlocked
}

func (g *Game) IsFeatureUnlocked(id string) bool { return g.state.Features[id] }

func (g *Game) IsDiscoveryFound(id string) bool { return g.state.Discoveries[id] }

// ActiveHazards returns a copy of the live hazard list.
func (g *Game) ActiveHazards() []HazardInstance {
	return append([]HazardInstance(nil), g.state.Hazards...)
}

func (g *Game) logf(format string, args ...any) {
	if g.log != nil {
		g.log.Printf(format, args...)
	}
}
