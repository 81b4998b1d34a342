package game

import (
	"strings"

	"digdeep.game/internal/sim/catalogs"
)

// criterion is one compiled achievement condition: a getter over live state
// plus the threshold it must reach.
type criterion struct {
	get       func(g *Game) float64
	threshold float64
}

// compileCriteria resolves criteria keys to state getters once at startup so
// the per-check cost is a map walk, not string dispatch.
func compileCriteria(cat catalogs.AchievementCatalog) map[string][]criterion {
	out := make(map[string][]criterion, len(cat.ByID))
	for id, def := range cat.ByID {
		crits := make([]criterion, 0, len(def.Criteria))
		for key, threshold := range def.Criteria {
			crits = append(crits, criterion{get: compileGetter(key), threshold: threshold})
		}
		out[id] = crits
	}
	return out
}

func compileGetter(key string) func(g *Game) float64 {
	switch key {
	case "depth":
		return func(g *Game) float64 { return g.state.Depth }
	case "dirt", "stone", "gems":
		return func(g *Game) float64 { return g.state.Resources[key] }
	case "totalDirt":
		return func(g *Game) float64 { return g.state.Totals[ResDirt] }
	case "totalStone":
		return func(g *Game) float64 { return g.state.Totals[ResStone] }
	case "totalGems":
		return func(g *Game) float64 { return g.state.Totals[ResGems] }
	case "clicks":
		return func(g *Game) float64 { return float64(g.state.Stats.Clicks) }
	case "playTime":
		return func(g *Game) float64 { return g.state.Stats.PlayTime }
	}
	if up, ok := strings.CutPrefix(key, "upgrade_"); ok {
		return func(g *Game) float64 { return float64(g.state.Upgrades[up]) }
	}
	// Everything else reads from the special-stat counters (preventedHazards,
	// hazardDigs, secretFound, ...), which report 0 until first incremented.
	return func(g *Game) float64 { return g.state.SpecialStats[key] }
}

// checkAchievements evaluates every locked achievement against live state
// and unlocks the ones whose criteria are all met. Rewards can themselves
// satisfy further criteria, so evaluation loops until a pass unlocks
// nothing. Re-entrant calls (rewards mutate resources, which call back here)
// collapse into the outer loop.
func (g *Game) checkAchievements() {
	if g.checkingAchievements {
		return
	}
	g.checkingAchievements = true
	defer func() { g.checkingAchievements = false }()

	for {
		unlocked := false
		for _, id := range g.cat.Achievements.IDs {
			if g.IsAchievementUnlocked(id) {
				continue
			}
			if g.criteriaMet(id) {
				g.UnlockAchievement(id)
				unlocked = true
			}
		}
		if !unlocked {
			return
		}
	}
}

func (g *Game) criteriaMet(id string) bool {
	crits := g.crit[id]
	if len(crits) == 0 {
		return false
	}
	for _, c := range crits {
		if c.get(g) < c.threshold {
			return false
		}
	}
	return true
}

// UnlockAchievement marks an achievement unlocked and applies its reward.
// Unlocking is monotonic and the reward applies exactly once, including
// across save/load.
func (g *Game) UnlockAchievement(id string) {
	def, ok := g.cat.Achievements.ByID[id]
	if !ok {
		return
	}
	a := g.state.Achievements[id]
	if a == nil {
		a = &AchievementState{}
		g.state.Achievements[id] = a
	}
	if a.Unlocked {
		return
	}
	a.Unlocked = true
	g.emit(EvAchievementUnlocked, map[string]any{"id": id, "name": def.Name})
	g.logf("achievement unlocked: %s", id)
	if def.Reward != nil && !a.RewardApplied {
		a.RewardApplied = true
		g.applyReward(def.Reward)
	}
}

// applyReward mutates persisted state directly: resource grants, additive
// multiplier deltas and feature unlocks all survive in the save document, so
// they are never recomputed.
func (g *Game) applyReward(r *catalogs.RewardDef) {
	for kind, amt := range r.Resources {
		g.AddResource(kind, amt)
	}
	for kind, delta := range r.Multipliers {
		g.AddMultiplier(kind, delta)
	}
	if r.Feature != "" {
		g.unlockFeature(r.Feature)
	}
}
