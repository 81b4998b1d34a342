package game

import (
	"fmt"

	"digdeep.game/internal/protocol"
	"digdeep.game/internal/sim/catalogs"
)

// PurchaseUpgrade validates and applies a single-level purchase. Checks run
// in a fixed order so a request failing several ways reports a stable code:
// existence, max level, requirements, cost.
func (g *Game) PurchaseUpgrade(id string) protocol.Result {
	def, ok := g.cat.Upgrades.ByID[id]
	if !ok {
		return protocol.Rejected(protocol.ErrBadRequest, fmt.Sprintf("unknown upgrade %q", id))
	}
	level := g.state.Upgrades[id]
	if def.MaxLevel > 0 && level >= def.MaxLevel {
		return protocol.Rejected(protocol.ErrMaxLevel, fmt.Sprintf("%s is at max level %d", id, def.MaxLevel))
	}
	if reason := g.requirementGap(def.Requires); reason != "" {
		return protocol.Rejected(protocol.ErrRequirement, reason)
	}
	cost := g.cat.Upgrades.CostAt(id, level)
	if !g.spend(cost) {
		return protocol.Rejected(protocol.ErrNoResource, fmt.Sprintf("cannot afford %s level %d", id, level+1))
	}
	g.setUpgradeLevel(id, level+1)
	return protocol.Accepted()
}

// IncrementUpgradeLevel grants a level without cost or requirement checks,
// for admin commands.
func (g *Game) IncrementUpgradeLevel(id string) protocol.Result {
	def, ok := g.cat.Upgrades.ByID[id]
	if !ok {
		return protocol.Rejected(protocol.ErrBadRequest, fmt.Sprintf("unknown upgrade %q", id))
	}
	level := g.state.Upgrades[id]
	if def.MaxLevel > 0 && level >= def.MaxLevel {
		return protocol.Rejected(protocol.ErrMaxLevel, fmt.Sprintf("%s is at max level %d", id, def.MaxLevel))
	}
	g.setUpgradeLevel(id, level+1)
	return protocol.Accepted()
}

func (g *Game) requirementGap(req catalogs.Requirement) string {
	if req.Depth > 0 && g.state.Depth < req.Depth {
		return fmt.Sprintf("requires depth %.0fm", req.Depth)
	}
	for dep, lvl := range req.Upgrades {
		if g.state.Upgrades[dep] < lvl {
			return fmt.Sprintf("requires %s level %d", dep, lvl)
		}
	}
	return ""
}

func (g *Game) setUpgradeLevel(id string, level int) {
	g.state.Upgrades[id] = level
	g.recalcUpgradeEffects()
	g.emit(EvUpgradeChanged, map[string]any{"id": id, "level": level})
	g.checkAchievements()
}

// recalcUpgradeEffects rebuilds the derived effect set from owned levels.
// Effects are never written into the persisted base multipliers, so loading
// a save and recomputing yields identical live values.
func (g *Game) recalcUpgradeEffects() {
	prevRate := g.derived.autoDigRate
	d := derivedEffects{
		multBonus:   map[string]float64{},
		chanceBonus: map[string]float64{},
	}
	features := map[string]bool{}
	for id, level := range g.state.Upgrades {
		def, ok := g.cat.Upgrades.ByID[id]
		if !ok || level <= 0 {
			continue
		}
		eff := def.Effect
		switch eff.Kind {
		case catalogs.EffectMultiplier:
			d.multBonus[eff.Target] += eff.PerLevel * float64(level)
		case catalogs.EffectResourceChance:
			d.chanceBonus[eff.Target] += eff.PerLevel * float64(level)
		case catalogs.EffectAutoDigRate:
			d.autoDigRate += eff.PerLevel * float64(level)
		case catalogs.EffectHazardReduction:
			r := eff.PerLevel * float64(level)
			if r > d.hazardReduction {
				d.hazardReduction = r
			}
		case catalogs.EffectFeature:
			features[eff.Feature] = true
		}
	}
	if d.hazardReduction > 1 {
		d.hazardReduction = 1
	}
	g.derived = d
	g.state.AutoDigRate = d.autoDigRate
	if d.autoDigRate != prevRate {
		g.emit(EvAutoDigRateChanged, map[string]any{"rate": d.autoDigRate})
	}
	for f := range features {
		g.unlockFeature(f)
	}
}

func (g *Game) unlockFeature(id string) {
	if g.state.Features[id] {
		return
	}
	g.state.Features[id] = true
	g.emit(EvFeatureUnlocked, map[string]any{"feature": id})
}
