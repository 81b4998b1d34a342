package game

import (
	"digdeep.game/internal/protocol"
)

// Dig performs one manual dig. The cooldown is measured against the
// simulation clock, so tests can drive it deterministically with Step.
func (g *Game) Dig() protocol.Result {
	if g.clock-g.lastManualDig < g.cfg.ClickCooldown.Seconds() {
		return protocol.Rejected(protocol.ErrCooldown, "dig on cooldown")
	}
	g.lastManualDig = g.clock
	g.state.Stats.Clicks++
	g.digOnce(true)
	g.checkAchievements()
	return protocol.Accepted()
}

// digOnce rolls each resource independently, advances depth and tracks the
// hazard-dig stat. Manual digs are amplified by clickPower; automated digs
// are not.
func (g *Game) digOnce(manual bool) {
	layer := g.cat.Layers.AtDepth(g.state.Depth)

	for _, kind := range resourceKinds {
		chance := g.findChance(kind, layer.ResourceMultiplier(kind))
		if g.rng.Float64() >= chance {
			continue
		}
		gain := g.Multiplier(kind)
		if manual {
			gain *= g.Multiplier(MultClickPower)
		}
		g.AddResource(kind, gain)
	}

	if g.hasActiveHazard() {
		g.state.SpecialStats["hazardDigs"]++
	}

	g.IncreaseDepth(g.cfg.DepthPerDig)
}

// findChance combines the tuned base chance, upgrade chance bonuses and the
// layer multiplier. Gems additionally honor the gemChance multiplier. The
// result is capped at 1.
func (g *Game) findChance(kind string, layerMult float64) float64 {
	var base float64
	switch kind {
	case ResDirt:
		base = g.cfg.BaseDirtChance
	case ResStone:
		base = g.cfg.BaseStoneChance
	case ResGems:
		base = g.cfg.BaseGemChance
	}
	chance := (base + g.derived.chanceBonus[kind]) * layerMult
	if kind == ResGems {
		chance *= g.Multiplier(MultGemChance)
	}
	if chance > 1 {
		chance = 1
	}
	if chance < 0 {
		chance = 0
	}
	return chance
}
