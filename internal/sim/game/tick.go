package game

import "math"

// Step advances the simulation by dt seconds. The run loop calls it once per
// tick; tests call it directly for deterministic progression.
func (g *Game) Step(dt float64) {
	if dt <= 0 {
		return
	}
	g.clock += dt
	g.state.Stats.PlayTime += dt

	g.decayTempMultipliers(dt)

	// Auto-digging accrues fractionally and executes in whole digs, so a
	// 0.5 digs/second rate at 10Hz lands one dig every 2 seconds instead of
	// rounding to nothing.
	if g.state.AutoDigRate > 0 {
		g.state.DigAccumulator += g.state.AutoDigRate * g.Multiplier(MultAutoDigSpeed) * dt
		for whole := math.Floor(g.state.DigAccumulator); whole >= 1; whole-- {
			g.state.DigAccumulator--
			g.digOnce(false)
		}
	}

	g.advanceHazards(dt)
	g.rollHazardSpawns(dt)

	g.checkAchievements()

	if g.clock-g.lastAutosave >= g.cfg.AutosaveInterval.Seconds() {
		g.lastAutosave = g.clock
		g.requestSave()
	}
}
