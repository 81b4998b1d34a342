package game

// AddResource adjusts a resource by delta, clamping the result at zero.
// Positive deltas also feed the lifetime totals used by achievements.
// Unknown kinds are ignored.
func (g *Game) AddResource(kind string, delta float64) {
	if _, ok := g.state.Resources[kind]; !ok {
		return
	}
	if delta == 0 {
		return
	}
	v := g.state.Resources[kind] + delta
	if v < 0 {
		v = 0
	}
	g.state.Resources[kind] = v
	if delta > 0 {
		g.state.Totals[kind] += delta
	}
	g.emit(EvResourceChanged, map[string]any{"kind": kind, "amount": v})
	g.checkAchievements()
}

func (g *Game) canAfford(cost map[string]float64) bool {
	for kind, amt := range cost {
		if g.state.Resources[kind] < amt {
			return false
		}
	}
	return true
}

// spend deducts a multi-resource cost all-or-nothing. It reports false and
// leaves every balance untouched when any single resource is short.
func (g *Game) spend(cost map[string]float64) bool {
	if !g.canAfford(cost) {
		return false
	}
	for kind, amt := range cost {
		if amt == 0 {
			continue
		}
		g.state.Resources[kind] -= amt
		g.emit(EvResourceChanged, map[string]any{"kind": kind, "amount": g.state.Resources[kind]})
	}
	return true
}
