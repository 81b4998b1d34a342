package game

// Multiplier returns the live value of a multiplier kind: the persisted base,
// times every active temporary factor for that kind, plus the additive bonus
// derived from upgrade levels. Unknown kinds read as 1.
func (g *Game) Multiplier(kind string) float64 {
	base, ok := g.state.Multipliers[kind]
	if !ok {
		base = 1
	}
	v := base + g.derived.multBonus[kind]
	for i := range g.state.TempMultipliers {
		tm := &g.state.TempMultipliers[i]
		if tm.Kind == kind {
			v *= tm.Factor
		}
	}
	return v
}

// BaseMultiplier returns the persisted base value without temporary factors
// or upgrade bonuses.
func (g *Game) BaseMultiplier(kind string) float64 {
	base, ok := g.state.Multipliers[kind]
	if !ok {
		return 1
	}
	return base
}

// SetMultiplier overwrites the base value of a kind. Unknown kinds are
// ignored silently so stale save data cannot grow the multiplier set.
func (g *Game) SetMultiplier(kind string, value float64) {
	if _, ok := g.state.Multipliers[kind]; !ok {
		return
	}
	g.state.Multipliers[kind] = value
	g.emit(EvMultiplierChanged, map[string]any{"kind": kind, "base": value})
}

// AddMultiplier adds delta to the base value of a kind. The "all" alias fans
// out to the three resource kinds.
func (g *Game) AddMultiplier(kind string, delta float64) {
	if kind == MultAll {
		for _, k := range []string{MultDirt, MultStone, MultGems} {
			g.AddMultiplier(k, delta)
		}
		return
	}
	if _, ok := g.state.Multipliers[kind]; !ok {
		return
	}
	g.state.Multipliers[kind] += delta
	g.emit(EvMultiplierChanged, map[string]any{"kind": kind, "base": g.state.Multipliers[kind]})
}

// scaleMultiplier multiplies the base value of a kind, for permanent rewards
// expressed as factors (discoveries).
func (g *Game) scaleMultiplier(kind string, factor float64) {
	if kind == MultAll {
		for _, k := range []string{MultDirt, MultStone, MultGems} {
			g.scaleMultiplier(k, factor)
		}
		return
	}
	if _, ok := g.state.Multipliers[kind]; !ok {
		return
	}
	g.state.Multipliers[kind] *= factor
	g.emit(EvMultiplierChanged, map[string]any{"kind": kind, "base": g.state.Multipliers[kind]})
}

// AddTemporaryMultiplier layers a timed factor on top of the base value.
// Permanent entries never expire; entries with a Source are removed when the
// sourcing hazard resolves.
func (g *Game) AddTemporaryMultiplier(tm TempMultiplier) {
	if tm.Factor == 0 {
		return
	}
	if !tm.Permanent && tm.Remaining <= 0 {
		tm.Remaining = tm.Duration
	}
	g.state.TempMultipliers = append(g.state.TempMultipliers, tm)
	g.emit(EvMultiplierChanged, map[string]any{"kind": tm.Kind, "live": g.Multiplier(tm.Kind)})
}

func (g *Game) decayTempMultipliers(dt float64) {
	changed := map[string]bool{}
	kept := g.state.TempMultipliers[:0]
	for _, tm := range g.state.TempMultipliers {
		if tm.Permanent {
			kept = append(kept, tm)
			continue
		}
		tm.Remaining -= dt
		if tm.Remaining <= 0 {
			changed[tm.Kind] = true
			continue
		}
		kept = append(kept, tm)
	}
	g.state.TempMultipliers = kept
	for kind := range changed {
		g.emit(EvMultiplierChanged, map[string]any{"kind": kind, "live": g.Multiplier(kind)})
	}
}

// removeTempMultipliersBySource drops every temporary modifier a hazard
// injected. Hazard penalties are tagged Permanent so the countdown never
// touches them; resolution is the only exit.
func (g *Game) removeTempMultipliersBySource(source string) {
	changed := map[string]bool{}
	kept := g.state.TempMultipliers[:0]
	for _, tm := range g.state.TempMultipliers {
		if tm.Source == source {
			changed[tm.Kind] = true
			continue
		}
		kept = append(kept, tm)
	}
	g.state.TempMultipliers = kept
	for kind := range changed {
		g.emit(EvMultiplierChanged, map[string]any{"kind": kind, "live": g.Multiplier(kind)})
	}
}
