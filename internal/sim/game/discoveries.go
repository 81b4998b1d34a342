package game

// checkDiscoveries fires the first unfound discovery whose depth band
// contains the current depth. At most one discovery is granted per depth
// change, and a cooldown spaces them out so a burst of digs near a boundary
// does not unload several at once.
func (g *Game) checkDiscoveries() {
	if len(g.cat.Discoveries.IDs) == 0 {
		return
	}
	if g.clock-g.lastDiscovery < g.cfg.DiscoveryCooldown.Seconds() {
		return
	}
	depth := g.state.Depth
	for _, id := range g.cat.Discoveries.IDs {
		if g.state.Discoveries[id] {
			continue
		}
		def := g.cat.Discoveries.ByID[id]
		if depth < def.Depth-def.DepthRange || depth > def.Depth+def.DepthRange {
			continue
		}
		g.state.Discoveries[id] = true
		g.lastDiscovery = g.clock
		g.emit(EvDiscoveryFound, map[string]any{"id": id, "name": def.Name, "depth": depth})
		g.logf("discovery: %s at %.1fm", id, depth)

		for kind, amt := range def.Reward {
			g.AddResource(kind, amt)
		}
		if eff := def.Effect; eff != nil {
			if eff.Permanent {
				g.scaleMultiplier(eff.Kind, eff.Factor)
			} else {
				g.AddTemporaryMultiplier(TempMultiplier{
					Kind:     eff.Kind,
					Factor:   eff.Factor,
					Duration: eff.DurationS,
				})
			}
		}
		g.state.SpecialStats["discoveries"]++
		g.checkAchievements()
		return
	}
}
