package game

// SetDepth moves to an absolute depth, clamped at the surface. Layer changes
// are edge-triggered: the layerChanged notification fires only when the
// resolved layer differs from the current one.
func (g *Game) SetDepth(d float64) {
	if d < 0 {
		d = 0
	}
	if d == g.state.Depth {
		return
	}
	g.state.Depth = d
	g.emit(EvDepthChanged, map[string]any{"depth": d})
	layer := g.cat.Layers.AtDepth(d)
	if layer.ID != g.state.Layer {
		g.state.Layer = layer.ID
		g.emit(EvLayerChanged, map[string]any{"layer": layer.ID, "name": layer.Name})
	}
	g.checkAchievements()
	g.checkDiscoveries()
}

// IncreaseDepth digs deeper by delta meters, scaled by the depth multiplier.
func (g *Game) IncreaseDepth(delta float64) {
	if delta <= 0 {
		return
	}
	g.SetDepth(g.state.Depth + delta*g.Multiplier(MultDepth))
}

// CurrentLayer returns the layer definition for the current depth.
func (g *Game) CurrentLayer() string { return g.state.Layer }
