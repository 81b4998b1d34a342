package game

import (
	"math"
	"testing"
)

func TestIncreaseDepthAccumulates(t *testing.T) {
	g := newTestGame(t)
	counts := eventCounter(g)

	for i := 0; i < 150; i++ {
		g.IncreaseDepth(0.1)
	}
	if d := g.Depth(); math.Abs(d-15.0) > 1e-9 {
		t.Fatalf("depth = %v, want 15.0", d)
	}
	// surface ends at 10m; 150 small digs cross exactly one boundary.
	if counts[EvLayerChanged] != 1 {
		t.Fatalf("layerChanged fired %d times, want 1", counts[EvLayerChanged])
	}
	if g.CurrentLayer() != "topsoil" {
		t.Fatalf("layer = %q, want topsoil", g.CurrentLayer())
	}
}

func TestSetDepthClampsAtSurface(t *testing.T) {
	g := newTestGame(t)
	g.SetDepth(5)
	g.SetDepth(-3)
	if g.Depth() != 0 {
		t.Fatalf("depth = %v, want 0", g.Depth())
	}
	if g.CurrentLayer() != "surface" {
		t.Fatalf("layer = %q, want surface", g.CurrentLayer())
	}
}

func TestLayerChangeIsEdgeTriggered(t *testing.T) {
	g := newTestGame(t)
	counts := eventCounter(g)

	g.SetDepth(12)
	g.SetDepth(13)
	g.SetDepth(14)
	if counts[EvLayerChanged] != 1 {
		t.Fatalf("layerChanged fired %d times, want 1", counts[EvLayerChanged])
	}
}
