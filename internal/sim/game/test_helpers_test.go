package game

import (
	"path/filepath"
	"testing"

	"digdeep.game/internal/protocol"
	"digdeep.game/internal/sim/catalogs"
)

func testCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cat, err := catalogs.Load(filepath.Join("..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cat
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := New(Config{Slot: "test", Seed: 1}, testCatalogs(t), nil)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

// eventCounter tallies notifications by name for assertion.
func eventCounter(g *Game) map[string]int {
	counts := map[string]int{}
	g.Notify(func(ev protocol.Event) { counts[ev.Name]++ })
	return counts
}
