package game

import (
	"math"
	"testing"

	"digdeep.game/internal/protocol"
)

func TestHazardWarningActivatesOnce(t *testing.T) {
	g := newTestGame(t)
	counts := eventCounter(g)

	if res := g.TriggerHazard("caveIn"); !res.OK {
		t.Fatalf("trigger: %+v", res)
	}
	// caveIn warns for 5 seconds; stepping 1s at a time must cross the
	// boundary exactly once.
	for i := 0; i < 5; i++ {
		g.Step(1)
	}
	if counts[EvHazardActivated] != 1 {
		t.Fatalf("hazardActivated fired %d times, want 1", counts[EvHazardActivated])
	}
	hs := g.ActiveHazards()
	if len(hs) != 1 || hs[0].State != HazardActive {
		t.Fatalf("hazards = %+v", hs)
	}
}

func TestHazardExclusivePerType(t *testing.T) {
	g := newTestGame(t)
	g.TriggerHazard("caveIn")
	if res := g.TriggerHazard("caveIn"); res.OK || res.Code != protocol.ErrConflict {
		t.Fatalf("duplicate trigger: %+v", res)
	}
	// A different hazard type may still spawn.
	if res := g.TriggerHazard("gasLeak"); !res.OK {
		t.Fatalf("second type: %+v", res)
	}
}

func TestTriggerUnknownHazard(t *testing.T) {
	g := newTestGame(t)
	if res := g.TriggerHazard("flood"); res.OK || res.Code != protocol.ErrInvalidTarget {
		t.Fatalf("unknown hazard: %+v", res)
	}
}

func TestPreventHazardDuringWarning(t *testing.T) {
	g := newTestGame(t)
	g.AddResource(ResStone, 20)
	g.TriggerHazard("caveIn")

	if res := g.PreventHazard("caveIn"); !res.OK {
		t.Fatalf("prevent: %+v", res)
	}
	if g.Resource(ResStone) != 0 {
		t.Fatalf("stone after prevent = %v, want 0", g.Resource(ResStone))
	}
	if len(g.ActiveHazards()) != 0 {
		t.Fatalf("hazard survived prevention")
	}
	if !g.IsAchievementUnlocked("preventHazard") {
		t.Fatalf("preventHazard achievement not unlocked")
	}
}

func TestPreventFailsOnceActive(t *testing.T) {
	g := newTestGame(t)
	g.AddResource(ResStone, 100)
	g.TriggerHazard("caveIn")
	for i := 0; i < 6; i++ {
		g.Step(1)
	}
	if res := g.PreventHazard("caveIn"); res.OK || res.Code != protocol.ErrConflict {
		t.Fatalf("prevent after activation: %+v", res)
	}
}

func TestPreventWithoutPendingHazard(t *testing.T) {
	g := newTestGame(t)
	if res := g.PreventHazard("caveIn"); res.OK || res.Code != protocol.ErrNotFound {
		t.Fatalf("prevent with nothing pending: %+v", res)
	}
}

func TestGasLeakPenaltyRevertsOnResolve(t *testing.T) {
	g := newTestGame(t)
	g.TriggerHazard("gasLeak")

	// Warning runs 7s, then the leak halves auto-dig speed for 15s.
	for i := 0; i < 8; i++ {
		g.Step(1)
	}
	if got := g.Multiplier(MultAutoDigSpeed); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("autoDigSpeed during leak = %v, want 0.5", got)
	}
	for i := 0; i < 15; i++ {
		g.Step(1)
	}
	if got := g.Multiplier(MultAutoDigSpeed); math.Abs(got-1) > 1e-12 {
		t.Fatalf("autoDigSpeed after resolve = %v, want 1", got)
	}
	if len(g.ActiveHazards()) != 0 {
		t.Fatalf("gasLeak still live: %+v", g.ActiveHazards())
	}
}

func TestCaveInDestroysResources(t *testing.T) {
	g := newTestGame(t)
	g.AddResource(ResDirt, 100)
	g.AddResource(ResStone, 40)
	g.TriggerHazard("caveIn")
	for i := 0; i < 6; i++ {
		g.Step(1)
	}
	// caveIn destroys 10% dirt and 5% stone on activation.
	if got := g.Resource(ResDirt); math.Abs(got-90) > 1e-9 {
		t.Fatalf("dirt after cave-in = %v, want 90", got)
	}
	if got := g.Resource(ResStone); math.Abs(got-38) > 1e-9 {
		t.Fatalf("stone after cave-in = %v, want 38", got)
	}
}

func TestReinforcedGearSoftensLoss(t *testing.T) {
	g := newTestGame(t)
	g.IncrementUpgradeLevel("reinforcedGear")
	g.AddResource(ResDirt, 100)
	g.TriggerHazard("caveIn")
	for i := 0; i < 6; i++ {
		g.Step(1)
	}
	// Half the 10% loss.
	if got := g.Resource(ResDirt); math.Abs(got-95) > 1e-9 {
		t.Fatalf("dirt with reinforced gear = %v, want 95", got)
	}
}
