package game

import (
	"math"
	"testing"
)

func TestDepthAchievementThreshold(t *testing.T) {
	g := newTestGame(t)
	counts := eventCounter(g)

	g.SetDepth(9.999)
	if g.IsAchievementUnlocked("depth10") {
		t.Fatalf("depth10 unlocked below threshold")
	}
	g.SetDepth(10)
	if !g.IsAchievementUnlocked("depth10") {
		t.Fatalf("depth10 not unlocked at threshold")
	}
	if counts[EvAchievementUnlocked] != 1 {
		t.Fatalf("achievementUnlocked fired %d times, want 1", counts[EvAchievementUnlocked])
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	g := newTestGame(t)

	// firstDig rewards 5 dirt; unlocking twice must pay once.
	g.UnlockAchievement("firstDig")
	if got := g.Resource(ResDirt); got != 5 {
		t.Fatalf("dirt after unlock = %v, want 5", got)
	}
	g.UnlockAchievement("firstDig")
	if got := g.Resource(ResDirt); got != 5 {
		t.Fatalf("dirt after repeat unlock = %v, want 5", got)
	}
}

func TestRewardNotReappliedAfterLoad(t *testing.T) {
	g := newTestGame(t)
	g.SetDepth(10)
	base := g.BaseMultiplier(MultDirt)
	if math.Abs(base-1.05) > 1e-12 {
		t.Fatalf("dirt base after depth10 = %v, want 1.05", base)
	}

	doc := g.BuildSaveDoc()
	g2 := newTestGame(t)
	g2.ApplySaveDoc(doc)
	if got := g2.BaseMultiplier(MultDirt); math.Abs(got-base) > 1e-12 {
		t.Fatalf("dirt base after load = %v, want %v", got, base)
	}
	if !g2.IsAchievementUnlocked("depth10") {
		t.Fatalf("depth10 lost across save/load")
	}
}

func TestRewardCascadeUnlocksInOnePass(t *testing.T) {
	g := newTestGame(t)
	// 95 dirt plus firstDig's 5-dirt reward crosses the dirt100 threshold;
	// both must unlock from a single trigger.
	g.AddResource(ResDirt, 95)
	g.state.Stats.Clicks = 1
	g.checkAchievements()
	if !g.IsAchievementUnlocked("firstDig") {
		t.Fatalf("firstDig not unlocked")
	}
	if !g.IsAchievementUnlocked("dirt100") {
		t.Fatalf("dirt100 not unlocked by cascaded reward")
	}
}

func TestNegativeRewardLowersHazardChance(t *testing.T) {
	g := newTestGame(t)
	g.state.SpecialStats["preventedHazards"] = 1
	g.checkAchievements()
	if !g.IsAchievementUnlocked("preventHazard") {
		t.Fatalf("preventHazard not unlocked")
	}
	if got := g.BaseMultiplier(MultHazardChance); math.Abs(got-0.9) > 1e-12 {
		t.Fatalf("hazardChance = %v, want 0.9", got)
	}
}

func TestSecretAchievementUnlocksMetaTab(t *testing.T) {
	g := newTestGame(t)
	g.state.SpecialStats["secretFound"] = 1
	g.checkAchievements()
	if !g.IsAchievementUnlocked("secretAchievement") {
		t.Fatalf("secretAchievement not unlocked")
	}
	if !g.IsFeatureUnlocked("metaTab") {
		t.Fatalf("metaTab feature not unlocked")
	}
}
