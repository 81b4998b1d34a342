package game

import (
	"math"
	"time"

	"digdeep.game/internal/persistence/snapshot"
	"digdeep.game/internal/protocol"
)

// BuildSaveDoc captures the current state as a versioned save document.
func (g *Game) BuildSaveDoc() snapshot.SaveV1 {
	s := g.state
	doc := snapshot.SaveV1{
		Header: snapshot.Header{
			Version:     snapshot.Version,
			Slot:        g.cfg.Slot,
			SavedAtUnix: time.Now().Unix(),
		},
		Resources:    copyFloatMap(s.Resources),
		Multipliers:  copyFloatMap(s.Multipliers),
		SpecialStats: copyFloatMap(s.SpecialStats),
		Upgrades:     copyIntMap(s.Upgrades),
		Stats: snapshot.StatsV1{
			Clicks:     s.Stats.Clicks,
			TotalDirt:  s.Totals[ResDirt],
			TotalStone: s.Totals[ResStone],
			TotalGems:  s.Totals[ResGems],
			PlayTime:   s.Stats.PlayTime,
		},
		Depth:          s.Depth,
		Layer:          s.Layer,
		AutoDigRate:    s.AutoDigRate,
		DigAccumulator: s.DigAccumulator,
		Achievements:   map[string]snapshot.AchievementV1{},
	}
	for _, tm := range s.TempMultipliers {
		doc.TempMultipliers = append(doc.TempMultipliers, snapshot.TempMultiplierV1{
			Kind: tm.Kind, Factor: tm.Factor, Duration: tm.Duration,
			Remaining: tm.Remaining, Permanent: tm.Permanent, Source: tm.Source,
		})
	}
	for _, h := range s.Hazards {
		doc.Hazards = append(doc.Hazards, snapshot.HazardV1{Type: h.Type, State: h.State, Remaining: h.Remaining})
	}
	for id, a := range s.Achievements {
		doc.Achievements[id] = snapshot.AchievementV1{Unlocked: a.Unlocked, RewardApplied: a.RewardApplied}
	}
	for id := range s.Discoveries {
		if s.Discoveries[id] {
			doc.Discoveries = append(doc.Discoveries, id)
		}
	}
	for id := range s.Features {
		if s.Features[id] {
			doc.Features = append(doc.Features, id)
		}
	}
	return doc
}

// requestSave hands a save document to the persistence sink without
// blocking. A full sink drops the save; the next autosave retries.
func (g *Game) requestSave() {
	doc := g.BuildSaveDoc()
	g.state.LastSaveUnix = doc.Header.SavedAtUnix
	if g.saveSink != nil {
		select {
		case g.saveSink <- doc:
		default:
			g.logf("save sink full, dropping save")
		}
	}
	g.emit(EvGameSaved, map[string]any{"saved_at": doc.Header.SavedAtUnix})
}

// Save snapshots immediately, outside the autosave cadence.
func (g *Game) Save() protocol.Result {
	g.requestSave()
	g.lastAutosave = g.clock
	return protocol.Accepted()
}

// ExportSave serializes the current state as portable JSON.
func (g *Game) ExportSave() ([]byte, error) {
	return snapshot.Export(g.BuildSaveDoc())
}

// ImportSave validates an exported document and applies it.
func (g *Game) ImportSave(data []byte) protocol.Result {
	doc, err := snapshot.Import(data)
	if err != nil {
		return protocol.Rejected(protocol.ErrCorruptSave, err.Error())
	}
	g.ApplySaveDoc(doc)
	return protocol.Accepted()
}

// ApplySaveDoc merges a save document into a fresh default state: every
// field present replaces the default, every field absent keeps it. Upgrade
// effects are then recomputed from levels, so applying the same document
// twice yields the same live values.
func (g *Game) ApplySaveDoc(doc snapshot.SaveV1) {
	fresh := newState(g.cfg, g.cat.Layers.Ordered[0].ID)

	for kind, v := range doc.Resources {
		if _, ok := fresh.Resources[kind]; ok && v >= 0 {
			fresh.Resources[kind] = v
		}
	}
	for kind, v := range doc.Multipliers {
		if _, ok := fresh.Multipliers[kind]; ok {
			fresh.Multipliers[kind] = v
		}
	}
	for _, tm := range doc.TempMultipliers {
		if _, ok := fresh.Multipliers[tm.Kind]; !ok {
			continue
		}
		fresh.TempMultipliers = append(fresh.TempMultipliers, TempMultiplier{
			Kind: tm.Kind, Factor: tm.Factor, Duration: tm.Duration,
			Remaining: tm.Remaining, Permanent: tm.Permanent, Source: tm.Source,
		})
	}
	fresh.Stats.Clicks = doc.Stats.Clicks
	fresh.Stats.PlayTime = doc.Stats.PlayTime
	fresh.Totals[ResDirt] = doc.Stats.TotalDirt
	fresh.Totals[ResStone] = doc.Stats.TotalStone
	fresh.Totals[ResGems] = doc.Stats.TotalGems
	for k, v := range doc.SpecialStats {
		fresh.SpecialStats[k] = v
	}
	for id, lvl := range doc.Upgrades {
		if _, ok := g.cat.Upgrades.ByID[id]; ok && lvl > 0 {
			fresh.Upgrades[id] = lvl
		}
	}
	if doc.Depth > 0 {
		fresh.Depth = doc.Depth
	}
	fresh.Layer = g.cat.Layers.AtDepth(fresh.Depth).ID
	fresh.DigAccumulator = doc.DigAccumulator
	for _, h := range doc.Hazards {
		if _, ok := g.cat.Hazards.ByID[h.Type]; !ok {
			continue
		}
		if h.State != HazardWarning && h.State != HazardActive {
			continue
		}
		fresh.Hazards = append(fresh.Hazards, HazardInstance{Type: h.Type, State: h.State, Remaining: h.Remaining})
	}
	for id, a := range doc.Achievements {
		if _, ok := g.cat.Achievements.ByID[id]; ok {
			fresh.Achievements[id] = &AchievementState{Unlocked: a.Unlocked, RewardApplied: a.RewardApplied}
		}
	}
	for _, id := range doc.Discoveries {
		if _, ok := g.cat.Discoveries.ByID[id]; ok {
			fresh.Discoveries[id] = true
		}
	}
	for _, id := range doc.Features {
		fresh.Features[id] = true
	}
	fresh.LastSaveUnix = doc.Header.SavedAtUnix

	g.state = fresh
	g.recalcUpgradeEffects()
	g.emit(EvGameLoaded, map[string]any{"saved_at": doc.Header.SavedAtUnix, "depth": fresh.Depth})
	g.logf("save applied: depth=%.1f playtime=%.0fs", fresh.Depth, fresh.Stats.PlayTime)
}

// Reset discards all progress and returns to the initial state.
func (g *Game) Reset() protocol.Result {
	g.state = newState(g.cfg, g.cat.Layers.Ordered[0].ID)
	g.lastManualDig = -g.cfg.ClickCooldown.Seconds()
	g.lastDiscovery = math.Inf(-1)
	g.recalcUpgradeEffects()
	g.emit(EvGameReset, nil)
	g.logf("game reset")
	return protocol.Accepted()
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
