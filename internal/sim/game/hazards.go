package game

import (
	"fmt"

	"digdeep.game/internal/protocol"
)

func (g *Game) hasActiveHazard() bool {
	for i := range g.state.Hazards {
		if g.state.Hazards[i].State == HazardActive {
			return true
		}
	}
	return false
}

func (g *Game) hazardIndex(hazardType string) int {
	for i := range g.state.Hazards {
		if g.state.Hazards[i].Type == hazardType {
			return i
		}
	}
	return -1
}

// TriggerHazard forces a hazard into the warning state. At most one instance
// per type may be live; a second trigger while one is pending or active is a
// conflict.
func (g *Game) TriggerHazard(hazardType string) protocol.Result {
	def, ok := g.cat.Hazards.ByID[hazardType]
	if !ok {
		return protocol.Rejected(protocol.ErrInvalidTarget, fmt.Sprintf("unknown hazard %q", hazardType))
	}
	if g.hazardIndex(hazardType) >= 0 {
		return protocol.Rejected(protocol.ErrConflict, fmt.Sprintf("hazard %s already in progress", hazardType))
	}
	g.state.Hazards = append(g.state.Hazards, HazardInstance{
		Type:      hazardType,
		State:     HazardWarning,
		Remaining: def.WarningSeconds,
	})
	g.emit(EvHazardWarning, map[string]any{"type": hazardType, "warning_s": def.WarningSeconds})
	g.logf("hazard %s warning (%.0fs)", hazardType, def.WarningSeconds)
	return protocol.Accepted()
}

// PreventHazard spends the hazard's prevention cost to dismiss it while it is
// still in the warning window. Active hazards can no longer be prevented.
func (g *Game) PreventHazard(hazardType string) protocol.Result {
	def, ok := g.cat.Hazards.ByID[hazardType]
	if !ok {
		return protocol.Rejected(protocol.ErrInvalidTarget, fmt.Sprintf("unknown hazard %q", hazardType))
	}
	idx := g.hazardIndex(hazardType)
	if idx < 0 {
		return protocol.Rejected(protocol.ErrNotFound, fmt.Sprintf("no pending %s", hazardType))
	}
	if g.state.Hazards[idx].State != HazardWarning {
		return protocol.Rejected(protocol.ErrConflict, fmt.Sprintf("%s is already active", hazardType))
	}
	if !g.spend(def.PreventCost) {
		return protocol.Rejected(protocol.ErrNoResource, fmt.Sprintf("cannot afford to prevent %s", hazardType))
	}
	g.state.Hazards = append(g.state.Hazards[:idx], g.state.Hazards[idx+1:]...)
	g.state.SpecialStats["preventedHazards"]++
	g.emit(EvHazardResolved, map[string]any{"type": hazardType, "prevented": true})
	g.logf("hazard %s prevented", hazardType)
	g.checkAchievements()
	return protocol.Accepted()
}

// advanceHazards counts down warning and active windows. A warning that runs
// out activates exactly once; an active window that runs out resolves and
// reverts its multiplier penalties.
func (g *Game) advanceHazards(dt float64) {
	kept := g.state.Hazards[:0]
	for _, h := range g.state.Hazards {
		h.Remaining -= dt
		switch h.State {
		case HazardWarning:
			if h.Remaining <= 0 {
				g.activateHazard(&h)
			}
			kept = append(kept, h)
		case HazardActive:
			if h.Remaining <= 0 {
				g.resolveHazard(h.Type)
				continue
			}
			kept = append(kept, h)
		}
	}
	g.state.Hazards = kept
}

func (g *Game) activateHazard(h *HazardInstance) {
	def := g.cat.Hazards.ByID[h.Type]
	h.State = HazardActive
	h.Remaining = def.ActiveSeconds * g.Multiplier(MultHazardDuration)

	reduction := g.derived.hazardReduction
	for kind, frac := range def.ResourceLoss {
		loss := g.state.Resources[kind] * frac * (1 - reduction)
		if loss > 0 {
			g.AddResource(kind, -loss)
		}
	}
	for kind, factor := range def.MultiplierPenalty {
		f := factor + (1-factor)*reduction
		g.AddTemporaryMultiplier(TempMultiplier{
			Kind:      kind,
			Factor:    f,
			Permanent: true,
			Source:    h.Type,
		})
	}
	g.state.SpecialStats["survivedHazards"]++
	g.emit(EvHazardActivated, map[string]any{"type": h.Type, "duration_s": h.Remaining})
	g.logf("hazard %s active (%.1fs)", h.Type, h.Remaining)
	g.checkAchievements()
}

func (g *Game) resolveHazard(hazardType string) {
	g.removeTempMultipliersBySource(hazardType)
	g.emit(EvHazardResolved, map[string]any{"type": hazardType, "prevented": false})
	g.logf("hazard %s resolved", hazardType)
}

// rollHazardSpawns gives each eligible hazard an independent per-tick spawn
// roll. Eligibility starts at the hazard's min depth; the chance grows with
// depth beyond it and scales with the hazardChance multiplier, which negative
// achievement rewards can pull below 1.
func (g *Game) rollHazardSpawns(dt float64) {
	depth := g.state.Depth
	mult := g.Multiplier(MultHazardChance)
	if mult < 0 {
		mult = 0
	}
	for _, id := range g.cat.Hazards.IDs {
		def := g.cat.Hazards.ByID[id]
		if depth < def.MinDepth {
			continue
		}
		if g.hazardIndex(id) >= 0 {
			continue
		}
		chance := (def.BaseChance + (depth-def.MinDepth)*def.ChanceIncrease) * mult * dt
		if chance <= 0 {
			continue
		}
		if g.rng.Float64() < chance {
			g.TriggerHazard(id)
		}
	}
}
