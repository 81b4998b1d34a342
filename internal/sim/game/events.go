package game

import "digdeep.game/internal/protocol"

// Notification names emitted by the simulation.
const (
	EvResourceChanged     = "resourceChanged"
	EvDepthChanged        = "depthChanged"
	EvLayerChanged        = "layerChanged"
	EvUpgradeChanged      = "upgradeChanged"
	EvMultiplierChanged   = "multiplierChanged"
	EvAutoDigRateChanged  = "autoDigRateChanged"
	EvHazardWarning       = "hazardWarning"
	EvHazardActivated     = "hazardActivated"
	EvHazardResolved      = "hazardResolved"
	EvAchievementUnlocked = "achievementUnlocked"
	EvDiscoveryFound      = "discoveryFound"
	EvFeatureUnlocked     = "featureUnlocked"
	EvGameSaved           = "gameSaved"
	EvGameLoaded          = "gameLoaded"
	EvGameReset           = "gameReset"
)

// Notify registers a listener invoked synchronously on every emitted event.
// The simulation never depends on a notification being observed; listeners
// must not call back into the Game.
func (g *Game) Notify(fn func(protocol.Event)) {
	g.listeners = append(g.listeners, fn)
}

func (g *Game) emit(name string, data map[string]any) {
	ev := protocol.Event{Name: name, Data: data}
	for _, fn := range g.listeners {
		fn(ev)
	}
	g.outbox = append(g.outbox, ev)
}

// DrainEvents returns events emitted since the last drain. The run loop
// flushes these to connected clients after each tick.
func (g *Game) DrainEvents() []protocol.Event {
	if len(g.outbox) == 0 {
		return nil
	}
	out := g.outbox
	g.outbox = nil
	return out
}
