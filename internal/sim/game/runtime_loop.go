package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"digdeep.game/internal/protocol"
)

// JoinRequest asks the run loop to attach a session. Out receives every
// outbound frame for the session; Resp carries the WELCOME back to the
// transport.
type JoinRequest struct {
	ClientName string
	Out        chan []byte
	Resp       chan JoinResponse
}

type JoinResponse struct {
	SessionID string
	Welcome   protocol.WelcomeMsg
}

type client struct {
	out chan []byte
}

func (g *Game) Join() chan<- JoinRequest  { return g.joins }
func (g *Game) Leave() chan<- string      { return g.leaves }
func (g *Game) Inbox() chan<- CmdEnvelope { return g.inbox }

// Run drives the simulation at the configured tick rate until the context is
// canceled or Stop is called. Requests arriving between ticks accumulate and
// apply at the next tick boundary, in arrival order.
func (g *Game) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(g.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()

	var pendingCmds []CmdEnvelope
	var pendingJoins []JoinRequest
	var pendingLeaves []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-g.stop:
			return nil
		case req := <-g.joins:
			pendingJoins = append(pendingJoins, req)
		case id := <-g.leaves:
			pendingLeaves = append(pendingLeaves, id)
		case env := <-g.inbox:
			pendingCmds = append(pendingCmds, env)
		case <-ticker.C:
			g.tickOnce(dt, pendingJoins, pendingLeaves, pendingCmds)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingCmds = pendingCmds[:0]
		}
	}
}

func (g *Game) Stop() { close(g.stop) }

func (g *Game) tickOnce(dt float64, joins []JoinRequest, leaves []string, cmds []CmdEnvelope) {
	g.tick++

	for _, req := range joins {
		g.handleJoin(req)
	}
	for _, id := range leaves {
		delete(g.clients, id)
	}

	for _, env := range cmds {
		ack := g.applyCommand(env.Cmd)
		g.sendTo(env.SessionID, ack)
	}

	g.Step(dt)

	if evs := g.DrainEvents(); len(evs) > 0 {
		g.broadcast(protocol.EventMsg{
			Type:            protocol.TypeEvent,
			ProtocolVersion: protocol.Version,
			ServerTick:      g.tick,
			Events:          evs,
		})
	}

	if g.cfg.StateEveryTicks > 0 && g.tick%uint64(g.cfg.StateEveryTicks) == 0 && len(g.clients) > 0 {
		state, err := g.StateJSON()
		if err != nil {
			g.logf("state marshal: %v", err)
			return
		}
		g.broadcast(protocol.StateMsg{
			Type:            protocol.TypeState,
			ProtocolVersion: protocol.Version,
			ServerTick:      g.tick,
			State:           state,
		})
	}
}

func (g *Game) handleJoin(req JoinRequest) {
	id := fmt.Sprintf("S%06d", len(g.clients)+1)
	for g.clients[id] != nil {
		id += "x"
	}
	if req.Out != nil {
		g.clients[id] = &client{out: req.Out}
	}

	state, err := g.StateJSON()
	if err != nil {
		g.logf("welcome state marshal: %v", err)
	}
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       id,
		Params: protocol.GameParams{
			TickRateHz:      g.cfg.TickRateHz,
			ClickCooldownMs: int(g.cfg.ClickCooldown / time.Millisecond),
			DepthPerDig:     g.cfg.DepthPerDig,
			Seed:            g.cfg.Seed,
		},
		Catalogs: protocol.CatalogDigests{
			Upgrades:     g.cat.Upgrades.Digest,
			Hazards:      g.cat.Hazards.Digest,
			Achievements: g.cat.Achievements.Digest,
			Layers:       g.cat.Layers.Digest,
			Discoveries:  g.cat.Discoveries.Digest,
		},
		State: state,
	}
	if req.Resp != nil {
		req.Resp <- JoinResponse{SessionID: id, Welcome: welcome}
	}
}

func (g *Game) sendTo(sessionID string, msg any) {
	c := g.clients[sessionID]
	if c == nil {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		g.logf("marshal %T: %v", msg, err)
		return
	}
	sendLatest(c.out, b)
}

func (g *Game) broadcast(msg any) {
	if len(g.clients) == 0 {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		g.logf("marshal %T: %v", msg, err)
		return
	}
	for _, c := range g.clients {
		sendLatest(c.out, b)
	}
}

// sendLatest enqueues without blocking; when the client buffer is full it
// drops the oldest frame to make room for the newest.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
