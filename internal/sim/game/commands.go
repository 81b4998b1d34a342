package game

import (
	"encoding/json"
	"fmt"

	"digdeep.game/internal/protocol"
)

// CmdEnvelope is a client command queued for the run loop, tagged with the
// session that sent it so the ack can be routed back.
type CmdEnvelope struct {
	SessionID string
	Cmd       protocol.CmdMsg
}

type buyArgs struct {
	ID string `json:"id"`
}

type hazardArgs struct {
	Type string `json:"type"`
}

type importArgs struct {
	Save json.RawMessage `json:"save"`
}

type setDepthArgs struct {
	Depth float64 `json:"depth"`
}

type grantArgs struct {
	Resource string  `json:"resource"`
	Amount   float64 `json:"amount"`
}

type unlockArgs struct {
	ID string `json:"id"`
}

// applyCommand executes one client command against the simulation and
// returns the ack. Unknown operations and malformed args reject rather than
// disconnect; the session stays usable.
func (g *Game) applyCommand(cmd protocol.CmdMsg) protocol.AckMsg {
	var res protocol.Result
	var data json.RawMessage

	switch cmd.Op {
	case protocol.OpDig:
		res = g.Dig()

	case protocol.OpBuy:
		var a buyArgs
		if err := json.Unmarshal(cmd.Args, &a); err != nil || a.ID == "" {
			res = protocol.Rejected(protocol.ErrBadRequest, "buy requires an upgrade id")
			break
		}
		res = g.PurchaseUpgrade(a.ID)

	case protocol.OpPreventHazard:
		var a hazardArgs
		if err := json.Unmarshal(cmd.Args, &a); err != nil || a.Type == "" {
			res = protocol.Rejected(protocol.ErrBadRequest, "prevent_hazard requires a hazard type")
			break
		}
		res = g.PreventHazard(a.Type)

	case protocol.OpTriggerHazard:
		var a hazardArgs
		if err := json.Unmarshal(cmd.Args, &a); err != nil || a.Type == "" {
			res = protocol.Rejected(protocol.ErrBadRequest, "trigger_hazard requires a hazard type")
			break
		}
		res = g.TriggerHazard(a.Type)

	case protocol.OpSave:
		res = g.Save()

	case protocol.OpLoad:
		res = g.loadLatest()

	case protocol.OpExport:
		b, err := g.ExportSave()
		if err != nil {
			res = protocol.Rejected(protocol.ErrInternal, err.Error())
			break
		}
		res = protocol.Accepted()
		data = b

	case protocol.OpImport:
		var a importArgs
		if err := json.Unmarshal(cmd.Args, &a); err != nil || len(a.Save) == 0 {
			res = protocol.Rejected(protocol.ErrBadRequest, "import requires a save document")
			break
		}
		res = g.ImportSave(a.Save)

	case protocol.OpReset:
		res = g.Reset()

	case protocol.OpAdminSetDepth:
		var a setDepthArgs
		if err := json.Unmarshal(cmd.Args, &a); err != nil || a.Depth < 0 {
			res = protocol.Rejected(protocol.ErrBadRequest, "admin_set_depth requires a non-negative depth")
			break
		}
		g.SetDepth(a.Depth)
		res = protocol.Accepted()

	case protocol.OpAdminGrant:
		var a grantArgs
		if err := json.Unmarshal(cmd.Args, &a); err != nil || a.Resource == "" {
			res = protocol.Rejected(protocol.ErrBadRequest, "admin_grant requires a resource")
			break
		}
		if _, ok := g.state.Resources[a.Resource]; !ok {
			res = protocol.Rejected(protocol.ErrInvalidTarget, fmt.Sprintf("unknown resource %q", a.Resource))
			break
		}
		g.AddResource(a.Resource, a.Amount)
		res = protocol.Accepted()

	case protocol.OpAdminUnlock:
		var a unlockArgs
		if err := json.Unmarshal(cmd.Args, &a); err != nil || a.ID == "" {
			res = protocol.Rejected(protocol.ErrBadRequest, "admin_unlock requires an achievement id")
			break
		}
		if _, ok := g.cat.Achievements.ByID[a.ID]; !ok {
			res = protocol.Rejected(protocol.ErrInvalidTarget, fmt.Sprintf("unknown achievement %q", a.ID))
			break
		}
		g.UnlockAchievement(a.ID)
		res = protocol.Accepted()

	default:
		res = protocol.Rejected(protocol.ErrBadRequest, fmt.Sprintf("unknown op %q", cmd.Op))
	}

	return protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          cmd.CmdID,
		Accepted:        res.OK,
		Code:            res.Code,
		Message:         res.Reason,
		ServerTick:      g.tick,
		Data:            data,
	}
}

func (g *Game) loadLatest() protocol.Result {
	if g.loadFn == nil {
		return protocol.Rejected(protocol.ErrNotFound, "no save storage configured")
	}
	doc, err := g.loadFn()
	if err != nil {
		return protocol.Rejected(protocol.ErrNotFound, err.Error())
	}
	g.ApplySaveDoc(doc)
	return protocol.Accepted()
}

// StateJSON renders the full state document sent in WELCOME and periodic
// STATE messages. It is the same shape as an exported save.
func (g *Game) StateJSON() (json.RawMessage, error) {
	return json.Marshal(g.BuildSaveDoc())
}
