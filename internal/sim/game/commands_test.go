package game

import (
	"encoding/json"
	"testing"

	"digdeep.game/internal/protocol"
)

func cmd(op string, args string) protocol.CmdMsg {
	c := protocol.CmdMsg{
		Type:            protocol.TypeCmd,
		ProtocolVersion: protocol.Version,
		CmdID:           "c1",
		Op:              op,
	}
	if args != "" {
		c.Args = json.RawMessage(args)
	}
	return c
}

func TestApplyCommandDig(t *testing.T) {
	g := newTestGame(t)
	ack := g.applyCommand(cmd(protocol.OpDig, ""))
	if !ack.Accepted || ack.AckFor != "c1" {
		t.Fatalf("dig ack: %+v", ack)
	}
	if g.Stats().Clicks != 1 {
		t.Fatalf("clicks = %d, want 1", g.Stats().Clicks)
	}
}

func TestApplyCommandBuy(t *testing.T) {
	g := newTestGame(t)
	g.AddResource(ResDirt, 10)
	ack := g.applyCommand(cmd(protocol.OpBuy, `{"id":"shovel"}`))
	if !ack.Accepted {
		t.Fatalf("buy ack: %+v", ack)
	}
	if g.UpgradeLevel("shovel") != 1 {
		t.Fatalf("shovel level = %d", g.UpgradeLevel("shovel"))
	}
	ack = g.applyCommand(cmd(protocol.OpBuy, `{}`))
	if ack.Accepted || ack.Code != protocol.ErrBadRequest {
		t.Fatalf("buy without id: %+v", ack)
	}
}

func TestApplyCommandUnknownOp(t *testing.T) {
	g := newTestGame(t)
	ack := g.applyCommand(cmd("teleport", ""))
	if ack.Accepted || ack.Code != protocol.ErrBadRequest {
		t.Fatalf("unknown op ack: %+v", ack)
	}
	if !protocol.IsKnownCode(ack.Code) {
		t.Fatalf("ack code %q not in the known set", ack.Code)
	}
}

func TestApplyCommandExportImport(t *testing.T) {
	g := newTestGame(t)
	g.AddResource(ResGems, 9)
	ack := g.applyCommand(cmd(protocol.OpExport, ""))
	if !ack.Accepted || len(ack.Data) == 0 {
		t.Fatalf("export ack: %+v", ack)
	}

	g2 := newTestGame(t)
	args, _ := json.Marshal(map[string]json.RawMessage{"save": ack.Data})
	ack = g2.applyCommand(cmd(protocol.OpImport, string(args)))
	if !ack.Accepted {
		t.Fatalf("import ack: %+v", ack)
	}
	if g2.Resource(ResGems) != 9 {
		t.Fatalf("gems after import = %v", g2.Resource(ResGems))
	}
}

func TestApplyCommandAdmin(t *testing.T) {
	g := newTestGame(t)

	ack := g.applyCommand(cmd(protocol.OpAdminSetDepth, `{"depth":120}`))
	if !ack.Accepted || g.Depth() != 120 {
		t.Fatalf("admin_set_depth: %+v depth=%v", ack, g.Depth())
	}

	ack = g.applyCommand(cmd(protocol.OpAdminGrant, `{"resource":"gems","amount":50}`))
	if !ack.Accepted || g.Resource(ResGems) < 50 {
		t.Fatalf("admin_grant: %+v gems=%v", ack, g.Resource(ResGems))
	}

	ack = g.applyCommand(cmd(protocol.OpAdminUnlock, `{"id":"secretAchievement"}`))
	if !ack.Accepted || !g.IsAchievementUnlocked("secretAchievement") {
		t.Fatalf("admin_unlock: %+v", ack)
	}

	ack = g.applyCommand(cmd(protocol.OpAdminGrant, `{"resource":"mana","amount":1}`))
	if ack.Accepted || ack.Code != protocol.ErrInvalidTarget {
		t.Fatalf("grant unknown resource: %+v", ack)
	}
}
