package ws

import (
	"testing"

	"github.com/farmhunt/backend/internal/engine"
	"github.com/farmhunt/backend/internal/types"
)

func TestToCommand_StampsConnectionIdentity(t *testing.T) {
	// The payload claims to be someone else; the command must still act as
	// the connection.
	cmd, ok := toCommand(types.ClientMessage{
		Type:     "RequestPurchase",
		ClientID: "victim",
		CardItem: 7,
	}, "attacker")
	if !ok {
		t.Fatalf("expected a command")
	}
	if cmd.Actor != "attacker" {
		t.Fatalf("actor must be the connection identity, got %q", cmd.Actor)
	}
	if cmd.Claimed != "victim" {
		t.Fatalf("claimed id must be preserved for the engine to judge, got %q", cmd.Claimed)
	}
	if cmd.Type != engine.CmdRequestPurchase || cmd.CardItem != 7 {
		t.Fatalf("mapping wrong: %+v", cmd)
	}
}

func TestToCommand_Mapping(t *testing.T) {
	cases := []struct {
		wire string
		want engine.CommandType
	}{
		{"StartGame", engine.CmdStartGame},
		{"Move", engine.CmdMove},
		{"Chat", engine.CmdChat},
		{"RequestKill", engine.CmdRequestKill},
		{"CommitKill", engine.CmdCommitKill},
		{"RequestInteract", engine.CmdRequestInteract},
		{"CommitInteract", engine.CmdCommitInteract},
		{"ReportCorpse", engine.CmdReportCorpse},
		{"Sabotage", engine.CmdSabotage},
		{"VentMove", engine.CmdVentMove},
		{"VentExit", engine.CmdVentExit},
		{"RequestDisplayCards", engine.CmdRequestDisplayCards},
		{"RequestPurchase", engine.CmdRequestPurchase},
		{"UpdateCardState", engine.CmdUpdateCardState},
		{"CastVote", engine.CmdCastVote},
		{"CloseTrial", engine.CmdCloseTrial},
	}
	for _, tc := range cases {
		cmd, ok := toCommand(types.ClientMessage{Type: tc.wire}, "c1")
		if !ok || cmd.Type != tc.want {
			t.Fatalf("%s: got %v ok=%v", tc.wire, cmd.Type, ok)
		}
	}
}

func TestToCommand_InternalTypesRejected(t *testing.T) {
	for _, wire := range []string{"Tick", "Join", "Leave", "bogus", ""} {
		if _, ok := toCommand(types.ClientMessage{Type: wire}, "c1"); ok {
			t.Fatalf("%q must not map to a command", wire)
		}
	}
}
