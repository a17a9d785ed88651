package engine

import "testing"

func enterVentFor(t *testing.T, s *State, c ClientID, node string) {
	t.Helper()
	if _, err := s.Apply(Command{Type: CmdCommitInteract, Actor: c, Tag: TagVent, ObjectID: node}); err != nil {
		t.Fatalf("%s entering %s: %v", c, node, err)
	}
}

func TestVent_ExclusiveOccupancy(t *testing.T) {
	s := newPlayingState()
	s.Players["animal1"].Role = RoleFarmer // venting needs the farmer kit

	enterVentFor(t, s, "farmer1", "barn")

	// Verdict for the second farmer is denied while occupied.
	events, _ := s.Apply(Command{Type: CmdRequestInteract, Actor: "animal1", Tag: TagVent, ObjectID: "barn"})
	if v, _ := FindEvent(events, EvtVerdict); v.Allowed {
		t.Fatalf("occupied vent must deny entry")
	}
	if _, err := s.Apply(Command{Type: CmdCommitInteract, Actor: "animal1", Tag: TagVent, ObjectID: "barn"}); err == nil {
		t.Fatalf("commit into an occupied vent must be rejected")
	}
	if s.Vents["barn"].Occupant != "farmer1" {
		t.Fatalf("occupant must be unchanged")
	}
}

func TestVent_AnimalsCannotVent(t *testing.T) {
	s := newPlayingState()
	events, _ := s.Apply(Command{Type: CmdRequestInteract, Actor: "animal1", Tag: TagVent, ObjectID: "barn"})
	if v, _ := FindEvent(events, EvtVerdict); v.Allowed {
		t.Fatalf("animals must not vent")
	}
}

func TestVent_MoveTransfersOccupancyAtomically(t *testing.T) {
	s := newPlayingState()
	enterVentFor(t, s, "farmer1", "barn")

	events, err := s.Apply(Command{Type: CmdVentMove, Actor: "farmer1", ObjectID: "coop"})
	if err != nil || !ContainsEvent(events, EvtVentMoved) {
		t.Fatalf("move along link failed: %v %v", events, err)
	}
	if s.Vents["barn"].Occupant != NoClient || s.Vents["coop"].Occupant != "farmer1" {
		t.Fatalf("occupancy must transfer source -> target")
	}
	if s.Players["farmer1"].VentNode != "coop" {
		t.Fatalf("player node must follow the transfer")
	}

	// "well" is not linked from "coop".
	if _, err := s.Apply(Command{Type: CmdVentMove, Actor: "farmer1", ObjectID: "well"}); err == nil {
		t.Fatalf("moving along a missing link must be rejected")
	}
	if s.Players["farmer1"].VentNode != "coop" {
		t.Fatalf("failed move must not change occupancy")
	}
}

func TestVent_MoveIntoOccupiedNodeRejected(t *testing.T) {
	s := newPlayingState()
	s.Players["animal1"].Role = RoleFarmer
	enterVentFor(t, s, "farmer1", "barn")
	enterVentFor(t, s, "animal1", "coop")

	if _, err := s.Apply(Command{Type: CmdVentMove, Actor: "farmer1", ObjectID: "coop"}); err == nil {
		t.Fatalf("transfer into an occupied node must be rejected")
	}
	if s.Vents["barn"].Occupant != "farmer1" || s.Vents["coop"].Occupant != "animal1" {
		t.Fatalf("occupancy must be unchanged after rejected transfer")
	}
}

func TestVent_ExitRestoresAndStartsReentryCooldown(t *testing.T) {
	s := newPlayingState()
	enterVentFor(t, s, "farmer1", "barn")

	// Movement is suppressed while inside.
	if _, err := s.Apply(Command{Type: CmdMove, Actor: "farmer1", Pos: Vec2{X: 9, Y: 9}}); err == nil {
		t.Fatalf("a venting player must not move in the open world")
	}

	events, err := s.Apply(Command{Type: CmdVentExit, Actor: "farmer1"})
	if err != nil || !ContainsEvent(events, EvtVentExited) {
		t.Fatalf("exit failed: %v %v", events, err)
	}
	if got := s.Players["farmer1"].Pos; got != s.Vents["barn"].Exit {
		t.Fatalf("exit must place the player at the node's exit offset, got %+v", got)
	}
	if s.Vents["barn"].Occupant != NoClient {
		t.Fatalf("exit must clear occupancy")
	}

	// Immediate re-entry is blocked for the same player...
	if s.Vents["barn"].CanEnter("farmer1") {
		t.Fatalf("reentry must be on cooldown")
	}
	// ...but not for anyone else.
	if !s.Vents["barn"].CanEnter("animal1") {
		t.Fatalf("cooldown is per player")
	}

	for i := 0; i < s.Rules.VentReentryTicks; i++ {
		if _, err := s.Apply(Command{Type: CmdTick}); err != nil {
			t.Fatalf("tick failed: %v", err)
		}
	}
	if !s.Vents["barn"].CanEnter("farmer1") {
		t.Fatalf("cooldown should have elapsed")
	}
}

func TestVent_SinglePlayerNeverInTwoNodes(t *testing.T) {
	s := newPlayingState()
	enterVentFor(t, s, "farmer1", "barn")

	// Entering a second node while inside is rejected outright.
	if _, err := s.Apply(Command{Type: CmdCommitInteract, Actor: "farmer1", Tag: TagVent, ObjectID: "silo"}); err == nil {
		t.Fatalf("double entry must be rejected")
	}
	occupied := 0
	for _, n := range s.Vents {
		if n.Occupant == "farmer1" {
			occupied++
		}
	}
	if occupied != 1 {
		t.Fatalf("player occupies %d nodes, want 1", occupied)
	}
}
