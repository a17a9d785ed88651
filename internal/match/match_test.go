package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmhunt/backend/internal/catalog"
	"github.com/farmhunt/backend/internal/engine"
)

// helper: receive one delivery with a timeout so tests never hang
func recvDelivery(t *testing.T, ch <-chan Delivery, within time.Duration) Delivery {
	t.Helper()
	select {
	case d, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return d
	case <-time.After(within):
		t.Fatalf("timed out waiting for delivery")
		return Delivery{} // unreachable
	}
}

func recvNoDelivery(t *testing.T, ch <-chan Delivery, within time.Duration) {
	t.Helper()
	select {
	case d, ok := <-ch:
		if !ok {
			// channel closed → that's fine; no further deliveries possible
			return
		}
		t.Fatalf("expected no delivery within %v, but got: %+v", within, d)
	case <-time.After(within):
		// good: nothing arrived
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

// newPlayingMatchState builds a mid-game state with one farmer and two
// animals before handing ownership to the actor.
func newPlayingMatchState() *engine.State {
	s := engine.NewState(catalog.Default(), engine.DefaultRules(), 1)
	for _, v := range engine.FarmVents() {
		s.AddVent(v)
	}
	for i, id := range []engine.ClientID{"farmer1", "animal1", "animal2"} {
		s.Players[id] = &engine.Player{
			ClientID:   id,
			Role:       engine.RoleAnimal,
			Alive:      engine.Alive,
			Gold:       100,
			KillCD:     engine.NewCooldown(30),
			SabotageCD: engine.NewCooldown(45),
			Pos:        engine.Vec2{X: float64(i), Y: 0},
		}
	}
	s.Players["farmer1"].Role = engine.RoleFarmer
	s.Phase = engine.PhasePlaying
	return s
}

func startMatch(t *testing.T, state *engine.State, hook CompletionHook) *Match {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewMatch(ctx, state, 0, hook, zap.NewNop())
}

func TestMatch_JoinReceivesSnapshot(t *testing.T) {
	m := startMatch(t, newPlayingMatchState(), nil)

	out := make(chan Delivery, 8)
	m.Inbox() <- Join{ClientID: "animal1", Outbox: out}

	d := recvDelivery(t, out, time.Second)
	if d.Snapshot == nil {
		t.Fatalf("join must answer with a full snapshot")
	}
	if len(d.Snapshot.Players) != 3 || len(d.Snapshot.Cards) == 0 {
		t.Fatalf("snapshot incomplete: %+v", d.Snapshot)
	}
	// Role redaction: the recipient is not told who the farmer is.
	for _, p := range d.Snapshot.Players {
		if p.ClientID == "animal1" {
			if p.Role != engine.RoleAnimal {
				t.Fatalf("own role must be visible")
			}
			continue
		}
		if p.Role != engine.RoleNone {
			t.Fatalf("living stranger's role leaked: %+v", p)
		}
	}
}

func TestMatch_CommitBroadcastsAndVersionIncrements(t *testing.T) {
	m := startMatch(t, newPlayingMatchState(), nil)

	out1 := make(chan Delivery, 8)
	out2 := make(chan Delivery, 8)
	m.Inbox() <- Join{ClientID: "animal1", Outbox: out1}
	m.Inbox() <- Join{ClientID: "animal2", Outbox: out2}
	recvDelivery(t, out1, time.Second) // snapshots
	recvDelivery(t, out2, time.Second)

	m.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdChat, Actor: "animal1", Text: "hello"}}

	d1 := recvDelivery(t, out1, time.Second)
	d2 := recvDelivery(t, out2, time.Second)
	if !engine.ContainsEvent(d1.Events, engine.EvtChat) || !engine.ContainsEvent(d2.Events, engine.EvtChat) {
		t.Fatalf("committed chat must reach every client")
	}
	if d1.Version != 1 || d2.Version != 1 {
		t.Fatalf("want version 1, got %d/%d", d1.Version, d2.Version)
	}

	reply := make(chan View, 1)
	m.Inbox() <- GetState{Reply: reply}
	v := recvView(t, reply, time.Second)
	if v.Version != 1 || v.NumClients != 2 {
		t.Fatalf("view: %+v", v)
	}
}

func TestMatch_VerdictDeliveredOnlyToRequester(t *testing.T) {
	m := startMatch(t, newPlayingMatchState(), nil)

	farmerOut := make(chan Delivery, 8)
	bystanderOut := make(chan Delivery, 8)
	m.Inbox() <- Join{ClientID: "farmer1", Outbox: farmerOut}
	m.Inbox() <- Join{ClientID: "animal2", Outbox: bystanderOut}
	recvDelivery(t, farmerOut, time.Second)
	recvDelivery(t, bystanderOut, time.Second)

	m.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdRequestKill, Actor: "farmer1", Target: "animal1"}}

	d := recvDelivery(t, farmerOut, time.Second)
	ev, ok := engine.FindEvent(d.Events, engine.EvtVerdict)
	require.True(t, ok, "requester must receive a verdict")
	require.True(t, ev.Allowed)

	// The bystander must not observe the intent.
	recvNoDelivery(t, bystanderOut, 100*time.Millisecond)
}

func TestMatch_RejectedCommandIsSilent(t *testing.T) {
	state := newPlayingMatchState()
	state.Players["animal1"].Role = engine.RoleGhost
	m := startMatch(t, state, nil)

	out := make(chan Delivery, 8)
	m.Inbox() <- Join{ClientID: "animal2", Outbox: out}
	recvDelivery(t, out, time.Second)

	// Ghost sabotage: engine rejects, nothing is broadcast.
	m.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdSabotage, Actor: "animal1"}}
	recvNoDelivery(t, out, 100*time.Millisecond)

	reply := make(chan View, 1)
	m.Inbox() <- GetState{Reply: reply}
	if v := recvView(t, reply, time.Second); v.Version != 0 {
		t.Fatalf("rejected command must not bump the version, got %d", v.Version)
	}
}

func TestMatch_SlowClientIsDropped(t *testing.T) {
	m := startMatch(t, newPlayingMatchState(), nil)

	slow := make(chan Delivery) // unbuffered and never read
	fast := make(chan Delivery, 64)
	m.Inbox() <- Join{ClientID: "animal1", Outbox: slow}
	m.Inbox() <- Join{ClientID: "animal2", Outbox: fast}
	recvDelivery(t, fast, time.Second)

	// The slow outbox can never take a delivery; the actor drops the
	// client instead of blocking and carries on serving everyone else.
	m.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdChat, Actor: "animal2", Text: "still here"}}
	d := recvDelivery(t, fast, time.Second)
	require.True(t, engine.ContainsEvent(d.Events, engine.EvtChat))

	reply := make(chan View, 1)
	m.Inbox() <- GetState{Reply: reply}
	v := recvView(t, reply, time.Second)
	require.Equal(t, 1, v.NumClients, "slow client should be gone")
}

func TestMatch_CompletionHookReceivesSummary(t *testing.T) {
	state := newPlayingMatchState()
	// Trim to 1 farmer vs 1 animal so a single kill completes the game.
	state.Players["animal2"].Alive = engine.Dead
	state.Players["animal2"].Role = engine.RoleGhost

	done := make(chan Summary, 1)
	m := startMatch(t, state, func(s Summary) { done <- s })

	m.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdCommitKill, Actor: "farmer1", Target: "animal1"}}

	select {
	case sum := <-done:
		require.Equal(t, "farmers", sum.Winner)
		require.Equal(t, 3, sum.Players)
	case <-time.After(time.Second):
		t.Fatalf("completion hook never fired")
	}
}
