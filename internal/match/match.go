package match

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/farmhunt/backend/internal/engine"
)

type Msg interface{ isMatchMsg() }

// FromClient wraps one client command for the actor. The ws layer stamps
// Cmd.Actor from the connection identity before sending.
type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isMatchMsg() {}

type Join struct {
	ClientID engine.ClientID
	Outbox   chan Delivery // where this client wants to receive deltas
}

func (Join) isMatchMsg() {}

type Leave struct{ ClientID engine.ClientID }

func (Leave) isMatchMsg() {}

type Shutdown struct{}

func (Shutdown) isMatchMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isMatchMsg() {}

// Delivery is one ordered unit on a client outbox: either the initial full
// snapshot or a batch of committed deltas.
type Delivery struct {
	Version  int
	Snapshot *Snapshot
	Events   []engine.Event
}

// View is the test-only reflection of actor internals, answered
// synchronously so tests never race the loop.
type View struct {
	Version    int
	NumClients int
	Snapshot   Snapshot
}

// Summary describes a finished match for the archive sink.
type Summary struct {
	Winner    string
	Ticks     int64
	Players   int
	CardsSold int
	GoldSpent int
}

// CompletionHook receives the summary once, after the completion event has
// been committed. It runs on its own goroutine so a slow sink cannot stall
// the actor.
type CompletionHook func(Summary)

// Match owns the authoritative state of one running game. All mutation goes
// through the inbox; processing commands one at a time is the mutual
// exclusion mechanism, so nothing in here takes a lock.
type Match struct {
	inbox   chan Msg
	state   *engine.State
	version int
	clients map[engine.ClientID]chan Delivery
	tick    time.Duration
	hook    CompletionHook
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMatch starts the actor goroutine. tick <= 0 disables the internal
// ticker; tests drive CmdTick by hand instead. hook may be nil.
func NewMatch(parent context.Context, state *engine.State, tick time.Duration, hook CompletionHook, log *zap.Logger) *Match {
	ctx, cancel := context.WithCancel(parent)
	m := &Match{
		inbox:   make(chan Msg, 64),
		state:   state,
		clients: make(map[engine.ClientID]chan Delivery),
		tick:    tick,
		hook:    hook,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go m.loop()
	return m
}

func (m *Match) Inbox() chan<- Msg { return m.inbox }

func (m *Match) loop() {
	var tickC <-chan time.Time
	if m.tick > 0 {
		t := time.NewTicker(m.tick)
		defer t.Stop()
		tickC = t.C
	}

	for {
		select {
		case <-m.ctx.Done():
			m.shutdown()
			return

		case <-tickC:
			m.apply(engine.Command{Type: engine.CmdTick})

		case msg := <-m.inbox:
			switch msg := msg.(type) {
			case Join:
				m.clients[msg.ClientID] = msg.Outbox
				snap := snapshotFor(m.state, msg.ClientID)
				m.send(msg.ClientID, msg.Outbox, Delivery{Version: m.version, Snapshot: &snap})

			case Leave:
				delete(m.clients, msg.ClientID)

			case FromClient:
				m.apply(msg.Cmd)

			case GetState:
				msg.Reply <- View{
					Version:    m.version,
					NumClients: len(m.clients),
					Snapshot:   snapshotAll(m.state),
				}

			case Shutdown:
				m.shutdown()
				return
			}
		}
	}
}

// apply runs one command through the engine and routes the resulting
// deltas. Rejections are terminal and silent: logged here, never retried,
// never surfaced beyond whatever failure event the engine itself emitted.
func (m *Match) apply(cmd engine.Command) {
	events, err := m.state.Apply(cmd)
	if err != nil {
		m.logRejection(cmd, err)
	}
	if len(events) == 0 {
		return
	}
	m.version++
	m.route(events)

	if m.hook != nil && engine.ContainsEvent(events, engine.EvtGameCompleted) {
		sum := m.summarize()
		go m.hook(sum)
	}
}

func (m *Match) summarize() Summary {
	sum := Summary{
		Winner:  m.state.Winner,
		Ticks:   m.state.Tick,
		Players: len(m.state.Players),
	}
	for _, ci := range m.state.Ledger {
		if ci.State == engine.CardSold {
			sum.CardsSold++
			sum.GoldSpent += ci.Price
		}
	}
	return sum
}

func (m *Match) logRejection(cmd engine.Command, err error) {
	switch {
	case errors.Is(err, engine.ErrUnauthorized):
		m.log.Warn("rejected command", zap.String("cmd", string(cmd.Type)), zap.String("actor", string(cmd.Actor)), zap.Error(err))
	default:
		m.log.Debug("rejected command", zap.String("cmd", string(cmd.Type)), zap.String("actor", string(cmd.Actor)), zap.Error(err))
	}
}

// route fans events out in commit order. Events addressed with To go only
// to that client's outbox; everything else goes to every connected client.
func (m *Match) route(events []engine.Event) {
	for _, ev := range events {
		if ev.To != engine.NoClient {
			if ch, ok := m.clients[ev.To]; ok {
				m.send(ev.To, ch, Delivery{Version: m.version, Events: []engine.Event{ev}})
			}
			continue
		}
		for id, ch := range m.clients {
			m.send(id, ch, Delivery{Version: m.version, Events: []engine.Event{ev}})
		}
	}
}

func (m *Match) send(id engine.ClientID, ch chan Delivery, d Delivery) {
	select {
	case ch <- d:
	default:
		// Client is slow/full - drop them. The ws layer notices the closed
		// channel and tears the connection down.
		close(ch)
		delete(m.clients, id)
		m.log.Info("dropped slow client", zap.String("client", string(id)))
	}
}

func (m *Match) shutdown() {
	for id, ch := range m.clients {
		close(ch)
		delete(m.clients, id)
	}
	m.cancel()
}
