package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/farmhunt/backend/internal/engine"
	"github.com/farmhunt/backend/internal/match"
)

type HubMsg interface{ isHubMsg() }

type CreateMatch struct {
	Code  string
	Reply chan *match.Match
}

type GetMatch struct {
	Code  string
	Reply chan *match.Match
}

type EnsureMatch struct {
	Code  string
	Reply chan *match.Match
}

type RemoveMatch struct {
	Code string
}

type ShutdownHub struct{}

func (CreateMatch) isHubMsg() {}
func (GetMatch) isHubMsg()    {}
func (EnsureMatch) isHubMsg() {}
func (RemoveMatch) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// Hub is the match registry actor. It owns the code -> match table; match
// construction details (catalog, rules, vent layout, rng seed) are hidden
// behind the injected state factory so the hub stays testable.
type Hub struct {
	inbox    chan HubMsg
	matches  map[string]*match.Match
	newState func() *engine.State
	tick     time.Duration
	onDone   func(code string, sum match.Summary)
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewHub wires the registry. onDone may be nil; when set it receives the
// summary of every completed match (the archive sink hangs off it).
func NewHub(parent context.Context, newState func() *engine.State, tick time.Duration, onDone func(code string, sum match.Summary), log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		matches:  make(map[string]*match.Match),
		newState: newState,
		tick:     tick,
		onDone:   onDone,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateMatch:
				if mt := h.matches[msg.Code]; mt != nil {
					msg.Reply <- mt
					break
				}
				msg.Reply <- h.spawn(msg.Code)

			case GetMatch:
				msg.Reply <- h.matches[msg.Code] // May be nil

			case EnsureMatch:
				if mt := h.matches[msg.Code]; mt != nil {
					msg.Reply <- mt
					break
				}
				msg.Reply <- h.spawn(msg.Code)

			case RemoveMatch:
				if mt := h.matches[msg.Code]; mt != nil {
					mt.Inbox() <- match.Shutdown{}
				}
				delete(h.matches, msg.Code)

			case ShutdownHub:
				for _, mt := range h.matches {
					mt.Inbox() <- match.Shutdown{}
				}
				clear(h.matches)
				h.cancel()
			}
		}
	}
}

func (h *Hub) spawn(code string) *match.Match {
	var hook match.CompletionHook
	if h.onDone != nil {
		hook = func(sum match.Summary) { h.onDone(code, sum) }
	}
	mt := match.NewMatch(h.ctx, h.newState(), h.tick, hook, h.log.With(zap.String("match", code)))
	h.matches[code] = mt
	h.log.Info("match created", zap.String("match", code))
	return mt
}
