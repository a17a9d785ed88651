package engine

import (
	"errors"
	"math/rand"

	"github.com/farmhunt/backend/internal/catalog"
)

// Rejection taxonomy. Every failed command maps onto one of these; the match
// actor logs them and broadcasts nothing (except purchases, which carry a
// user-facing failure event, see market.go).
var ErrUnauthorized = errors.New("sender does not match claimed actor")
var ErrInvalidTarget = errors.New("invalid target")
var ErrResourceExhausted = errors.New("resource exhausted")
var ErrNotReady = errors.New("not ready")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
	PhaseTrial   Phase = "trial"
	PhaseDone    Phase = "done"
)

type InteractTag string

const (
	TagVent               InteractTag = "Vent"
	TagMiniGame           InteractTag = "MiniGame"
	TagConvocationOfTrial InteractTag = "ConvocationOfTrial"
	TagInteractable       InteractTag = "Interactable"
)

// SabotageEffect is the active timed sabotage, if any. Counts down on ticks.
type SabotageEffect struct {
	By        ClientID
	Remaining int
}

type ChatMessage struct {
	From ClientID `json:"from"`
	Text string   `json:"text"`
	Tick int64    `json:"tick"`
}

type Rules struct {
	KillCooldownTicks     int
	SabotageCooldownTicks int
	SabotageDurationTicks int
	VentReentryTicks      int
	InteractRadius        float64
	InventoryCap          int
	DisplayLimit          int
	ChatLogCap            int
	StartingGold          int
}

func DefaultRules() Rules {
	return Rules{
		KillCooldownTicks:     30,
		SabotageCooldownTicks: 45,
		SabotageDurationTicks: 15,
		VentReentryTicks:      3,
		InteractRadius:        2.5,
		InventoryCap:          20,
		DisplayLimit:          5,
		ChatLogCap:            50,
		StartingGold:          100,
	}
}

// State is the single authoritative copy of a match. It is owned by exactly
// one match actor goroutine; Apply is the only mutation entry point.
type State struct {
	Phase    Phase
	Tick     int64
	Players  map[ClientID]*Player
	Corpses  []Corpse
	Vents    map[NodeID]*VentNode
	Ledger   []*CardItemInstance
	Trial    *Trial
	Sabotage *SabotageEffect
	Chat     []ChatMessage
	Winner   string
	Rules    Rules

	Catalog *catalog.Catalog
	rng     *rand.Rand
}

func NewState(cat *catalog.Catalog, rules Rules, seed int64) *State {
	return &State{
		Phase:   PhaseLobby,
		Tick:    1,
		Players: make(map[ClientID]*Player),
		Vents:   make(map[NodeID]*VentNode),
		Ledger:  buildLedger(cat),
		Rules:   rules,
		Catalog: cat,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

type CommandType string

const (
	CmdJoin      CommandType = "Join"
	CmdLeave     CommandType = "Leave"
	CmdStartGame CommandType = "StartGame"
	CmdMove      CommandType = "Move"
	CmdChat      CommandType = "Chat"
	CmdTick      CommandType = "Tick"

	CmdRequestKill     CommandType = "RequestKill"
	CmdCommitKill      CommandType = "CommitKill"
	CmdRequestInteract CommandType = "RequestInteract"
	CmdCommitInteract  CommandType = "CommitInteract"
	CmdReportCorpse    CommandType = "ReportCorpse"
	CmdSabotage        CommandType = "Sabotage"
	CmdVentMove        CommandType = "VentMove"
	CmdVentExit        CommandType = "VentExit"

	CmdRequestDisplayCards CommandType = "RequestDisplayCards"
	CmdRequestPurchase     CommandType = "RequestPurchase"
	CmdUpdateCardState     CommandType = "UpdateCardState"

	CmdCastVote   CommandType = "CastVote"
	CmdCloseTrial CommandType = "CloseTrial"
)

// Command is one client intent (or the internal tick). Actor is stamped by
// the ws layer from the connection identity; Claimed is whatever id the
// client put in its payload, kept separate so spoofing is detectable.
type Command struct {
	Type      CommandType
	Actor     ClientID
	Claimed   ClientID
	Target    ClientID
	Tag       InteractTag
	ObjectID  string
	CardItem  CardItemID
	CardState CardState
	Name      string
	Text      string
	Pos       Vec2
}

type EventType string

const (
	EvtVerdict EventType = "Verdict"

	EvtPlayerJoined EventType = "PlayerJoined"
	EvtPlayerLeft   EventType = "PlayerLeft"
	EvtGameStarted  EventType = "GameStarted"
	EvtRoleAssigned EventType = "RoleAssigned"
	EvtPlayerMoved  EventType = "PlayerMoved"

	EvtPlayerKilled    EventType = "PlayerKilled"
	EvtInteract        EventType = "Interact"
	EvtTrialStarted    EventType = "TrialStarted"
	EvtTrialClosed     EventType = "TrialClosed"
	EvtVoteCast        EventType = "VoteCast"
	EvtSabotageStarted EventType = "SabotageStarted"
	EvtSabotageEnded   EventType = "SabotageEnded"

	EvtVentEntered EventType = "VentEntered"
	EvtVentMoved   EventType = "VentMoved"
	EvtVentExited  EventType = "VentExited"

	EvtCardStateChanged  EventType = "CardStateChanged"
	EvtDisplayRolled     EventType = "DisplayRolled"
	EvtPurchaseCompleted EventType = "PurchaseCompleted"
	EvtPurchaseFailed    EventType = "PurchaseFailed"

	EvtChat          EventType = "Chat"
	EvtGameCompleted EventType = "GameCompleted"
)

// Event is one committed state delta. To selects unicast delivery: the match
// actor sends an event with a non-empty To only to that client's outbox, and
// everything else to every client, in commit order.
type Event struct {
	Type      EventType    `json:"type"`
	To        ClientID     `json:"-"` // routing only, never serialized
	Actor     ClientID     `json:"actor,omitempty"`
	Target    ClientID     `json:"target,omitempty"`
	Op        CommandType  `json:"op,omitempty"`
	Allowed   bool         `json:"allowed"`
	Tag       InteractTag  `json:"tag,omitempty"`
	Node      NodeID       `json:"node,omitempty"`
	Pos       Vec2         `json:"pos,omitempty"`
	Card      CardItemID   `json:"card,omitempty"`
	CardState CardState    `json:"card_state,omitempty"`
	Cards     []CardItemID `json:"cards,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Sound     string       `json:"sound,omitempty"`
	Gold      int          `json:"gold"`
	Role      Role         `json:"role,omitempty"`
	Text      string       `json:"text,omitempty"`
	Winner    string       `json:"winner,omitempty"`
}

// Apply validates one command against authoritative state and, when valid,
// commits its effect and returns the resulting deltas. A nil event slice
// with a non-nil error is a silent no-op. Request* commands always produce
// a Verdict event for the requester, even when the answer is no.
func (s *State) Apply(cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdJoin:
		return s.applyJoin(cmd)
	case CmdLeave:
		return s.applyLeave(cmd)
	case CmdStartGame:
		return s.applyStartGame(cmd)
	case CmdMove:
		return s.applyMove(cmd)
	case CmdChat:
		return s.applyChat(cmd)
	case CmdTick:
		return s.applyTick()

	case CmdRequestKill:
		actor, target := s.Players[cmd.Actor], s.Players[cmd.Target]
		return []Event{{Type: EvtVerdict, To: cmd.Actor, Op: CmdRequestKill, Allowed: s.canKill(actor, target)}}, nil
	case CmdCommitKill:
		return s.applyCommitKill(cmd)

	case CmdRequestInteract:
		actor := s.Players[cmd.Actor]
		return []Event{{Type: EvtVerdict, To: cmd.Actor, Op: CmdRequestInteract, Allowed: s.canInteract(actor, cmd.Tag, cmd.ObjectID)}}, nil
	case CmdCommitInteract:
		return s.applyCommitInteract(cmd)

	case CmdReportCorpse:
		return s.applyReportCorpse(cmd)
	case CmdSabotage:
		return s.applySabotage(cmd)
	case CmdVentMove:
		return s.applyVentMove(cmd)
	case CmdVentExit:
		return s.applyVentExit(cmd)

	case CmdRequestDisplayCards:
		return s.applyDisplayRoll(cmd)
	case CmdRequestPurchase:
		return s.applyPurchase(cmd)
	case CmdUpdateCardState:
		return s.applyUpdateCardState(cmd)

	case CmdCastVote:
		return s.applyCastVote(cmd)
	case CmdCloseTrial:
		return s.applyCloseTrial(cmd)

	default:
		return nil, ErrUnsupportedCommand
	}
}

func (s *State) applyJoin(cmd Command) ([]Event, error) {
	if cmd.Actor == NoClient {
		return nil, ErrInvalidTarget
	}
	if _, exists := s.Players[cmd.Actor]; exists {
		return nil, ErrInvalidTarget
	}
	p := &Player{
		ClientID:    cmd.Actor,
		Name:        cmd.Name,
		Role:        RoleNone,
		Alive:       Alive,
		Gold:        s.Rules.StartingGold,
		MoveSpeed:   1.0,
		Credibility: 50,
		Spellpower:  10,
		KillCD:      NewCooldown(s.Rules.KillCooldownTicks),
		SabotageCD:  NewCooldown(s.Rules.SabotageCooldownTicks),
		Pos:         cmd.Pos,
	}
	s.Players[cmd.Actor] = p
	return []Event{{Type: EvtPlayerJoined, Actor: cmd.Actor, Text: cmd.Name, Pos: cmd.Pos}}, nil
}

func (s *State) applyLeave(cmd Command) ([]Event, error) {
	if _, ok := s.Players[cmd.Actor]; !ok {
		return nil, ErrInvalidTarget
	}
	var events []Event
	// A departing client must not keep ledger reservations alive.
	for _, ci := range s.Ledger {
		if ci.State == CardSolding && ci.DisplayingClient == cmd.Actor {
			ci.State = CardNone
			ci.DisplayingClient = NoClient
			events = append(events, Event{Type: EvtCardStateChanged, Card: ci.Item, CardState: CardNone})
		}
	}
	s.releaseVents(cmd.Actor)
	if s.Trial != nil {
		delete(s.Trial.Votes, cmd.Actor)
	}
	delete(s.Players, cmd.Actor)
	events = append(events, Event{Type: EvtPlayerLeft, Actor: cmd.Actor})
	if ev, done := s.checkCompletion(); done {
		events = append(events, ev)
	}
	return events, nil
}

func (s *State) applyStartGame(cmd Command) ([]Event, error) {
	if s.Phase != PhaseLobby {
		return nil, ErrNotReady
	}
	if len(s.Players) < 2 {
		return nil, ErrNotReady
	}
	order := s.playerOrder()
	s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	farmers := len(order) / 4
	if farmers < 1 {
		farmers = 1
	}
	events := []Event{{Type: EvtGameStarted, Actor: cmd.Actor}}
	for i, id := range order {
		role := RoleAnimal
		if i < farmers {
			role = RoleFarmer
		}
		s.Players[id].Role = role
		// Roles are secret: each player learns only its own.
		events = append(events, Event{Type: EvtRoleAssigned, To: id, Actor: id, Role: role})
	}
	s.Phase = PhasePlaying
	return events, nil
}

func (s *State) applyMove(cmd Command) ([]Event, error) {
	p, ok := s.Players[cmd.Actor]
	if !ok {
		return nil, ErrInvalidTarget
	}
	if p.Frozen || p.Alive != Alive || p.VentNode != NoNode {
		return nil, ErrNotReady
	}
	p.Pos = cmd.Pos
	return []Event{{Type: EvtPlayerMoved, Actor: cmd.Actor, Pos: cmd.Pos}}, nil
}

func (s *State) applyChat(cmd Command) ([]Event, error) {
	if _, ok := s.Players[cmd.Actor]; !ok {
		return nil, ErrInvalidTarget
	}
	if cmd.Text == "" {
		return nil, ErrInvalidTarget
	}
	s.Chat = append(s.Chat, ChatMessage{From: cmd.Actor, Text: cmd.Text, Tick: s.Tick})
	if over := len(s.Chat) - s.Rules.ChatLogCap; over > 0 {
		s.Chat = s.Chat[over:]
	}
	return []Event{{Type: EvtChat, Actor: cmd.Actor, Text: cmd.Text}}, nil
}

func (s *State) applyTick() ([]Event, error) {
	s.Tick++
	for _, p := range s.Players {
		p.KillCD.TickDown()
		p.SabotageCD.TickDown()
	}
	for _, n := range s.Vents {
		n.tickDown()
	}
	var events []Event
	if s.Sabotage != nil {
		s.Sabotage.Remaining--
		if s.Sabotage.Remaining <= 0 {
			events = append(events, Event{Type: EvtSabotageEnded, Actor: s.Sabotage.By})
			s.Sabotage = nil
		}
	}
	return events, nil
}

func (s *State) applyCommitKill(cmd Command) ([]Event, error) {
	actor, target := s.Players[cmd.Actor], s.Players[cmd.Target]
	// Second, independent validation: the verdict round trip may have raced
	// another kill, a death, or a trial start.
	if !s.canKill(actor, target) {
		return nil, ErrInvalidTarget
	}
	s.kill(actor, target)
	events := []Event{{Type: EvtPlayerKilled, Actor: cmd.Actor, Target: cmd.Target, Pos: target.Pos}}
	if ev, done := s.checkCompletion(); done {
		events = append(events, ev)
	}
	return events, nil
}

func (s *State) applyCommitInteract(cmd Command) ([]Event, error) {
	actor := s.Players[cmd.Actor]
	if !s.canInteract(actor, cmd.Tag, cmd.ObjectID) {
		return nil, ErrInvalidTarget
	}
	switch cmd.Tag {
	case TagVent:
		node := s.Vents[NodeID(cmd.ObjectID)]
		if !s.enterVent(actor, node) {
			return nil, ErrInvalidTarget
		}
		return []Event{{Type: EvtVentEntered, Actor: cmd.Actor, Node: node.ID}}, nil
	case TagConvocationOfTrial:
		s.openTrial(cmd.Actor)
		return []Event{{Type: EvtTrialStarted, Actor: cmd.Actor, Tag: TagConvocationOfTrial}}, nil
	case TagMiniGame, TagInteractable:
		// The puzzle/interactable handler is an external collaborator; the
		// core only announces that the interaction was granted.
		return []Event{{Type: EvtInteract, Actor: cmd.Actor, Tag: cmd.Tag, Text: cmd.ObjectID}}, nil
	default:
		return nil, ErrInvalidTarget
	}
}

func (s *State) applyReportCorpse(cmd Command) ([]Event, error) {
	actor := s.Players[cmd.Actor]
	if !s.canReport(actor) {
		return nil, ErrInvalidTarget
	}
	corpse := s.corpseNear(actor.Pos)
	s.openTrial(cmd.Actor)
	return []Event{{Type: EvtTrialStarted, Actor: cmd.Actor, Target: corpse.Of}}, nil
}

func (s *State) applySabotage(cmd Command) ([]Event, error) {
	actor := s.Players[cmd.Actor]
	if actor == nil || !caps(actor).Sabotage {
		return nil, ErrUnauthorized
	}
	if !s.canSabotage(actor) {
		return nil, ErrNotReady
	}
	actor.SabotageCD.Start()
	s.Sabotage = &SabotageEffect{By: cmd.Actor, Remaining: s.Rules.SabotageDurationTicks}
	return []Event{{Type: EvtSabotageStarted, Actor: cmd.Actor}}, nil
}

func (s *State) applyVentMove(cmd Command) ([]Event, error) {
	actor := s.Players[cmd.Actor]
	if actor == nil {
		return nil, ErrInvalidTarget
	}
	target, ok := s.Vents[NodeID(cmd.ObjectID)]
	if !ok {
		return nil, ErrInvalidTarget
	}
	from := actor.VentNode
	if !s.moveVent(actor, target) {
		return nil, ErrInvalidTarget
	}
	return []Event{{Type: EvtVentMoved, Actor: cmd.Actor, Node: target.ID, Text: string(from)}}, nil
}

func (s *State) applyVentExit(cmd Command) ([]Event, error) {
	actor := s.Players[cmd.Actor]
	if actor == nil {
		return nil, ErrInvalidTarget
	}
	node, ok := s.exitVent(actor)
	if !ok {
		return nil, ErrInvalidTarget
	}
	return []Event{{Type: EvtVentExited, Actor: cmd.Actor, Node: node.ID, Pos: actor.Pos}}, nil
}

func (s *State) applyCastVote(cmd Command) ([]Event, error) {
	if s.Trial == nil {
		return nil, ErrNotReady
	}
	voter, ok := s.Players[cmd.Actor]
	if !ok || voter.Alive != Alive {
		return nil, ErrUnauthorized
	}
	if _, voted := s.Trial.Votes[cmd.Actor]; voted {
		return nil, ErrInvalidTarget
	}
	if cmd.Target != NoClient {
		accused, ok := s.Players[cmd.Target]
		if !ok || accused.Alive != Alive {
			return nil, ErrInvalidTarget
		}
	}
	s.Trial.Votes[cmd.Actor] = cmd.Target
	events := []Event{{Type: EvtVoteCast, Actor: cmd.Actor}}
	if len(s.Trial.Votes) >= s.livingVoters() {
		closed, err := s.applyCloseTrial(Command{Type: CmdCloseTrial, Actor: cmd.Actor})
		if err == nil {
			events = append(events, closed...)
		}
	}
	return events, nil
}

func (s *State) applyCloseTrial(cmd Command) ([]Event, error) {
	if s.Trial == nil {
		return nil, ErrNotReady
	}
	ejected := s.Trial.verdictTarget()
	events := []Event{{Type: EvtTrialClosed, Target: ejected}}
	if ejected != NoClient {
		p := s.Players[ejected]
		p.Alive = Dead
		p.Role = RoleGhost
	}
	s.closeTrial()
	if ev, done := s.checkCompletion(); done {
		events = append(events, ev)
	}
	return events, nil
}

// checkCompletion evaluates the win condition after any death or departure.
func (s *State) checkCompletion() (Event, bool) {
	if s.Phase != PhasePlaying && s.Phase != PhaseTrial {
		return Event{}, false
	}
	farmers, animals := 0, 0
	for _, p := range s.Players {
		if p.Alive != Alive {
			continue
		}
		switch p.Role {
		case RoleFarmer:
			farmers++
		case RoleAnimal:
			animals++
		}
	}
	switch {
	case farmers == 0:
		s.Winner = "animals"
	case farmers >= animals:
		s.Winner = "farmers"
	default:
		return Event{}, false
	}
	s.Phase = PhaseDone
	s.Trial = nil
	for _, p := range s.Players {
		p.Frozen = false
	}
	return Event{Type: EvtGameCompleted, Winner: s.Winner}, true
}
