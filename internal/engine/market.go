package engine

// Marketplace command handlers. These are the highest-contention paths in
// the system: many clients pull from one shrinking pool. Safety comes from
// the actor model: every roll and purchase runs to completion inside a
// single Apply call, so checks and commits cannot interleave.

const SoundPurchaseFail = "purchase_fail"
const SoundPurchaseOK = "purchase_ok"

// Purchase failure reasons carried on the EvtPurchaseFailed payload.
const (
	ReasonInventoryFull = "inventory_full"
	ReasonUnknownItem   = "unknown_item"
	ReasonOutOfStock    = "out_of_stock"
	ReasonNotEnoughGold = "not_enough_gold"
)

// applyDisplayRoll implements the per-client shop roll: demote the
// requester's previous reservations, then draw up to DisplayLimit fresh
// instances from the unreserved pool. Two clients rolling back to back can
// never be offered the same physical instance because reservations are
// committed before the next command is processed.
func (s *State) applyDisplayRoll(cmd Command) ([]Event, error) {
	if _, ok := s.Players[cmd.Actor]; !ok {
		return nil, ErrUnauthorized
	}
	var events []Event

	for _, ci := range s.Ledger {
		if ci.State == CardSolding && ci.DisplayingClient == cmd.Actor {
			ci.State = CardNone
			ci.DisplayingClient = NoClient
			events = append(events, Event{Type: EvtCardStateChanged, Card: ci.Item, CardState: CardNone})
		}
	}

	var pool []*CardItemInstance
	for _, ci := range s.Ledger {
		if ci.State != CardSold && ci.DisplayingClient == NoClient {
			pool = append(pool, ci)
		}
	}
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > s.Rules.DisplayLimit {
		pool = pool[:s.Rules.DisplayLimit]
	}

	selected := make([]CardItemID, 0, len(pool))
	for _, ci := range pool {
		ci.State = CardSolding
		ci.DisplayingClient = cmd.Actor
		selected = append(selected, ci.Item)
		events = append(events, Event{Type: EvtCardStateChanged, Card: ci.Item, CardState: CardSolding, Actor: cmd.Actor})
	}

	// Only the requester learns which instances landed on its display.
	events = append(events, Event{Type: EvtDisplayRolled, To: cmd.Actor, Cards: selected})
	return events, nil
}

// applyPurchase runs the ordered five-step validation. Identity mismatch is
// rejected silently; the remaining failures are answered with a failure
// event and sound cue for the requester only. The whole check-and-commit is
// one Apply step, so a sold-out race between two buyers is impossible.
func (s *State) applyPurchase(cmd Command) ([]Event, error) {
	// (1) network-verified sender must match the claimed buyer.
	if cmd.Claimed != cmd.Actor {
		return nil, ErrUnauthorized
	}
	buyer, ok := s.Players[cmd.Actor]
	if !ok {
		return nil, ErrUnauthorized
	}

	fail := func(reason string) []Event {
		return []Event{{
			Type:   EvtPurchaseFailed,
			To:     cmd.Actor,
			Card:   cmd.CardItem,
			Reason: reason,
			Sound:  SoundPurchaseFail,
		}}
	}

	// (2) inventory cap, before any stock or gold check.
	if len(buyer.Inventory) >= s.Rules.InventoryCap {
		return fail(ReasonInventoryFull), ErrResourceExhausted
	}

	// (3) the instance must still exist in the ledger.
	ci := s.cardItem(cmd.CardItem)
	if ci == nil {
		return fail(ReasonUnknownItem), ErrInvalidTarget
	}

	// (4) stock not exhausted; an already-Sold instance is a re-issued
	// commit and must not double-charge.
	if ci.State == CardSold || s.soldCount(ci.CardIDKey) >= s.Catalog.TotalInstances(ci.CardIDKey) {
		return fail(ReasonOutOfStock), ErrResourceExhausted
	}

	// (5) currency.
	if buyer.Gold < ci.Price {
		return fail(ReasonNotEnoughGold), ErrResourceExhausted
	}

	ci.State = CardSold
	ci.AcquiredTicks = s.Tick
	ci.DisplayingClient = NoClient
	buyer.Gold -= ci.Price
	buyer.Inventory = append(buyer.Inventory, ci.Item)

	return []Event{
		{Type: EvtCardStateChanged, Card: ci.Item, CardState: CardSold},
		{Type: EvtPurchaseCompleted, Actor: cmd.Actor, Card: ci.Item, Gold: buyer.Gold, Sound: SoundPurchaseOK},
	}, nil
}

// applyUpdateCardState is the generic ledger-mutation RPC used by shop UI
// glue. Transitions are restricted to what keeps the ledger invariants:
// Sold is terminal, reservations stay exclusive and capped, and a client
// may only touch its own display.
func (s *State) applyUpdateCardState(cmd Command) ([]Event, error) {
	if _, ok := s.Players[cmd.Actor]; !ok {
		return nil, ErrUnauthorized
	}
	ci := s.cardItem(cmd.CardItem)
	if ci == nil {
		return nil, ErrInvalidTarget
	}
	if ci.State == CardSold || cmd.CardState == CardSold {
		return nil, ErrInvalidTarget
	}

	switch cmd.CardState {
	case CardNone:
		if ci.State != CardSolding || ci.DisplayingClient != cmd.Actor {
			return nil, ErrUnauthorized
		}
		ci.State = CardNone
		ci.DisplayingClient = NoClient
		return []Event{{Type: EvtCardStateChanged, Card: ci.Item, CardState: CardNone}}, nil

	case CardSolding:
		if ci.State != CardNone || ci.DisplayingClient != NoClient {
			return nil, ErrInvalidTarget
		}
		if s.displayCount(cmd.Actor) >= s.Rules.DisplayLimit {
			return nil, ErrResourceExhausted
		}
		ci.State = CardSolding
		ci.DisplayingClient = cmd.Actor
		return []Event{{Type: EvtCardStateChanged, Card: ci.Item, CardState: CardSolding, Actor: cmd.Actor}}, nil

	default:
		return nil, ErrInvalidTarget
	}
}
