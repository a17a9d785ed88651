package engine

import "sort"

// playerOrder returns client ids in a stable order, so shuffles driven by
// the seeded rng are reproducible.
func (s *State) playerOrder() []ClientID {
	order := make([]ClientID, 0, len(s.Players))
	for id := range s.Players {
		order = append(order, id)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	return order
}

// AddVent registers a vent node before the match starts. The map layout is
// static per scene, so this is only called during setup.
func (s *State) AddVent(n *VentNode) {
	s.Vents[n.ID] = n
}

// Read accessors for the out-of-scope UI/minigame/lobby glue. These answer
// questions; they never decide anything.

func (s *State) PlayerGold(c ClientID) (int, bool) {
	p, ok := s.Players[c]
	if !ok {
		return 0, false
	}
	return p.Gold, true
}

func (s *State) PlayerRole(c ClientID) (Role, bool) {
	p, ok := s.Players[c]
	if !ok {
		return RoleNone, false
	}
	return p.Role, true
}

func (s *State) PlayerAlive(c ClientID) (AliveState, bool) {
	p, ok := s.Players[c]
	if !ok {
		return Dead, false
	}
	return p.Alive, true
}

// RecentChat returns up to n of the newest chat messages, oldest first.
func (s *State) RecentChat(n int) []ChatMessage {
	if n <= 0 || n > len(s.Chat) {
		n = len(s.Chat)
	}
	out := make([]ChatMessage, n)
	copy(out, s.Chat[len(s.Chat)-n:])
	return out
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func FindEvent(events []Event, eventType EventType) (Event, bool) {
	for _, event := range events {
		if event.Type == eventType {
			return event, true
		}
	}
	return Event{}, false
}
