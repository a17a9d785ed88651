package engine

import "sort"

// Trial is the global voting sequence opened by a corpse report or a
// convocation interact. While a trial is open every player is frozen.
type Trial struct {
	OpenedBy ClientID
	Votes    map[ClientID]ClientID // voter -> accused; NoClient = skip
}

func newTrial(openedBy ClientID) *Trial {
	return &Trial{OpenedBy: openedBy, Votes: make(map[ClientID]ClientID)}
}

// VoteCounts tallies votes per accused player. Skips are not counted.
func (t *Trial) VoteCounts() map[ClientID]int {
	counts := make(map[ClientID]int)
	for _, accused := range t.Votes {
		if accused != NoClient {
			counts[accused]++
		}
	}
	return counts
}

// Ranks computes standard competition ranking over the vote counts: players
// with equal counts share a rank, and the next distinct count skips the tied
// positions. Rank is derived on demand, never stored.
func (t *Trial) Ranks() map[ClientID]int {
	counts := t.VoteCounts()
	type cc struct {
		c ClientID
		n int
	}
	ordered := make([]cc, 0, len(counts))
	for c, n := range counts {
		ordered = append(ordered, cc{c, n})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].n != ordered[j].n {
			return ordered[i].n > ordered[j].n
		}
		return ordered[i].c < ordered[j].c
	})
	ranks := make(map[ClientID]int, len(ordered))
	for i, e := range ordered {
		if i > 0 && e.n == ordered[i-1].n {
			ranks[e.c] = ranks[ordered[i-1].c]
		} else {
			ranks[e.c] = i + 1
		}
	}
	return ranks
}

// verdictTarget returns the accused with a strict plurality, or NoClient on
// a tie or an all-skip round.
func (t *Trial) verdictTarget() ClientID {
	counts := t.VoteCounts()
	top, topN, tied := NoClient, 0, false
	for c, n := range counts {
		switch {
		case n > topN:
			top, topN, tied = c, n, false
		case n == topN:
			tied = true
		}
	}
	if tied || topN == 0 {
		return NoClient
	}
	return top
}

func (s *State) openTrial(openedBy ClientID) {
	s.Phase = PhaseTrial
	s.Trial = newTrial(openedBy)
	s.Corpses = nil
	for _, p := range s.Players {
		p.Frozen = true
	}
}

func (s *State) closeTrial() {
	s.Trial = nil
	s.Phase = PhasePlaying
	for _, p := range s.Players {
		p.Frozen = false
	}
}

// livingVoters counts players still allowed to vote.
func (s *State) livingVoters() int {
	n := 0
	for _, p := range s.Players {
		if p.Alive == Alive {
			n++
		}
	}
	return n
}
