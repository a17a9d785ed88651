package engine

import "testing"

func TestRanks_TiesShareRank(t *testing.T) {
	tr := newTrial("x")
	tr.Votes = map[ClientID]ClientID{
		"v1": "a",
		"v2": "a",
		"v3": "b",
		"v4": "b",
		"v5": "c",
		"v6": NoClient, // skip, counts for nobody
	}

	ranks := tr.Ranks()
	if ranks["a"] != 1 || ranks["b"] != 1 {
		t.Fatalf("a and b tie for first, got %+v", ranks)
	}
	// Competition ranking: two tied firsts push the next down to third.
	if ranks["c"] != 3 {
		t.Fatalf("c should rank third, got %+v", ranks)
	}
}

func TestVerdictTarget(t *testing.T) {
	cases := []struct {
		name  string
		votes map[ClientID]ClientID
		want  ClientID
	}{
		{
			name:  "strict plurality ejects",
			votes: map[ClientID]ClientID{"v1": "a", "v2": "a", "v3": "b"},
			want:  "a",
		},
		{
			name:  "tie ejects nobody",
			votes: map[ClientID]ClientID{"v1": "a", "v2": "b"},
			want:  NoClient,
		},
		{
			name:  "all skips eject nobody",
			votes: map[ClientID]ClientID{"v1": NoClient, "v2": NoClient},
			want:  NoClient,
		},
		{
			name:  "no votes eject nobody",
			votes: map[ClientID]ClientID{},
			want:  NoClient,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTrial("x")
			tr.Votes = tc.votes
			if got := tr.verdictTarget(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTrialTieReleasesEveryone(t *testing.T) {
	s := newPlayingState()
	s.openTrial("animal1")
	s.Trial.Votes = map[ClientID]ClientID{"animal1": "farmer1", "animal2": "animal3"}

	events, err := s.Apply(Command{Type: CmdCloseTrial, Actor: "animal1"})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	ev, _ := FindEvent(events, EvtTrialClosed)
	if ev.Target != NoClient {
		t.Fatalf("tie must eject nobody, got %q", ev.Target)
	}
	for _, p := range s.Players {
		if p.Frozen || p.Alive != Alive {
			t.Fatalf("everyone walks after a tie")
		}
	}
	if s.Phase != PhasePlaying {
		t.Fatalf("phase should return to playing")
	}
}
