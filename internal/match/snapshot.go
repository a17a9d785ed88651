package match

import (
	"sort"

	"github.com/farmhunt/backend/internal/engine"
)

// Snapshot is the read-model a client receives on join. It is built inside
// the actor goroutine, so it is a consistent copy; after that the client
// keeps itself current from event deltas. Clients must treat their copy as
// advisory; only the server's is authoritative.
type Snapshot struct {
	Phase   engine.Phase         `json:"phase"`
	Tick    int64                `json:"tick"`
	Winner  string               `json:"winner,omitempty"`
	Players []PlayerView         `json:"players"`
	Cards   []CardView           `json:"cards"`
	Chat    []engine.ChatMessage `json:"chat,omitempty"`
}

type PlayerView struct {
	ClientID engine.ClientID   `json:"client_id"`
	Name     string            `json:"name"`
	Role     engine.Role       `json:"role"`
	Alive    engine.AliveState `json:"alive"`
	Gold     int               `json:"gold"`
	Pos      engine.Vec2       `json:"pos"`
	Frozen   bool              `json:"frozen"`
}

type CardView struct {
	Item             engine.CardItemID `json:"item"`
	CardIDKey        string            `json:"card_id_key"`
	Price            int               `json:"price"`
	Cost             int               `json:"cost"`
	State            engine.CardState  `json:"state"`
	DisplayingClient engine.ClientID   `json:"displaying_client,omitempty"`
	AcquiredTicks    int64             `json:"acquired_ticks,omitempty"`
}

// snapshotFor builds the join snapshot for one recipient. Living players'
// roles are secret: a client sees its own role and the roles of the dead,
// everyone else reads as RoleNone.
func snapshotFor(s *engine.State, recipient engine.ClientID) Snapshot {
	return buildSnapshot(s, func(p *engine.Player) engine.Role {
		if p.ClientID == recipient || p.Alive == engine.Dead {
			return p.Role
		}
		return engine.RoleNone
	})
}

// snapshotAll is the unredacted server-side view used by GetState.
func snapshotAll(s *engine.State) Snapshot {
	return buildSnapshot(s, func(p *engine.Player) engine.Role { return p.Role })
}

func buildSnapshot(s *engine.State, roleOf func(*engine.Player) engine.Role) Snapshot {
	snap := Snapshot{
		Phase:  s.Phase,
		Tick:   s.Tick,
		Winner: s.Winner,
		Chat:   s.RecentChat(0),
	}
	for _, p := range s.Players {
		snap.Players = append(snap.Players, PlayerView{
			ClientID: p.ClientID,
			Name:     p.Name,
			Role:     roleOf(p),
			Alive:    p.Alive,
			Gold:     p.Gold,
			Pos:      p.Pos,
			Frozen:   p.Frozen,
		})
	}
	sort.Slice(snap.Players, func(i, j int) bool { return snap.Players[i].ClientID < snap.Players[j].ClientID })
	for _, ci := range s.Ledger {
		snap.Cards = append(snap.Cards, CardView{
			Item:             ci.Item,
			CardIDKey:        ci.CardIDKey,
			Price:            ci.Price,
			Cost:             ci.Cost,
			State:            ci.State,
			DisplayingClient: ci.DisplayingClient,
			AcquiredTicks:    ci.AcquiredTicks,
		})
	}
	return snap
}
