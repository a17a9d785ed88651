package engine

// ClientID is the network-verified identity of a connection. It is assigned
// by the ws layer at accept time and is stable for the session.
type ClientID string

// NoClient is the unreserved/absent sentinel for ClientID fields.
const NoClient ClientID = ""

type Role string

const (
	RoleNone   Role = "none"
	RoleFarmer Role = "farmer"
	RoleAnimal Role = "animal"
	RoleGhost  Role = "ghost"
)

type AliveState string

const (
	Alive AliveState = "alive"
	Dead  AliveState = "dead"
)

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Player is the server-owned authoritative record for one connected client.
// Only Apply mutates it; everything clients see is a broadcast copy.
type Player struct {
	ClientID    ClientID
	Name        string
	Role        Role
	Alive       AliveState
	Gold        int
	MoveSpeed   float64
	Credibility int
	Spellpower  int
	KillCD      Cooldown
	SabotageCD  Cooldown
	Inventory   []CardItemID
	Pos         Vec2
	Frozen      bool
	VentNode    NodeID // NoNode unless currently inside a vent
}

// Corpse marks where a killed player fell, until a report clears it.
type Corpse struct {
	Of  ClientID
	Pos Vec2
}

func dist2(a, b Vec2) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
