package types

import (
	"github.com/farmhunt/backend/internal/engine"
	"github.com/farmhunt/backend/internal/match"
)

// ClientMessage is the single client->server envelope. Type selects the
// operation; the other fields are read per operation. The actor identity is
// NEVER taken from this payload; the ws layer stamps it from the
// connection. ClientID here is only the claimed id on the purchase path,
// kept so spoof attempts are visible server-side.
type ClientMessage struct {
	Type      string  `json:"type"`
	ClientID  string  `json:"client_id,omitempty"`
	Target    string  `json:"target,omitempty"`
	Tag       string  `json:"tag,omitempty"`
	ObjectID  string  `json:"object_id,omitempty"`
	CardItem  int     `json:"card_item,omitempty"`
	CardState string  `json:"card_state,omitempty"`
	Text      string  `json:"text,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
}

// ServerMessage is the single server->client envelope.
// "Welcome" carries the assigned client id, then "Snapshot" the full join
// read-model, then "Events" deltas in commit order.
type ServerMessage struct {
	Type     string          `json:"type"` // "Welcome" | "Snapshot" | "Events" | "Error"
	Version  int             `json:"version,omitempty"`
	ClientID string          `json:"client_id,omitempty"`
	Snapshot *match.Snapshot `json:"snapshot,omitempty"`
	Events   []engine.Event  `json:"events,omitempty"`
	Error    string          `json:"error,omitempty"`
}
