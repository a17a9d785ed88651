package types

// Client -> Server
// All client messages share one envelope: {type, ...fields}. The server
// never trusts identity fields in the payload; the acting client is always
// the connection that sent the message.
//
// StartGame: {}
//
// Move:
//   x, y: number
//
// Chat:
//   text: string
//
// RequestKill:                 (phase 1 of the kill pipeline)
//   target: client_id
// CommitKill:                  (phase 3; server re-validates)
//   target: client_id
//
// RequestInteract:             (phase 1 of the interact pipeline)
//   tag: "Vent" | "MiniGame" | "ConvocationOfTrial" | "Interactable"
//   object_id: string
// CommitInteract:              (phase 3)
//   tag, object_id: as above
//
// ReportCorpse: {}             (single phase; proximity checked server-side)
//
// Sabotage: {}                 (single phase; cooldown checked server-side)
//
// VentMove:
//   object_id: target vent node id (must be linked from the current node)
// VentExit: {}
//
// RequestDisplayCards: {}      (rolls this client's shop display)
//
// RequestPurchase:
//   card_item: number          (ledger instance id)
//   client_id: string          (claimed buyer; must match the connection)
//
// UpdateCardState:
//   card_item: number
//   card_state: "none" | "solding"
//
// CastVote:
//   target: client_id          (empty = skip)
// CloseTrial: {}

// Server -> Client
// Welcome:
//   client_id: string          (the identity assigned to this connection)
//
// Snapshot:
//   version: number
//   snapshot: full read-model (players, cards, chat, phase, tick)
//
// Events:
//   version: number
//   events: committed deltas, in commit order. A Verdict event is only
//   ever delivered to the client that asked.
//
// Error:
//   error: string              (malformed or unknown message only; game
//   rejections are silent or arrive as events, never as Error)
