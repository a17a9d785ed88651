package types

// Snapshot:
//   phase: "lobby" | "playing" | "trial" | "done"
//   tick: number
//   winner: "farmers" | "animals"  (only once done)
//   players: [{client_id, name, role, alive, gold, pos, frozen}]
//     role is redacted to "none" for living players other than the
//     recipient; the dead are revealed.
//   cards: [{item, card_id_key, price, cost, state, displaying_client,
//            acquired_ticks}]
//   chat: [{from, text, tick}]   (most recent messages only)
//
// The snapshot is sent once on join; afterwards the client folds Events
// deltas into its local copy. The local copy is advisory: between a commit
// and the delta's arrival it is transiently stale, and every intent is
// re-validated server-side.
