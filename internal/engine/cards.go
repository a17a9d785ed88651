package engine

import "github.com/farmhunt/backend/internal/catalog"

// CardItemID identifies one physical card instance in the match ledger.
type CardItemID int

type CardState string

const (
	CardNone    CardState = "none"    // in the pool, sellable, unreserved
	CardSolding CardState = "solding" // reserved on exactly one client's display
	CardSold    CardState = "sold"    // purchased; terminal for the match
)

// CardItemInstance is one sellable copy of a catalog definition. Instances
// are created once at match setup and live until teardown; only their status
// fields change.
type CardItemInstance struct {
	Item             CardItemID
	CardIDKey        string // catalog definition id
	Price            int
	Cost             int
	State            CardState
	AcquiredTicks    int64
	DisplayingClient ClientID // NoClient while unreserved
}

// buildLedger expands the catalog into per-instance records, in catalog
// order so instance ids are stable across runs.
func buildLedger(cat *catalog.Catalog) []*CardItemInstance {
	var ledger []*CardItemInstance
	next := CardItemID(1)
	for _, id := range cat.IDs() {
		def, _ := cat.Definition(id)
		for i := 0; i < def.Amount; i++ {
			ledger = append(ledger, &CardItemInstance{
				Item:      next,
				CardIDKey: id,
				Price:     def.Price,
				Cost:      def.Cost,
				State:     CardNone,
			})
			next++
		}
	}
	return ledger
}

func (s *State) cardItem(id CardItemID) *CardItemInstance {
	for _, ci := range s.Ledger {
		if ci.Item == id {
			return ci
		}
	}
	return nil
}

// soldCount counts purchased copies of one definition.
func (s *State) soldCount(cardIDKey string) int {
	n := 0
	for _, ci := range s.Ledger {
		if ci.CardIDKey == cardIDKey && ci.State == CardSold {
			n++
		}
	}
	return n
}

// displayCount counts how many instances a client currently has reserved.
func (s *State) displayCount(c ClientID) int {
	n := 0
	for _, ci := range s.Ledger {
		if ci.State == CardSolding && ci.DisplayingClient == c {
			n++
		}
	}
	return n
}

// DisplaySet is the derived per-client view of the ledger: the instances
// reserved on that client's shop screen right now.
func (s *State) DisplaySet(c ClientID) []*CardItemInstance {
	var out []*CardItemInstance
	for _, ci := range s.Ledger {
		if ci.State == CardSolding && ci.DisplayingClient == c {
			out = append(out, ci)
		}
	}
	return out
}
