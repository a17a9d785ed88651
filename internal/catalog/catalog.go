package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Definition is an immutable catalog entry for one purchasable card.
// Definitions are loaded once at startup and never mutated during a match;
// the per-match sellable copies live in the engine's ledger.
type Definition struct {
	ID       string `json:"id"`
	Tier     int    `json:"tier"`
	Type     string `json:"type"`
	Price    int    `json:"price"`
	Cost     int    `json:"cost"`
	TextKey  string `json:"text_key"`
	ImageKey string `json:"image_key"`
	Amount   int    `json:"amount"`
}

type Catalog struct {
	defs  map[string]Definition
	order []string // insertion order, so ledger construction is deterministic
	text  map[string]map[string]string
}

type fileFormat struct {
	Definitions []Definition                 `json:"definitions"`
	Text        map[string]map[string]string `json:"text"`
}

// Load reads a catalog data file. The file is the already-converted JSON
// form of the card sheet; raw sheet ingestion happens upstream.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var ff fileFormat
	if err := json.Unmarshal(raw, &ff); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return build(ff)
}

func build(ff fileFormat) (*Catalog, error) {
	c := &Catalog{
		defs: make(map[string]Definition, len(ff.Definitions)),
		text: ff.Text,
	}
	if c.text == nil {
		c.text = map[string]map[string]string{}
	}
	for _, d := range ff.Definitions {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog definition with empty id")
		}
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", d.ID)
		}
		if d.Amount <= 0 {
			return nil, fmt.Errorf("catalog id %q: amount must be positive", d.ID)
		}
		c.defs[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	return c, nil
}

// Default returns the built-in card set used when no data file is configured
// (and by tests).
func Default() *Catalog {
	c, err := build(fileFormat{
		Definitions: []Definition{
			{ID: "scarecrow_charm", Tier: 1, Type: "charm", Price: 40, Cost: 10, TextKey: "card.scarecrow_charm", ImageKey: "img.scarecrow_charm", Amount: 4},
			{ID: "rusty_sickle", Tier: 1, Type: "tool", Price: 60, Cost: 15, TextKey: "card.rusty_sickle", ImageKey: "img.rusty_sickle", Amount: 3},
			{ID: "lucky_clover", Tier: 2, Type: "charm", Price: 100, Cost: 25, TextKey: "card.lucky_clover", ImageKey: "img.lucky_clover", Amount: 2},
			{ID: "barn_lantern", Tier: 2, Type: "tool", Price: 120, Cost: 30, TextKey: "card.barn_lantern", ImageKey: "img.barn_lantern", Amount: 2},
			{ID: "golden_pitchfork", Tier: 3, Type: "tool", Price: 200, Cost: 50, TextKey: "card.golden_pitchfork", ImageKey: "img.golden_pitchfork", Amount: 1},
		},
		Text: map[string]map[string]string{
			"en": {
				"card.scarecrow_charm":  "Scarecrow Charm",
				"card.rusty_sickle":     "Rusty Sickle",
				"card.lucky_clover":     "Lucky Clover",
				"card.barn_lantern":     "Barn Lantern",
				"card.golden_pitchfork": "Golden Pitchfork",
			},
		},
	})
	if err != nil {
		panic(err) // built-in data is static; unreachable unless it is edited badly
	}
	return c
}

// Definition looks up a catalog entry by id.
func (c *Catalog) Definition(id string) (Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// IDs returns all definition ids in file order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// TotalInstances is the number of sellable copies of a definition per match.
func (c *Catalog) TotalInstances(id string) int {
	return c.defs[id].Amount
}

// DisplayText resolves the localized display string for a card. Falls back
// to English, then to the raw text key.
func (c *Catalog) DisplayText(id, locale string) string {
	d, ok := c.defs[id]
	if !ok {
		return ""
	}
	if t, ok := c.text[locale][d.TextKey]; ok {
		return t
	}
	if t, ok := c.text["en"][d.TextKey]; ok {
		return t
	}
	return d.TextKey
}
