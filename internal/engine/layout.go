package engine

// FarmVents is the static vent graph of the farm scene. Node links are
// directed; the layout keeps every route reversible on purpose so a farmer
// can always back out the way it came.
func FarmVents() []*VentNode {
	return []*VentNode{
		NewVentNode("barn", Vec2{X: 2, Y: 3}, "coop", "silo"),
		NewVentNode("coop", Vec2{X: 14, Y: 3}, "barn", "field"),
		NewVentNode("silo", Vec2{X: 2, Y: 16}, "barn", "field"),
		NewVentNode("field", Vec2{X: 14, Y: 16}, "coop", "silo", "well"),
		NewVentNode("well", Vec2{X: 8, Y: 22}, "field"),
	}
}
