package engine

// NodeID identifies one vent in the traversal graph.
type NodeID string

const NoNode NodeID = ""

// MaxVentLinks caps outgoing links per node; the map layout never needs more.
const MaxVentLinks = 4

// VentNode is one interactable node of the vent graph. Occupancy is
// exclusive: while Occupant is set, CanEnter is false for everyone else, and
// it stays false for the previous occupant for a short reentry cooldown
// after exit.
type VentNode struct {
	ID       NodeID
	Links    []NodeID
	Exit     Vec2 // where a player reappears on exit
	Occupant ClientID
	reentry  map[ClientID]int // remaining cooldown ticks per recent occupant
}

func NewVentNode(id NodeID, exit Vec2, links ...NodeID) *VentNode {
	if len(links) > MaxVentLinks {
		links = links[:MaxVentLinks]
	}
	return &VentNode{
		ID:      id,
		Links:   links,
		Exit:    exit,
		reentry: make(map[ClientID]int),
	}
}

func (n *VentNode) CanEnter(c ClientID) bool {
	if n.Occupant != NoClient {
		return false
	}
	return n.reentry[c] == 0
}

func (n *VentNode) LinkedTo(target NodeID) bool {
	for _, l := range n.Links {
		if l == target {
			return true
		}
	}
	return false
}

func (n *VentNode) tickDown() {
	for c, t := range n.reentry {
		if t <= 1 {
			delete(n.reentry, c)
		} else {
			n.reentry[c] = t - 1
		}
	}
}

// enterVent moves a player into a node. Caller has already validated via
// canInteract(TagVent, ...); this re-checks occupancy so a commit racing a
// second entrant stays safe.
func (s *State) enterVent(actor *Player, node *VentNode) bool {
	if actor.VentNode != NoNode || !node.CanEnter(actor.ClientID) {
		return false
	}
	node.Occupant = actor.ClientID
	actor.VentNode = node.ID
	return true
}

// moveVent transfers occupancy along a link. The transfer is atomic within
// one Apply step: either both nodes change or neither does, so no observer
// ever sees the player in two nodes.
func (s *State) moveVent(actor *Player, target *VentNode) bool {
	if actor.VentNode == NoNode {
		return false
	}
	from, ok := s.Vents[actor.VentNode]
	if !ok || from.Occupant != actor.ClientID {
		return false
	}
	if !from.LinkedTo(target.ID) || target.Occupant != NoClient {
		return false
	}
	from.Occupant = NoClient
	target.Occupant = actor.ClientID
	actor.VentNode = target.ID
	return true
}

// exitVent restores the player at the node's exit offset and starts the
// post-exit reentry cooldown.
func (s *State) exitVent(actor *Player) (*VentNode, bool) {
	if actor.VentNode == NoNode {
		return nil, false
	}
	node, ok := s.Vents[actor.VentNode]
	if !ok || node.Occupant != actor.ClientID {
		return nil, false
	}
	node.Occupant = NoClient
	node.reentry[actor.ClientID] = s.Rules.VentReentryTicks
	actor.VentNode = NoNode
	actor.Pos = node.Exit
	return node, true
}

// releaseVents clears any occupancy held by a departing client.
func (s *State) releaseVents(c ClientID) {
	for _, n := range s.Vents {
		if n.Occupant == c {
			n.Occupant = NoClient
		}
		delete(n.reentry, c)
	}
}
