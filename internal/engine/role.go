package engine

// Capabilities is the closed per-role ability table. Stateful conditions
// (aliveness, cooldowns, target validity) live in the can* predicates below;
// this table only answers "does the role have the ability at all".
type Capabilities struct {
	Kill     bool
	Sabotage bool
	Vent     bool
	Interact bool
	Report   bool
}

var roleCaps = map[Role]Capabilities{
	RoleFarmer: {Kill: true, Sabotage: true, Vent: true, Interact: true, Report: true},
	RoleAnimal: {Interact: true, Report: true},
	RoleGhost:  {},
	RoleNone:   {},
}

func caps(p *Player) Capabilities {
	if p == nil {
		return Capabilities{}
	}
	return roleCaps[p.Role]
}

// Every predicate is pure over current authoritative state. The same
// predicate runs at the request phase and again at the commit phase, because
// other clients' commands may land between the two round trips.

func (s *State) canKill(actor, target *Player) bool {
	if s.Phase != PhasePlaying || actor == nil || target == nil {
		return false
	}
	if !caps(actor).Kill || actor.Alive != Alive || actor.Frozen {
		return false
	}
	if !actor.KillCD.Ready() || actor.VentNode != NoNode {
		return false
	}
	if target.ClientID == actor.ClientID {
		return false
	}
	return target.Role == RoleAnimal && target.Alive == Alive
}

func (s *State) canSabotage(actor *Player) bool {
	if s.Phase != PhasePlaying || actor == nil {
		return false
	}
	if !caps(actor).Sabotage || actor.Alive != Alive || actor.Frozen {
		return false
	}
	return actor.SabotageCD.Ready() && s.Sabotage == nil
}

func (s *State) canInteract(actor *Player, tag InteractTag, objectID string) bool {
	if s.Phase != PhasePlaying || actor == nil {
		return false
	}
	if !caps(actor).Interact || actor.Alive != Alive || actor.Frozen {
		return false
	}
	switch tag {
	case TagVent:
		if !caps(actor).Vent {
			return false
		}
		node, ok := s.Vents[NodeID(objectID)]
		return ok && node.CanEnter(actor.ClientID)
	case TagMiniGame, TagConvocationOfTrial, TagInteractable:
		return true
	default:
		return false
	}
}

func (s *State) canReport(actor *Player) bool {
	if s.Phase != PhasePlaying || actor == nil {
		return false
	}
	if !caps(actor).Report || actor.Alive != Alive {
		return false
	}
	return s.corpseNear(actor.Pos) != nil
}

func (s *State) corpseNear(pos Vec2) *Corpse {
	r := s.Rules.InteractRadius
	for i := range s.Corpses {
		if dist2(s.Corpses[i].Pos, pos) <= r*r {
			return &s.Corpses[i]
		}
	}
	return nil
}

// kill commits a validated kill: the target dies in place, leaving a corpse,
// and immediately becomes a Ghost so every later predicate denies it.
func (s *State) kill(actor, target *Player) {
	target.Alive = Dead
	target.Role = RoleGhost
	s.Corpses = append(s.Corpses, Corpse{Of: target.ClientID, Pos: target.Pos})
	actor.KillCD.Start()
}
