package builder

// State is the position of a build in the three-stage creation flow.
type State int

const (
	StateAwaitingRoll State = iota
	StateAwaitingAssignment
	StateAwaitingArchetype
	StateAwaitingEquipment
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateAwaitingRoll:
		return "awaiting_roll"
	case StateAwaitingAssignment:
		return "awaiting_assignment"
	case StateAwaitingArchetype:
		return "awaiting_archetype"
	case StateAwaitingEquipment:
		return "awaiting_equipment"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Stage collapses the state to the step number shown to the player:
// 1 ability scores, 2 archetype, 3 equipment and identity.
func (s State) Stage() int {
	switch s {
	case StateAwaitingRoll, StateAwaitingAssignment:
		return 1
	case StateAwaitingArchetype:
		return 2
	default:
		return 3
	}
}
