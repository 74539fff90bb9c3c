package game

// Phase is the round state machine's current state
type Phase int

const (
	PhaseRoundStart Phase = iota
	PhaseBetting
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseRoundEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseRoundStart:
		return "round start"
	case PhaseBetting:
		return "betting"
	case PhasePlayerTurn:
		return "player turn"
	case PhaseDealerTurn:
		return "dealer turn"
	case PhaseRoundEnd:
		return "round end"
	default:
		return "unknown"
	}
}

// Action is something the player can ask the session to do
type Action int

const (
	ActionChip Action = iota
	ActionDeal
	ActionHit
	ActionStand
	ActionDoubleDown
	ActionKeepPlaying
	ActionHome
)

func (a Action) String() string {
	switch a {
	case ActionChip:
		return "chip"
	case ActionDeal:
		return "deal"
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDoubleDown:
		return "double down"
	case ActionKeepPlaying:
		return "keep playing"
	case ActionHome:
		return "home"
	default:
		return "unknown"
	}
}

// phaseActions lists what each phase accepts. Home is accepted everywhere.
var phaseActions = map[Phase][]Action{
	PhaseRoundStart: {ActionHome},
	PhaseBetting:    {ActionChip, ActionDeal, ActionHome},
	PhasePlayerTurn: {ActionHit, ActionStand, ActionDoubleDown, ActionHome},
	PhaseDealerTurn: {ActionHome},
	PhaseRoundEnd:   {ActionKeepPlaying, ActionHome},
}

// Accepts reports whether the phase accepts the action
func (p Phase) Accepts(a Action) bool {
	for _, allowed := range phaseActions[p] {
		if allowed == a {
			return true
		}
	}
	return false
}

// Input is a single inbound UI event. Chip is only meaningful for ActionChip.
type Input struct {
	Action Action
	Chip   int
}

// ChipSelected is the input for clicking a chip of the given value
func ChipSelected(value int) Input {
	return Input{Action: ActionChip, Chip: value}
}

// Pressed is the input for any button other than a chip
func Pressed(a Action) Input {
	return Input{Action: a}
}
