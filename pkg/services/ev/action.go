package ev

import "strconv"

// Action is a player decision the engine can recommend
type Action int

const (
	ActionNone Action = iota
	ActionHit
	ActionStand
	ActionDouble
	ActionSplit
	ActionSurrender
)

func (a Action) String() string {
	switch a {
	case ActionHit:
		return "Hit"
	case ActionStand:
		return "Stand"
	case ActionDouble:
		return "Double"
	case ActionSplit:
		return "Split"
	case ActionSurrender:
		return "Surrender"
	}
	return "None"
}

// EV is the expected value of an action in units of the original bet.
// Available is false when the action is not legal in the evaluated state.
type EV struct {
	Value     float64
	Available bool
}

// NotApplicable marks an action that cannot be taken
var NotApplicable = EV{}

// Of returns an available EV holding v
func Of(v float64) EV {
	return EV{Value: v, Available: true}
}

func (e EV) String() string {
	if !e.Available {
		return "n/a"
	}
	return strconv.FormatFloat(e.Value, 'f', 6, 64)
}

// Result holds the EV of every action for one state and the best of them
type Result struct {
	Hit       EV
	Stand     EV
	Double    EV
	Split     EV
	Surrender EV

	Optimal   Action
	OptimalEV float64
}

// EV returns the result for a single action
func (r Result) EV(a Action) EV {
	switch a {
	case ActionHit:
		return r.Hit
	case ActionStand:
		return r.Stand
	case ActionDouble:
		return r.Double
	case ActionSplit:
		return r.Split
	case ActionSurrender:
		return r.Surrender
	}
	return NotApplicable
}
