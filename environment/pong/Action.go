package pong

import "fmt"

// Action is a paddle command
//
//	Action	Meaning
//	  0		Move the paddle up by PaddleStep
//	  1		Move the paddle down by PaddleStep
//	  2		Hold the paddle where it is
type Action int

const (
	Up Action = iota
	Down
	Hold
)

// NumActions is the number of actions available in every state
const NumActions int = 3

// Actions lists every action in index order
var Actions = [NumActions]Action{Up, Down, Hold}

// Valid returns whether a is one of Up, Down, or Hold
func (a Action) Valid() bool {
	return a >= Up && a <= Hold
}

func (a Action) String() string {
	switch a {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Hold:
		return "Hold"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}
