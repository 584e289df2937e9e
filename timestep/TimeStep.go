// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended. It is only meaningful on the
// last TimeStep of an episode.
type EndType int

const (
	Unknown EndType = iota

	// TerminalStateReached indicates the environment entered its
	// absorbing terminal state
	TerminalStateReached

	// Timeout indicates the episode was cut off at a step limit and
	// the final state is not terminal
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Event records what happened to the ball on the transition into a
// TimeStep. At most one event occurs per transition.
type Event int

const (
	NoEvent Event = iota
	Hit
	Miss
)

func (e Event) String() string {
	switch e {
	case Hit:
		return "Hit"
	case Miss:
		return "Miss"
	default:
		return "None"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	Reward      float64
	Discount    float64
	Observation *mat.VecDense
	Number      int
	Event       Event
	endType     EndType
}

// New constructs a new TimeStep
func New(t StepType, r, d float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Discount: d, Observation: o,
		Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd sets the reason the episode ended. SetEnd panics if the
// TimeStep is not the last in its episode.
func (t *TimeStep) SetEnd(e EndType) {
	if !t.Last() {
		panic("setEnd: cannot set end type of non-last timestep")
	}
	t.endType = e
}

// EndType returns why the episode ended, or Unknown if the TimeStep
// is not the last in its episode
func (t *TimeStep) EndType() EndType {
	if !t.Last() {
		return Unknown
	}
	return t.endType
}

// Terminal returns whether the TimeStep is the absorbing terminal
// state of an episode
func (t *TimeStep) Terminal() bool {
	return t.EndType() == TerminalStateReached
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  Event: %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number,
		t.Event)
}
