// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	ts "github.com/samuelfneumann/tdpong/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode ends. If the episode should end,
// End modifies the argument TimeStep so that its StepType is
// timestep.Last and records the reason the episode ended.
type Ender interface {
	End(*ts.TimeStep) bool
}

// Task implements the reward scheme for transitions in an environment
// as well as the starting-state distribution and episode termination
type Task interface {
	Starter
	Ender
	GetReward(event ts.Event) float64
	Min() float64 // Minimum possible reward
	Max() float64 // Maximum possible reward
}

// Environment implements a simualted environment, which includes a
// Task to complete
type Environment interface {
	Task
	Reset() (ts.TimeStep, error)
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)
	CurrentTimeStep() ts.TimeStep
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
