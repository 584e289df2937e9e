// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"

	"github.com/samuelfneumann/tdpong/environment"
	ts "github.com/samuelfneumann/tdpong/timestep"
	"github.com/samuelfneumann/tdpong/utils/matutils/discretizer"
	"gonum.org/v1/gonum/mat"
)

// Discretizer maps a continuous observation to a discrete state
type Discretizer interface {
	Discretize(obs mat.Vector) discretizer.State
}

// StateIndex wraps an environment and returns as observations of the
// environment states a 1-dimensional vector holding the index of the
// discretized observation. For example, if some environment state is
// discretized to the state with index 1234, then this struct would
// return the vector [1234] as the state observation.
//
// Whenever the wrapped environment enters its terminal state, the
// observation is the Indexer's reserved terminal index, no matter what
// the continuous observation was. Episodes cut off by a step limit are
// not terminal and keep the index of their final state.
//
// StateIndex itself implements the environment.Environment interface
// and is therefore itself an environment.
type StateIndex struct {
	environment.Environment
	discretizer Discretizer
	indexer     *discretizer.Indexer
}

// NewStateIndex creates and returns a new StateIndex environment,
// wrapping an existing environment. The wrapped environment is reset
// when wrapped by calling the wrapped environment's Reset() method.
func NewStateIndex(env environment.Environment, d Discretizer,
	ix *discretizer.Indexer) (*StateIndex, ts.TimeStep, error) {
	s := &StateIndex{env, d, ix}

	step, err := s.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newStateIndex: %w", err)
	}
	return s, step, nil
}

// Reset resets the environment to some starting state
func (s *StateIndex) Reset() (ts.TimeStep, error) {
	step, err := s.Environment.Reset()
	if err != nil {
		return step, err
	}
	return s.encode(step), nil
}

// Step takes one environmental step given action a and returns the next
// state as a timestep.TimeStep and a bool indicating whether or not the
// episode has ended
func (s *StateIndex) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	step, last, err := s.Environment.Step(a)
	if err != nil {
		return step, last, err
	}
	return s.encode(step), last, nil
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment, with its observation indexed
func (s *StateIndex) CurrentTimeStep() ts.TimeStep {
	return s.encode(s.Environment.CurrentTimeStep())
}

// Index returns the index of a timestep's continuous observation
func (s *StateIndex) Index(step ts.TimeStep) discretizer.StateIndex {
	if step.Terminal() {
		return s.indexer.Terminal()
	}
	return s.indexer.Index(s.discretizer.Discretize(step.Observation))
}

// Indexer returns the Indexer used to index states
func (s *StateIndex) Indexer() *discretizer.Indexer {
	return s.indexer
}

// ObservationSpec returns the observation specification of the
// environment
func (s *StateIndex) ObservationSpec() environment.Spec {
	lowerBound := mat.NewVecDense(1, nil)
	upperBound := mat.NewVecDense(1, []float64{float64(s.indexer.Terminal())})

	return environment.NewSpec(1, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// String returns a string representation of the StateIndex environment
func (s *StateIndex) String() string {
	return fmt.Sprintf("StateIndex: %v", s.Environment)
}

// encode replaces the observation of a timestep with its index. The
// argument timestep's observation is not modified.
func (s *StateIndex) encode(step ts.TimeStep) ts.TimeStep {
	index := s.Index(step)
	step.Observation = mat.NewVecDense(1, []float64{float64(index)})
	return step
}
