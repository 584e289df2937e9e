package td

import (
	"fmt"

	"github.com/samuelfneumann/tdpong/agent/tabular/table"
	"github.com/samuelfneumann/tdpong/environment/pong"
	ts "github.com/samuelfneumann/tdpong/timestep"
	"github.com/samuelfneumann/tdpong/utils/matutils/discretizer"
	"gonum.org/v1/gonum/mat"
)

// LearningRate returns the learning rate of a state-action pair which
// has been updated attempts times, counting the current update
func LearningRate(l float64, attempts int) float64 {
	return l / (l - 1 + float64(attempts))
}

// Learner implements the update of the TD agent
type Learner struct {
	table    *table.Table
	constant float64
	disabled bool

	step     ts.TimeStep
	action   pong.Action
	nextStep ts.TimeStep
	ready    bool // whether a transition has been observed
}

// NewLearner creates a new Learner updating the utilities in t with
// learning rate constant l
func NewLearner(t *table.Table, l float64) *Learner {
	return &Learner{table: t, constant: l}
}

// ObserveFirst observes and records the first episodic timestep
func (l *Learner) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: timestep is not first (step "+
			"number %v)", t.Number)
	}
	l.step = ts.TimeStep{}
	l.nextStep = t
	l.ready = false
	return nil
}

// Observe observes and records any timestep other than the first
// timestep, along with the action taken to reach it
func (l *Learner) Observe(action *mat.VecDense, nextStep ts.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: actions must be 1-dimensional, have "+
			"dimension %v", action.Len())
	}
	a := pong.Action(action.AtVec(0))
	if !a.Valid() {
		return fmt.Errorf("observe: illegal action %v", action.AtVec(0))
	}

	l.step = l.nextStep
	l.action = a
	l.nextStep = nextStep
	l.ready = true
	return nil
}

// Step updates the utility of the last observed state-action pair. If
// the next state is terminal, the terminal utilities are first set to
// table.TerminalUtility. Step does nothing in evaluation mode.
func (l *Learner) Step() error {
	if l.disabled || !l.ready {
		return nil
	}

	state := discretizer.StateIndex(l.step.Observation.AtVec(0))
	next := discretizer.StateIndex(l.nextStep.Observation.AtVec(0))
	if l.nextStep.Terminal() {
		if next != l.table.Terminal() {
			return fmt.Errorf("step: terminal timestep has non-terminal "+
				"index %v", next)
		}
		l.table.SetTerminal()
	}

	entry := l.table.Visit(state, l.action)
	alpha := LearningRate(l.constant, entry.Attempts)

	target := l.nextStep.Reward + l.nextStep.Discount*l.table.Best(next)
	l.table.SetUtility(state, l.action,
		entry.Utility+alpha*(target-entry.Utility))

	l.ready = false
	return nil
}

// EndEpisode forgets the last observed transition
func (l *Learner) EndEpisode() {
	l.step = ts.TimeStep{}
	l.nextStep = ts.TimeStep{}
	l.ready = false
}

// Eval disables updates
func (l *Learner) Eval() {
	l.disabled = true
}

// Train enables updates
func (l *Learner) Train() {
	l.disabled = false
}

// IsEval returns whether updates are disabled
func (l *Learner) IsEval() bool {
	return l.disabled
}

// Table returns the utility table updated by the Learner
func (l *Learner) Table() *table.Table {
	return l.table
}
