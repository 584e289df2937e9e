// Package policy implements policies over a tabular utility function
package policy

import (
	"fmt"

	"github.com/samuelfneumann/tdpong/agent/tabular/table"
	"github.com/samuelfneumann/tdpong/environment/pong"
	ts "github.com/samuelfneumann/tdpong/timestep"
	"github.com/samuelfneumann/tdpong/utils/matutils/discretizer"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CountBased implements a count-based exploration policy. While
// training, any action attempted fewer than threshold times in the
// current state is selected uniformly at random from the set of such
// actions. Once every action in a state has been attempted at least
// threshold times, or when in evaluation mode, the greedy action is
// selected.
type CountBased struct {
	table     *table.Table
	threshold int
	source    rand.Source
	eval      bool
	greedy    bool // permanently in evaluation mode
}

// NewCountBased returns a new CountBased policy selecting actions
// from the utilities in t
func NewCountBased(t *table.Table, threshold int,
	source rand.Source) (*CountBased, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("newCountBased: threshold must be >= 1, "+
			"have %v", threshold)
	}
	if source == nil {
		return nil, fmt.Errorf("newCountBased: source cannot be nil")
	}
	return &CountBased{table: t, threshold: threshold, source: source}, nil
}

// NewGreedy returns a policy which always selects the greedy action
// from the utilities in t. The returned policy cannot be switched to
// training mode.
func NewGreedy(t *table.Table) *CountBased {
	return &CountBased{table: t, threshold: 1, eval: true, greedy: true}
}

// NumBelowThreshold returns the number of actions in state s which
// have been attempted fewer than threshold times
func (p *CountBased) NumBelowThreshold(s discretizer.StateIndex) int {
	return p.table.NumBelow(s, p.threshold)
}

// ChooseAction chooses an action to take in state s
func (p *CountBased) ChooseAction(s discretizer.StateIndex,
	training bool) pong.Action {
	if !training || p.greedy {
		return p.table.Greedy(s)
	}

	below := p.table.Below(s, p.threshold)
	if len(below) == 0 {
		return p.table.Greedy(s)
	}

	weights := make([]float64, pong.NumActions)
	for _, a := range below {
		weights[a] = 1.0
	}
	dist := distuv.NewCategorical(weights, p.source)
	return pong.Action(dist.Rand())
}

// SelectAction selects an action in the state observed in t. The
// observation of t must be a 1-dimensional vector holding a state
// index.
func (p *CountBased) SelectAction(t ts.TimeStep) *mat.VecDense {
	if t.Observation.Len() != 1 {
		panic(fmt.Sprintf("selectAction: observation must be a state index, "+
			"have vector of length %v", t.Observation.Len()))
	}
	s := discretizer.StateIndex(t.Observation.AtVec(0))

	a := p.ChooseAction(s, !p.eval)
	return mat.NewVecDense(1, []float64{float64(a)})
}

// Threshold returns the exploration threshold
func (p *CountBased) Threshold() int {
	return p.threshold
}

// Eval sets the policy to evaluation mode
func (p *CountBased) Eval() {
	p.eval = true
}

// Train sets the policy to training mode. Train has no effect on a
// policy created with NewGreedy.
func (p *CountBased) Train() {
	if !p.greedy {
		p.eval = false
	}
}

// IsEval returns whether the policy is in evaluation mode
func (p *CountBased) IsEval() bool {
	return p.eval
}
