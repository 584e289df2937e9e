// Package td implements a tabular temporal-difference control agent
// with count-based exploration.
//
// After each action the utility of the previous state-action pair is
// moved towards the one-step target
//
//	reward + γ·max_a' U(s', a')
//
// with a learning rate that decays with the number of times the pair
// has been updated. The agent explores by trying every action in a
// state a fixed number of times before acting greedily there.
package td

import (
	"fmt"

	"github.com/samuelfneumann/tdpong/agent"
	"github.com/samuelfneumann/tdpong/agent/tabular/policy"
	"github.com/samuelfneumann/tdpong/agent/tabular/table"
	"golang.org/x/exp/rand"
)

var _ agent.Agent = &TD{}

// TD implements the tabular TD agent
type TD struct {
	*Learner
	*policy.CountBased
}

// New creates a new TD agent learning the utilities in t
func New(t *table.Table, c Config, source rand.Source) (*TD, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	behaviour, err := policy.NewCountBased(t, c.ExplorationThreshold, source)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	learner := NewLearner(t, c.LearningRateConstant)

	return &TD{Learner: learner, CountBased: behaviour}, nil
}

// Eval sets the agent to evaluation mode. In evaluation mode actions
// are greedy and the utilities are not updated.
func (t *TD) Eval() {
	t.Learner.Eval()
	t.CountBased.Eval()
}

// Train sets the agent to training mode
func (t *TD) Train() {
	t.Learner.Train()
	t.CountBased.Train()
}

// IsEval returns whether the agent is in evaluation mode
func (t *TD) IsEval() bool {
	return t.CountBased.IsEval()
}
