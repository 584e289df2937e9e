package td

import (
	"fmt"

	"github.com/samuelfneumann/tdpong/agent/tabular/table"
	"golang.org/x/exp/rand"
)

// Config represents a configuration for the TD agent
type Config struct {
	// LearningRateConstant is L in the learning rate L / (L - 1 + n)
	// for a state-action pair updated n times
	LearningRateConstant float64

	// ExplorationThreshold is the number of times each action must be
	// attempted in a state before the agent acts greedily there
	ExplorationThreshold int
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.LearningRateConstant <= 0 {
		return fmt.Errorf("learning rate constant must be > 0, have %v",
			c.LearningRateConstant)
	}
	if c.ExplorationThreshold < 1 {
		return fmt.Errorf("exploration threshold must be >= 1, have %v",
			c.ExplorationThreshold)
	}
	return nil
}

// CreateAgent creates a TD agent learning the utilities in t
func (c Config) CreateAgent(t *table.Table, source rand.Source) (*TD, error) {
	return New(t, c, source)
}
