// Package envconfig provides a JSON serializable configuration for the
// ball-and-paddle environment together with the discretization of its
// observations.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/tdpong/environment"
	"github.com/samuelfneumann/tdpong/environment/pong"
	"github.com/samuelfneumann/tdpong/environment/wrappers"
	ts "github.com/samuelfneumann/tdpong/timestep"
	"github.com/samuelfneumann/tdpong/utils/matutils/discretizer"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
)

// Config implements a configuration of the environment and task
type Config struct {
	// Resolution is M, the number of rows, columns, and paddle buckets
	// of the discretization
	Resolution int

	Discount   float64
	HitReward  float64
	MissReward float64

	// EpisodeCutoff is the maximum number of steps in an episode. If
	// 0, episodes only end when the ball is missed.
	EpisodeCutoff uint

	// StartBounds are the bounds of a uniform distribution over the
	// starting state, in observation order. If empty, every episode
	// starts from the fixed default state.
	StartBounds []r1.Interval `json:",omitempty"`
}

// Default returns the default environment Config
func Default() Config {
	return Config{
		Resolution: 25,
		Discount:   0.2,
		HitReward:  pong.HitReward,
		MissReward: pong.MissReward,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Resolution < 1 {
		return fmt.Errorf("resolution must be >= 1, have %v", c.Resolution)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1], have %v", c.Discount)
	}
	if len(c.StartBounds) != 0 && len(c.StartBounds) != pong.ObservationDims {
		return fmt.Errorf("start bounds must have %v intervals, have %v",
			pong.ObservationDims, len(c.StartBounds))
	}
	for i, bound := range c.StartBounds {
		if bound.Max < bound.Min {
			return fmt.Errorf("start bound %v has max %v < min %v", i,
				bound.Max, bound.Min)
		}
	}
	return nil
}

// Indexer returns the state indexer of the configured resolution
func (c Config) Indexer() (*discretizer.Indexer, error) {
	return discretizer.NewIndexer(c.Resolution)
}

// Create returns the environment described by the Config, wrapped so
// that its observations are state indices, along with the unwrapped
// environment and the first timestep of the wrapped environment.
func (c Config) Create(source rand.Source) (*wrappers.StateIndex, *pong.Pong,
	ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	var s env.Starter = pong.NewDefaultStarter()
	if len(c.StartBounds) != 0 {
		var err error
		s, err = pong.NewUniformStarter(c.StartBounds, source)
		if err != nil {
			return nil, nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
	}
	task := pong.NewRally(s, int(c.EpisodeCutoff), c.HitReward, c.MissReward)

	game, _, err := pong.New(task, c.Discount, source)
	if err != nil {
		return nil, nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	d, err := pong.NewDiscretizer(c.Resolution)
	if err != nil {
		return nil, nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	ix, err := c.Indexer()
	if err != nil {
		return nil, nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	wrapped, step, err := wrappers.NewStateIndex(game, d, ix)
	if err != nil {
		return nil, nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return wrapped, game, step, nil
}
