package pong

import (
	"fmt"

	"golang.org/x/exp/rand"

	env "github.com/samuelfneumann/tdpong/environment"
	ts "github.com/samuelfneumann/tdpong/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Default rewards for returning and missing the ball
	HitReward  float64 = 1.0
	MissReward float64 = -1.0
)

// Rally implements the task of keeping the ball in play. The agent
// receives a reward of hit when the paddle returns the ball, a reward
// of miss when the ball passes the paddle, and 0 otherwise.
//
// Episodes end when the ball is missed, which is the terminal state,
// or after an optional step limit, which is not.
type Rally struct {
	env.Starter
	stepLimiter *env.StepLimit
	hit, miss   float64
}

// NewRally creates and returns a new Rally task. An episodeSteps of 0
// places no limit on episode length.
func NewRally(s env.Starter, episodeSteps int, hit, miss float64) *Rally {
	return &Rally{
		Starter:     s,
		stepLimiter: env.NewStepLimit(episodeSteps),
		hit:         hit,
		miss:        miss,
	}
}

// GetReward returns the reward for a transition on which event
// occurred
func (r *Rally) GetReward(event ts.Event) float64 {
	switch event {
	case ts.Hit:
		return r.hit
	case ts.Miss:
		return r.miss
	default:
		return 0
	}
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true. Otherwise,
// the function does not adjust the TimeStep and returns false.
func (r *Rally) End(t *ts.TimeStep) bool {
	if t.Event == ts.Miss {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return r.stepLimiter.End(t)
}

// Min returns the minimum possible reward that can be received in the
// environment
func (r *Rally) Min() float64 {
	return min(r.hit, r.miss, 0)
}

// Max returns the maximum possible reward that can be received in the
// environment
func (r *Rally) Max() float64 {
	return max(r.hit, r.miss, 0)
}

// StartBounds returns the bounds of a starting-state distribution that
// always starts from the default starting state
func StartBounds() []r1.Interval {
	return []r1.Interval{
		XIndex:         {Min: StartX, Max: StartX},
		YIndex:         {Min: StartY, Max: StartY},
		XVelocityIndex: {Min: StartXVelocity, Max: StartXVelocity},
		YVelocityIndex: {Min: StartYVelocity, Max: StartYVelocity},
		PaddleIndex:    {Min: StartPaddle, Max: StartPaddle},
	}
}

// NewDefaultStarter returns a Starter which always returns the default
// starting state
func NewDefaultStarter() env.Starter {
	return fixedStart{mat.NewVecDense(ObservationDims, []float64{
		StartX, StartY, StartXVelocity, StartYVelocity, StartPaddle,
	})}
}

// NewUniformStarter returns a Starter sampling each feature uniformly
// from bounds, which must have one interval per observation feature
func NewUniformStarter(bounds []r1.Interval,
	src rand.Source) (env.Starter, error) {
	if len(bounds) != ObservationDims {
		return nil, fmt.Errorf("newUniformStarter: need %v bounds, have %v",
			ObservationDims, len(bounds))
	}
	s, err := env.NewUniformStarter(bounds, src)
	if err != nil {
		return nil, err
	}
	return s, nil
}

type fixedStart struct {
	state *mat.VecDense
}

func (f fixedStart) Start() *mat.VecDense {
	return mat.VecDenseCopyOf(f.state)
}
