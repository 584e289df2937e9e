package pong

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/tdpong/utils/intutils"
	"github.com/samuelfneumann/tdpong/utils/matutils/discretizer"
	"gonum.org/v1/gonum/mat"
)

// FlatYSpeed is the y speed below which the ball is considered to be
// moving neither up nor down
const FlatYSpeed float64 = 0.015

// Discretizer maps continuous Pong observations onto a grid with
// Resolution rows, columns, and paddle buckets. Coordinates falling
// outside the grid are clamped onto its edge.
type Discretizer struct {
	Resolution int
}

// NewDiscretizer returns a new Discretizer with resolution m
func NewDiscretizer(m int) (Discretizer, error) {
	if m < 1 {
		return Discretizer{}, fmt.Errorf("newDiscretizer: resolution "+
			"must be >= 1, have %v", m)
	}
	return Discretizer{m}, nil
}

// Discretize returns the discrete state of a Pong observation
func (d Discretizer) Discretize(obs mat.Vector) discretizer.State {
	m := d.Resolution
	bucket := func(scaled float64) int {
		return intutils.Clip(int(math.Floor(scaled)), 0, m-1)
	}
	scale := float64(m)

	xVelocity := discretizer.Away
	if obs.AtVec(XVelocityIndex) > 0 {
		xVelocity = discretizer.Towards
	}

	yVelocity := obs.AtVec(YVelocityIndex)
	ySign := discretizer.Down
	if math.Abs(yVelocity) < FlatYSpeed {
		ySign = discretizer.Flat
	} else if yVelocity <= -FlatYSpeed {
		ySign = discretizer.Up
	}

	return discretizer.State{
		Row:       bucket(scale * obs.AtVec(YIndex)),
		Column:    bucket(scale * obs.AtVec(XIndex)),
		XVelocity: xVelocity,
		YVelocity: ySign,
		Paddle:    bucket(scale * obs.AtVec(PaddleIndex) / MaxPaddle),
	}
}

// DiscretizeSnapshot returns the discrete state of a snapshot
func (d Discretizer) DiscretizeSnapshot(s Snapshot) discretizer.State {
	obs := mat.NewVecDense(ObservationDims, []float64{
		s.X, s.Y, s.XVelocity, s.YVelocity, s.Paddle,
	})
	return d.Discretize(obs)
}
