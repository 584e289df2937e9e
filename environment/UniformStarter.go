package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a box. An
// interval whose Min equals its Max fixes that feature, so a fully
// degenerate box always returns the same starting state.
type UniformStarter struct {
	features int
	bounds   []r1.Interval
	rand     *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter sampling feature i
// from bounds[i] using the argument source of randomness
func NewUniformStarter(bounds []r1.Interval,
	src rand.Source) (*UniformStarter, error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("newUniformStarter: no bounds given")
	}
	for i, b := range bounds {
		if b.Max < b.Min {
			return nil, fmt.Errorf("newUniformStarter: bound %d has "+
				"max %v < min %v", i, b.Max, b.Min)
		}
	}
	u := distmv.NewUniform(bounds, src)

	return &UniformStarter{len(bounds), bounds, u}, nil
}

// Start returns a starting state vector
func (u *UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}

// Bounds returns the intervals from which starting states are sampled
func (u *UniformStarter) Bounds() []r1.Interval {
	bounds := make([]r1.Interval, len(u.bounds))
	copy(bounds, u.bounds)
	return bounds
}
