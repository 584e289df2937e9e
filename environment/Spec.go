package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType names the quantity a Spec describes
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	case Discount:
		return "Discount"
	default:
		return "Reward"
	}
}

// Cardinality determines whether the values of a Spec are discrete or
// continuous
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec gives the dimension and elementwise bounds of an action,
// observation, discount, or reward. Bounds are inclusive.
type Spec struct {
	Type       SpecType
	Dims       int
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new Spec of dimension dims. NewSpec panics if
// either bound does not have dims elements or if a lower bound
// exceeds its upper bound.
func NewSpec(dims int, t SpecType, lowerBound, upperBound mat.Vector,
	cardinality Cardinality) Spec {
	if lowerBound.Len() != dims {
		panic(fmt.Sprintf("newSpec: lower bound length %v must equal "+
			"dimension %v", lowerBound.Len(), dims))
	}
	if upperBound.Len() != dims {
		panic(fmt.Sprintf("newSpec: upper bound length %v must equal "+
			"dimension %v", upperBound.Len(), dims))
	}
	for i := 0; i < dims; i++ {
		if lowerBound.AtVec(i) > upperBound.AtVec(i) {
			panic(fmt.Sprintf("newSpec: lower bound %v exceeds upper "+
				"bound %v at %v", lowerBound.AtVec(i), upperBound.AtVec(i), i))
		}
	}
	return Spec{t, dims, lowerBound, upperBound, cardinality}
}

// Contains returns whether v lies within the Spec's bounds. Discrete
// Specs additionally require every element of v to be integral.
func (s Spec) Contains(v mat.Vector) bool {
	if v.Len() != s.Dims {
		return false
	}
	for i := 0; i < s.Dims; i++ {
		x := v.AtVec(i)
		if x < s.LowerBound.AtVec(i) || x > s.UpperBound.AtVec(i) {
			return false
		}
		if s.Cardinality == Discrete && x != float64(int(x)) {
			return false
		}
	}
	return true
}

// Size returns the number of distinct values of a one-dimensional
// discrete Spec, or -1 for any other Spec
func (s Spec) Size() int {
	if s.Cardinality != Discrete || s.Dims != 1 {
		return -1
	}
	return int(s.UpperBound.AtVec(0)-s.LowerBound.AtVec(0)) + 1
}

func (s Spec) String() string {
	return fmt.Sprintf("Spec | %v  |  %v  |  Dims: %v", s.Type,
		s.Cardinality, s.Dims)
}
