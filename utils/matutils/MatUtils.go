// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import "gonum.org/v1/gonum/mat"

// MaxVec finds and returns the index of the maximum value in a vector.
// If multiple equal max values exist, only the first one is returned.
// MaxVec panics if the vector is empty.
func MaxVec(values mat.Vector) int {
	if values.Len() == 0 {
		panic("maxVec: empty vector")
	}

	max, idx := values.AtVec(0), 0
	for i := 1; i < values.Len(); i++ {
		if v := values.AtVec(i); v > max {
			max, idx = v, i
		}
	}
	return idx
}
