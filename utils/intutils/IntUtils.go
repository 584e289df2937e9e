// Package intutils provides utilities for working with ints
package intutils

// Clip clips an integer to within a minimum and maximum value.
// If the integer exceeds max, then the function returns the max
// If min exceeds the integer, then the function returns the min
func Clip(value, min, max int) int {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}
