// Package distance provides color distance calculations.
//
// Only Euclidean distance in RGB space is supported:
//
//	d := distance.Euclidean(a, b) // sqrt(Δr²+Δg²+Δb²)
package distance
