package distance

import (
	"math"

	"github.com/hupe1980/cqt/pixel"
)

// SquaredEuclidean returns Δr²+Δg²+Δb².
func SquaredEuclidean(a, b pixel.Pixel) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return d0*d0 + d1*d1 + d2*d2
}

// Euclidean returns sqrt(Δr²+Δg²+Δb²).
func Euclidean(a, b pixel.Pixel) float64 {
	return math.Sqrt(SquaredEuclidean(a, b))
}
