package quantization

import (
	"cmp"
	"slices"

	"github.com/hupe1980/cqt/pixel"
)

// Project returns the score (p−mean)·axis for every pixel, in input order.
func Project(pixels []pixel.Pixel, mean pixel.Pixel, axis [3]float64) []float64 {
	scores := make([]float64, len(pixels))
	for i, p := range pixels {
		scores[i] = (p[0]-mean[0])*axis[0] + (p[1]-mean[1])*axis[1] + (p[2]-mean[2])*axis[2]
	}
	return scores
}

// SortByScore sorts pixels and scores jointly by ascending score. It sorts an
// index permutation and gathers both sequences through it, so the returned
// slices are fresh and the inputs are left untouched. Equal scores keep their
// input order.
func SortByScore(pixels []pixel.Pixel, scores []float64) ([]pixel.Pixel, []float64) {
	perm := make([]int, len(scores))
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		return cmp.Compare(scores[a], scores[b])
	})

	sortedPixels := make([]pixel.Pixel, len(perm))
	sortedScores := make([]float64, len(perm))
	for i, j := range perm {
		sortedPixels[i] = pixels[j]
		sortedScores[i] = scores[j]
	}
	return sortedPixels, sortedScores
}
