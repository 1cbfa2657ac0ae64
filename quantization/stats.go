package quantization

import (
	"github.com/hupe1980/cqt/internal/linalg"
	"github.com/hupe1980/cqt/pixel"
)

// minEigenvalue is the spread below which a cluster is treated as a single color.
const minEigenvalue = 1e-9

// Stats holds the derived statistics of a cluster.
type Stats struct {
	Mean        pixel.Pixel
	Covariance  [3][3]float64
	Eigenvalue  float64    // largest eigenvalue of Covariance
	Eigenvector [3]float64 // unit, first nonzero component positive
}

// ComputeStats returns the mean, covariance and dominant eigenpair of pixels.
func ComputeStats(pixels []pixel.Pixel) (Stats, error) {
	if len(pixels) < 2 {
		return Stats{}, ErrDegenerateCluster
	}

	mean := linalg.Mean(pixels)
	cov := linalg.Covariance(pixels, mean)
	lambda, vec := linalg.DominantEigen(cov)

	return Stats{
		Mean:        pixel.Pixel(mean),
		Covariance:  [3][3]float64(cov),
		Eigenvalue:  lambda,
		Eigenvector: [3]float64(vec),
	}, nil
}

// Cluster is an immutable set of pixels together with its cached statistics.
type Cluster struct {
	pixels []pixel.Pixel
	stats  *Stats
}

// NewCluster wraps pixels. The slice is owned by the cluster afterwards.
func NewCluster(pixels []pixel.Pixel) *Cluster {
	return &Cluster{pixels: pixels}
}

// Pixels returns the cluster's pixels. Callers must not modify them.
func (c *Cluster) Pixels() []pixel.Pixel { return c.pixels }

// Len returns the pixel count.
func (c *Cluster) Len() int { return len(c.pixels) }

// Stats returns the cached statistics, if computed.
func (c *Cluster) Stats() (Stats, bool) {
	if c.stats == nil {
		return Stats{}, false
	}
	return *c.stats, true
}

// Mean returns the component-wise mean color.
func (c *Cluster) Mean() pixel.Pixel {
	if c.stats != nil {
		return c.stats.Mean
	}
	return pixel.Pixel(linalg.Mean(c.pixels))
}

// ensureStats computes and caches statistics. Clusters with fewer than two
// pixels are left without statistics.
func (c *Cluster) ensureStats() {
	if c.stats != nil || len(c.pixels) < 2 {
		return
	}
	s, err := ComputeStats(c.pixels)
	if err != nil {
		return
	}
	c.stats = &s
}

// splittable reports whether the cluster may be selected for splitting.
func (c *Cluster) splittable() bool {
	return c.stats != nil && len(c.pixels) >= 2 && c.stats.Eigenvalue > minEigenvalue
}
