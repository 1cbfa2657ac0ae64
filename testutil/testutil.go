package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/cqt/pixel"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Pixel returns a uniformly random 8-bit color.
func (r *RNG) Pixel() pixel.Pixel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pixelLocked()
}

func (r *RNG) pixelLocked() pixel.Pixel {
	return pixel.Pixel{
		float64(r.rand.Intn(256)),
		float64(r.rand.Intn(256)),
		float64(r.rand.Intn(256)),
	}
}

// UniformBuffer returns a width×height buffer of uniformly random 8-bit colors.
func (r *RNG) UniformBuffer(width, height int) *pixel.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := pixel.NewBuffer(width, height)
	for i := range buf.Pix {
		buf.Pix[i] = r.pixelLocked()
	}
	return buf
}

// ClusteredBuffer returns a buffer whose pixels are drawn round-robin from
// Gaussian blobs around centers with the given standard deviation. Channels
// are rounded and clamped to [0,255].
func (r *RNG) ClusteredBuffer(width, height int, centers []pixel.Pixel, spread float64) *pixel.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := pixel.NewBuffer(width, height)
	for i := range buf.Pix {
		c := centers[i%len(centers)]
		for ch := range 3 {
			buf.Pix[i][ch] = float64(pixel.To8(c[ch] + r.rand.NormFloat64()*spread))
		}
	}
	return buf
}

// Gradient returns a deterministic RGB ramp: red grows left to right, green
// top to bottom, blue along the diagonal.
func Gradient(width, height int) *pixel.Buffer {
	buf := pixel.NewBuffer(width, height)
	for y := range height {
		for x := range width {
			buf.Pix[y*width+x] = pixel.Pixel{
				float64(x * 255 / max(1, width-1)),
				float64(y * 255 / max(1, height-1)),
				float64((x + y) * 255 / max(1, width+height-2)),
			}
		}
	}
	return buf
}

// Solid returns a buffer filled with c.
func Solid(width, height int, c pixel.Pixel) *pixel.Buffer {
	buf := pixel.NewBuffer(width, height)
	for i := range buf.Pix {
		buf.Pix[i] = c
	}
	return buf
}
