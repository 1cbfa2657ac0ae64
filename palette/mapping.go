package palette

import (
	"context"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cqt/internal/cache"
	"github.com/hupe1980/cqt/pixel"
)

const (
	// minChunk is the smallest pixel range handed to one mapping goroutine.
	minChunk = 4096
	// lookupCacheSize bounds the per-goroutine color to index cache.
	lookupCacheSize = 1024
)

// Mapping is the result of mapping pixels onto a palette.
type Mapping struct {
	// Indices holds the palette index chosen for each pixel.
	Indices []uint32
	// Used is the set of palette indices chosen at least once.
	Used *roaring.Bitmap
}

// NewMapping allocates a mapping for n pixels.
func NewMapping(n int) *Mapping {
	return &Mapping{
		Indices: make([]uint32, n),
		Used:    roaring.New(),
	}
}

// UsedCount returns the number of distinct palette entries used.
func (m *Mapping) UsedCount() int {
	return int(m.Used.GetCardinality())
}

// Apply writes p[Indices[i]] into dst[i].
func (m *Mapping) Apply(p Palette, dst []pixel.Pixel) {
	for i, idx := range m.Indices {
		dst[i] = p[idx]
	}
}

// Map assigns every pixel to its nearest palette entry. Pixels are mapped
// independently, in chunks, by up to parallelism goroutines. Values below one
// select GOMAXPROCS.
func Map(ctx context.Context, pixels []pixel.Pixel, p Palette, parallelism int) (*Mapping, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if parallelism < 1 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	m := NewMapping(len(pixels))
	chunk := max(minChunk, (len(pixels)+parallelism-1)/parallelism)
	nChunks := (len(pixels) + chunk - 1) / chunk
	used := make([]*roaring.Bitmap, nChunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for c := 0; c < nChunks; c++ {
		start := c * chunk
		end := min(start+chunk, len(pixels))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bm := roaring.New()
			lookup := cache.NewLRU[pixel.Pixel, uint32](lookupCacheSize)
			nearest := func(px pixel.Pixel) uint32 { return uint32(p.NearestIndex(px)) }
			for i := start; i < end; i++ {
				idx := lookup.GetOrCompute(pixels[i], nearest)
				m.Indices[i] = idx
				bm.Add(idx)
			}
			used[c] = bm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, bm := range used {
		m.Used.Or(bm)
	}
	return m, nil
}
