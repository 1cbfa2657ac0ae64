package quantization

import (
	"cmp"
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cqt/pixel"
	"github.com/hupe1980/cqt/testutil"
)

func sortedPixels(ps []pixel.Pixel) []pixel.Pixel {
	out := slices.Clone(ps)
	slices.SortFunc(out, func(a, b pixel.Pixel) int {
		for i := range 3 {
			if c := cmp.Compare(a[i], b[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func TestPartitionConservation(t *testing.T) {
	rng := testutil.NewRNG(7)
	buf := rng.UniformBuffer(40, 30)

	var rounds []int
	clusters, err := Partition(context.Background(), buf.Pix, 16,
		WithRoundObserver(func(n, target int) {
			assert.Equal(t, 16, target)
			rounds = append(rounds, n)
		}),
	)
	require.NoError(t, err)
	require.Len(t, clusters, 16)

	var all []pixel.Pixel
	for _, c := range clusters {
		assert.Positive(t, c.Len())
		all = append(all, c.Pixels()...)
	}
	assert.Equal(t, sortedPixels(buf.Pix), sortedPixels(all))

	// One split per round: 2, 3, ..., 16.
	require.Len(t, rounds, 15)
	for i, n := range rounds {
		assert.Equal(t, i+2, n)
	}
}

func TestPartitionPaletteSize(t *testing.T) {
	rng := testutil.NewRNG(11)

	for _, target := range []int{1, 2, 5, 8, 32} {
		buf := rng.UniformBuffer(32, 32)
		clusters, err := Partition(context.Background(), buf.Pix, target)
		require.NoError(t, err)
		assert.Len(t, clusters, target)
		assert.Len(t, ReducePalette(clusters), target)
	}
}

func TestPartitionFewDistinctColors(t *testing.T) {
	colors := []pixel.Pixel{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	pixels := make([]pixel.Pixel, 300)
	for i := range pixels {
		pixels[i] = colors[(i*7)%3]
	}

	clusters, err := Partition(context.Background(), pixels, 8)
	require.NoError(t, err)
	require.Len(t, clusters, 3, "stops once every cluster is a single color")

	pal := ReducePalette(clusters)
	assert.ElementsMatch(t, colors, []pixel.Pixel(pal))
}

func TestPartitionSolidImage(t *testing.T) {
	buf := testutil.Solid(10, 10, pixel.Pixel{9, 8, 7})
	clusters, err := Partition(context.Background(), buf.Pix, 4)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, pixel.Pixel{9, 8, 7}, clusters[0].Mean())
}

func TestPartitionSinglePixel(t *testing.T) {
	clusters, err := Partition(context.Background(), []pixel.Pixel{{1, 2, 3}}, 4)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, pixel.Pixel{1, 2, 3}, ReducePalette(clusters)[0])
}

func TestPartitionDeterministicAcrossParallelism(t *testing.T) {
	rng := testutil.NewRNG(3)
	buf := rng.ClusteredBuffer(50, 50, []pixel.Pixel{{10, 200, 30}, {200, 40, 90}, {90, 90, 250}, {240, 240, 10}}, 12)

	var want []pixel.Pixel
	for _, par := range []int{1, 2, 8} {
		clusters, err := Partition(context.Background(), buf.Pix, 12, WithParallelism(par))
		require.NoError(t, err)
		got := []pixel.Pixel(ReducePalette(clusters))
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, "parallelism %d", par)
	}
}

func TestPartitionDoesNotModifyInput(t *testing.T) {
	rng := testutil.NewRNG(5)
	buf := rng.UniformBuffer(10, 10)
	orig := buf.Clone()

	_, err := Partition(context.Background(), buf.Pix, 6)
	require.NoError(t, err)
	assert.Equal(t, orig.Pix, buf.Pix)
}

func TestPartitionErrors(t *testing.T) {
	_, err := Partition(context.Background(), []pixel.Pixel{{}}, 0)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = Partition(context.Background(), nil, 4)
	assert.ErrorIs(t, err, ErrEmptyInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Partition(ctx, testutil.Gradient(8, 8).Pix, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReducePaletteOrder(t *testing.T) {
	clusters := []*Cluster{
		NewCluster([]pixel.Pixel{{0, 0, 0}, {2, 2, 2}}),
		NewCluster([]pixel.Pixel{{100, 0, 0}}),
	}
	pal := ReducePalette(clusters)
	assert.Equal(t, pixel.Pixel{1, 1, 1}, pal[0])
	assert.Equal(t, pixel.Pixel{100, 0, 0}, pal[1])
}

func BenchmarkPartition(b *testing.B) {
	buf := testutil.NewRNG(1).UniformBuffer(256, 256)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Partition(context.Background(), buf.Pix, 16); err != nil {
			b.Fatal(err)
		}
	}
}
