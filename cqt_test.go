package cqt

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cqt/codec"
	"github.com/hupe1980/cqt/dither"
	"github.com/hupe1980/cqt/palette"
	"github.com/hupe1980/cqt/pixel"
	"github.com/hupe1980/cqt/quantization"
	"github.com/hupe1980/cqt/testutil"
)

var blobCenters = []pixel.Pixel{
	{230, 30, 30},
	{30, 200, 40},
	{20, 40, 220},
	{240, 240, 240},
}

func assertClosure(t *testing.T, res *Result) {
	t.Helper()
	require.Len(t, res.Indices, res.Width*res.Height)
	for _, idx := range res.Indices {
		require.Less(t, int(idx), len(res.Palette))
	}
	out := res.Buffer()
	for i, p := range out.Pix {
		require.Equal(t, res.Palette[res.Indices[i]], p)
	}
}

func TestQuantize(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(7)
	buf := rng.ClusteredBuffer(64, 64, blobCenters, 6)
	orig := buf.Clone()

	obs := &BasicObserver{}
	res, err := Quantize(ctx, buf, WithColors(4), WithObserver(obs))
	require.NoError(t, err)

	assert.Len(t, res.Palette, 4)
	assert.Equal(t, 4, res.Target)
	assert.False(t, res.Truncated)
	assert.False(t, res.Fixed)
	assertClosure(t, res)
	assert.Equal(t, 4, res.UsedColors())
	assert.Equal(t, orig, buf)

	// Each blob gets its own palette entry.
	for _, c := range blobCenters {
		nearest := res.Palette.Nearest(c)
		for ch := range 3 {
			assert.InDelta(t, c[ch], nearest[ch], 10)
		}
	}

	stats := obs.Stats()
	assert.Equal(t, int64(3), stats.Rounds)
	assert.Equal(t, int64(1), stats.Palettes)
	assert.Equal(t, int64(0), stats.Truncated)
	assert.Equal(t, int64(1), stats.Mapped)
	assert.Equal(t, int64(0), stats.Dithered)
}

func TestQuantize_DefaultColors(t *testing.T) {
	res, err := Quantize(context.Background(), testutil.Gradient(64, 64))
	require.NoError(t, err)
	assert.Len(t, res.Palette, DefaultColors)
	assert.Equal(t, DefaultColors, res.Target)
}

func TestQuantize_SolidImageIsTruncated(t *testing.T) {
	c := pixel.Pixel{10, 20, 30}
	res, err := Quantize(context.Background(), testutil.Solid(8, 8, c), WithColors(16))
	require.NoError(t, err)

	assert.Equal(t, palette.Palette{c}, res.Palette)
	assert.True(t, res.Truncated)
	assert.Equal(t, 1, res.UsedColors())
	assertClosure(t, res)
}

func TestQuantize_FixedPalette(t *testing.T) {
	p := palette.Palette{{255, 0, 0}, {0, 102, 0}, {204, 255, 204}}
	buf := &pixel.Buffer{Pix: []pixel.Pixel{{255, 0, 127}, {10, 90, 10}}, Width: 2, Height: 1}

	res, err := Quantize(context.Background(), buf, WithPalette(p), WithColors(99))
	require.NoError(t, err)

	assert.True(t, res.Fixed)
	assert.Equal(t, 3, res.Target)
	assert.False(t, res.Truncated)
	assert.Equal(t, []uint32{0, 1}, res.Indices)
	assert.Equal(t, 2, res.UsedColors())
	assert.Equal(t, p, res.Palette)

	// The caller's palette is not aliased.
	res.Palette[0] = pixel.Pixel{}
	assert.Equal(t, pixel.Pixel{255, 0, 0}, p[0])
}

func TestQuantize_Dither(t *testing.T) {
	ctx := context.Background()
	buf := testutil.Gradient(32, 16)
	orig := buf.Clone()

	for _, mode := range []dither.EdgeMode{dither.EdgeWrap, dither.EdgeClamp} {
		t.Run(mode.String(), func(t *testing.T) {
			obs := &BasicObserver{}
			res, err := Quantize(ctx, buf, WithColors(4), WithDither(true), WithEdgeMode(mode), WithObserver(obs))
			require.NoError(t, err)

			assert.True(t, res.Dithered)
			assertClosure(t, res)
			assert.Equal(t, orig, buf)

			stats := obs.Stats()
			assert.Equal(t, int64(1), stats.Dithered)
			assert.Equal(t, int64(32*16), stats.DitheredPixels)
			assert.Equal(t, int64(0), stats.Mapped)
		})
	}
}

func TestQuantize_TrainingSize(t *testing.T) {
	buf := testutil.Gradient(200, 100)
	obs := &BasicObserver{}

	res, err := Quantize(context.Background(), buf, WithColors(8), WithTrainingSize(50), WithObserver(obs))
	require.NoError(t, err)

	assert.Len(t, res.Palette, 8)
	assert.Len(t, res.Indices, 200*100)
	assert.Equal(t, int64(7), obs.Stats().Rounds)
	assertClosure(t, res)
}

func TestQuantize_DeterministicAcrossParallelism(t *testing.T) {
	buf := testutil.NewRNG(3).UniformBuffer(48, 48)

	a, err := Quantize(context.Background(), buf, WithColors(12), WithParallelism(1))
	require.NoError(t, err)
	b, err := Quantize(context.Background(), buf, WithColors(12), WithParallelism(8))
	require.NoError(t, err)

	assert.Equal(t, a.Palette, b.Palette)
	assert.Equal(t, a.Indices, b.Indices)
}

func TestQuantizeImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 10})
	img.SetNRGBA(2, 0, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(3, 0, color.NRGBA{B: 255, A: 255})

	res, err := QuantizeImage(context.Background(), img, WithColors(2))
	require.NoError(t, err)
	assert.ElementsMatch(t, []pixel.Pixel{{255, 0, 0}, {0, 0, 255}}, []pixel.Pixel(res.Palette))

	out, ok := res.Image().(*image.Paletted)
	require.True(t, ok)
	assert.Equal(t, 4, out.Bounds().Dx())
}

func TestQuantize_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Quantize(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Quantize(ctx, pixel.NewBuffer(0, 0))
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Quantize(ctx, testutil.Solid(2, 2, pixel.Pixel{}), WithColors(0))
	var ic *ErrInvalidColorCount
	require.ErrorAs(t, err, &ic)
	assert.Equal(t, 0, ic.Colors)
	assert.ErrorIs(t, err, quantization.ErrInvalidTarget)

	_, err = Quantize(ctx, &pixel.Buffer{Pix: make([]pixel.Pixel, 3), Width: 2, Height: 2})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, dm.Pixels)
	var pe *pixel.DimensionError
	assert.ErrorAs(t, err, &pe)

	_, err = Quantize(ctx, testutil.Solid(2, 2, pixel.Pixel{}), WithPalette(nil))
	assert.ErrorIs(t, err, ErrEmptyPalette)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Quantize(canceled, testutil.Gradient(16, 16))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuantize_Logging(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Quantize(context.Background(), testutil.Solid(4, 4, pixel.Pixel{10, 20, 30}), WithLogger(logger))
	require.NoError(t, err)

	logs := out.String()
	assert.Contains(t, logs, `"msg":"quantize started"`)
	assert.Contains(t, logs, `"msg":"partition stopped early"`)
	assert.Contains(t, logs, `"#0A141E"`)
	assert.Contains(t, logs, `"colors_used":1`)
}

func TestReport(t *testing.T) {
	res, err := Quantize(context.Background(), testutil.Solid(3, 2, pixel.Pixel{255, 255, 255}), WithColors(4))
	require.NoError(t, err)

	r := res.Report("white.png")
	assert.Equal(t, "white.png", r.Name)
	assert.Equal(t, []string{"#FFFFFF"}, r.Palette)
	assert.Equal(t, 1, r.UsedColors)
	assert.True(t, r.Truncated)

	data, err := MarshalReports(nil, []Report{r})
	require.NoError(t, err)

	var decoded []Report
	require.NoError(t, codec.Default.Unmarshal(data, &decoded))
	assert.Equal(t, []Report{r}, decoded)
	assert.Contains(t, string(data), `"target_colors": 4`)
}

func TestMultiObserver(t *testing.T) {
	a, b := &BasicObserver{}, &BasicObserver{}
	_, err := Quantize(context.Background(), testutil.Gradient(16, 16), WithColors(3), WithObserver(MultiObserver{a, b, NoopObserver{}}))
	require.NoError(t, err)
	assert.Equal(t, a.Stats(), b.Stats())
	assert.Equal(t, int64(2), a.Stats().Rounds)
}

func BenchmarkQuantize(b *testing.B) {
	buf := testutil.NewRNG(1).UniformBuffer(256, 256)
	ctx := context.Background()
	for b.Loop() {
		if _, err := Quantize(ctx, buf, WithColors(16)); err != nil {
			b.Fatal(err)
		}
	}
}
