package cqt

import (
	"context"
	"image"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/cqt/dither"
	"github.com/hupe1980/cqt/imageio"
	"github.com/hupe1980/cqt/palette"
	"github.com/hupe1980/cqt/pixel"
	"github.com/hupe1980/cqt/quantization"
)

// Result is a quantized image.
type Result struct {
	Width  int
	Height int

	// Palette is the palette the image was mapped onto, in cluster order for
	// a computed palette or file order for a fixed one.
	Palette palette.Palette
	// Indices holds one palette index per pixel, row-major.
	Indices []uint32
	// Used is the set of palette indices that occur in Indices.
	Used *roaring.Bitmap

	// Target is the requested palette size.
	Target int
	// Truncated reports a computed palette smaller than Target.
	Truncated bool
	// Fixed reports that Palette was supplied by the caller.
	Fixed    bool
	Dithered bool

	PaletteTime time.Duration
	MapTime     time.Duration
}

// UsedColors returns the number of distinct palette entries in the image.
func (r *Result) UsedColors() int {
	return int(r.Used.GetCardinality())
}

// Indexed returns the result as an encodable indexed image.
func (r *Result) Indexed() *imageio.Indexed {
	return &imageio.Indexed{
		Width:   r.Width,
		Height:  r.Height,
		Palette: r.Palette,
		Indices: r.Indices,
	}
}

// Buffer expands the result to a pixel buffer in which every pixel equals a
// palette entry.
func (r *Result) Buffer() *pixel.Buffer {
	return r.Indexed().Buffer()
}

// Image returns the result as an image.Image.
func (r *Result) Image() image.Image {
	return r.Indexed().Image()
}

// QuantizeImage is Quantize for an image.Image. Alpha is discarded.
func QuantizeImage(ctx context.Context, img image.Image, optFns ...Option) (*Result, error) {
	return Quantize(ctx, pixel.FromImage(img), optFns...)
}

// Quantize reduces buf to a palette and maps every pixel onto it. buf is not
// modified.
//
// A computed palette can hold fewer colors than requested when the image
// does not have enough separable colors; this is reported through
// Result.Truncated, not as an error.
func Quantize(ctx context.Context, buf *pixel.Buffer, optFns ...Option) (*Result, error) {
	o := applyOptions(optFns)

	if buf == nil {
		return nil, ErrEmptyImage
	}
	if err := buf.Validate(); err != nil {
		return nil, translateError(err)
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyImage
	}

	log := o.logger.WithDimensions(buf.Width, buf.Height)
	res := &Result{
		Width:    buf.Width,
		Height:   buf.Height,
		Fixed:    o.fixed,
		Dithered: o.dither,
	}

	start := time.Now()
	p, err := buildPalette(ctx, buf, &o, log, res)
	if err != nil {
		return nil, translateError(err)
	}
	res.Palette = p
	res.PaletteTime = time.Since(start)
	o.observer.OnPaletteReduced(len(p), res.Target)
	log.LogPalette(ctx, p.Hex())

	start = time.Now()
	var m *palette.Mapping
	if o.dither {
		m, err = dither.FloydSteinberg(ctx, buf.Clone(), p, o.edgeMode)
	} else {
		m, err = palette.Map(ctx, buf.Pix, p, o.parallelism)
	}
	res.MapTime = time.Since(start)
	if err != nil {
		log.LogMapping(ctx, 0, len(p), o.dither, res.MapTime, err)
		return nil, translateError(err)
	}
	res.Indices = m.Indices
	res.Used = m.Used

	if o.dither {
		o.observer.OnDithered(buf.Len(), res.MapTime)
	} else {
		o.observer.OnMapped(res.UsedColors(), len(p), res.MapTime)
	}
	log.LogMapping(ctx, res.UsedColors(), len(p), o.dither, res.MapTime, nil)

	return res, nil
}

func buildPalette(ctx context.Context, buf *pixel.Buffer, o *options, log *Logger, res *Result) (palette.Palette, error) {
	if o.fixed {
		res.Target = len(o.palette)
		if err := o.palette.Validate(); err != nil {
			return nil, err
		}
		log.LogQuantizeStart(ctx, buf.Len(), res.Target, "fixed")
		return append(palette.Palette(nil), o.palette...), nil
	}

	res.Target = o.colors
	if o.colors < 1 {
		return nil, &ErrInvalidColorCount{Colors: o.colors, cause: quantization.ErrInvalidTarget}
	}
	log.LogQuantizeStart(ctx, buf.Len(), o.colors, "computed")

	train := buf.Downscale(o.trainingSize)
	start := time.Now()
	clusters, err := quantization.Partition(ctx, train.Pix, o.colors,
		quantization.WithParallelism(o.parallelism),
		quantization.WithRoundObserver(o.observer.OnPartitionRound),
	)
	log.LogPartition(ctx, len(clusters), o.colors, train.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	p := quantization.ReducePalette(clusters)
	res.Truncated = len(p) < o.colors
	return p, nil
}
