// Package dither implements Floyd–Steinberg error diffusion onto a palette.
//
// Pixels are processed strictly in raster order: the error diffused from a
// pixel must be visible to its right and lower neighbours before they are
// quantized, so the pass is sequential.
package dither

import (
	"context"
	"fmt"

	"github.com/hupe1980/cqt/palette"
	"github.com/hupe1980/cqt/pixel"
)

// Diffusion weights, in sixteenths.
const (
	weightRight       = 7.0 / 16
	weightBelow       = 5.0 / 16
	weightBelowLeft   = 3.0 / 16
	weightBelowRight  = 1.0 / 16
	cancelCheckStride = 64 // rows between context checks
)

// EdgeMode selects how neighbours are bounded at the image border.
type EdgeMode int

const (
	// EdgeWrap bounds neighbours by the flat buffer length only. Error from the
	// last pixel of a row reaches the first pixel of the next row.
	EdgeWrap EdgeMode = iota
	// EdgeClamp discards error that would cross a row boundary.
	EdgeClamp
)

func (m EdgeMode) String() string {
	switch m {
	case EdgeWrap:
		return "wrap"
	case EdgeClamp:
		return "clamp"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// FloydSteinberg quantizes buf in place onto p, diffusing the per-pixel error
// to unvisited neighbours. Every pixel of buf ends up equal to a palette entry.
func FloydSteinberg(ctx context.Context, buf *pixel.Buffer, p palette.Palette, mode EdgeMode) (*palette.Mapping, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	m := palette.NewMapping(len(buf.Pix))
	for y := 0; y < buf.Height; y++ {
		if y%cancelCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for x := 0; x < buf.Width; x++ {
			i := y*buf.Width + x
			old := buf.Pix[i]
			idx := p.NearestIndex(old)
			buf.Pix[i] = p[idx]
			m.Indices[i] = uint32(idx)
			m.Used.Add(uint32(idx))

			spread(buf, i, old.Sub(p[idx]), mode)
		}
	}
	return m, nil
}

// spread adds the weighted error to the neighbours of flat index i.
func spread(buf *pixel.Buffer, i int, e pixel.Pixel, mode EdgeMode) {
	w := buf.Width
	limit := len(buf.Pix)

	right, below := i+1 < limit, i+w < limit
	belowLeft, belowRight := w > 1 && i+w-1 < limit, i+w+1 < limit
	if mode == EdgeClamp {
		x := i % w
		right = right && x+1 < w
		belowLeft = below && x > 0
		belowRight = below && x+1 < w
	}

	if right {
		buf.Pix[i+1] = buf.Pix[i+1].Add(e.Scale(weightRight))
	}
	if below {
		buf.Pix[i+w] = buf.Pix[i+w].Add(e.Scale(weightBelow))
	}
	if belowLeft {
		buf.Pix[i+w-1] = buf.Pix[i+w-1].Add(e.Scale(weightBelowLeft))
	}
	if belowRight {
		buf.Pix[i+w+1] = buf.Pix[i+w+1].Add(e.Scale(weightBelowRight))
	}
}
