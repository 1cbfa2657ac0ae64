// Package pixel defines the RGB working representation used by the quantizer.
//
// Channels are held as float64 in the nominal range [0,255]. Intermediate
// values (cluster means, diffused error) are fractional and may leave that
// range; they are only clamped when converted back to 8-bit color.
package pixel

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Pixel is an RGB triple.
type Pixel [3]float64

// FromColor converts c to a Pixel, discarding alpha.
func FromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{float64(n.R), float64(n.G), float64(n.B)}
}

// Add returns p+q.
func (p Pixel) Add(q Pixel) Pixel {
	return Pixel{p[0] + q[0], p[1] + q[1], p[2] + q[2]}
}

// Sub returns p-q.
func (p Pixel) Sub(q Pixel) Pixel {
	return Pixel{p[0] - q[0], p[1] - q[1], p[2] - q[2]}
}

// Scale returns p*s.
func (p Pixel) Scale(s float64) Pixel {
	return Pixel{p[0] * s, p[1] * s, p[2] * s}
}

// RGBA returns the 8-bit opaque color for p.
func (p Pixel) RGBA() color.RGBA {
	return color.RGBA{R: To8(p[0]), G: To8(p[1]), B: To8(p[2]), A: 0xff}
}

// To8 clamps v to [0,255] and rounds half up.
func To8(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Floor(v + 0.5))
}

// DimensionError reports a buffer whose length disagrees with its dimensions.
type DimensionError struct {
	Width, Height int
	Len           int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("pixel: buffer of %d pixels does not match %dx%d", e.Len, e.Width, e.Height)
}

// Buffer is a flat row-major pixel buffer.
type Buffer struct {
	Pix    []Pixel
	Width  int
	Height int
}

// NewBuffer allocates a zeroed width×height buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Pix:    make([]Pixel, width*height),
		Width:  width,
		Height: height,
	}
}

// FromImage copies img into a new Buffer.
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	buf := NewBuffer(b.Dx(), b.Dy())

	// Fast path for the two layouts the standard decoders produce most.
	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < buf.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < buf.Width; x++ {
				s := src.Pix[off+x*4 : off+x*4+4 : off+x*4+4]
				if s[3] == 0xff {
					buf.Pix[y*buf.Width+x] = Pixel{float64(s[0]), float64(s[1]), float64(s[2])}
				} else {
					buf.Pix[y*buf.Width+x] = FromColor(color.RGBA{R: s[0], G: s[1], B: s[2], A: s[3]})
				}
			}
		}
		return buf
	case *image.NRGBA:
		for y := 0; y < buf.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < buf.Width; x++ {
				s := src.Pix[off+x*4 : off+x*4+3 : off+x*4+3]
				buf.Pix[y*buf.Width+x] = Pixel{float64(s[0]), float64(s[1]), float64(s[2])}
			}
		}
		return buf
	}

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			buf.Pix[y*buf.Width+x] = FromColor(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return buf
}

// FromBytes builds a Buffer from packed 8-bit RGB triples.
func FromBytes(rgb []byte, width, height int) (*Buffer, error) {
	if len(rgb) != width*height*3 {
		return nil, &DimensionError{Width: width, Height: height, Len: len(rgb) / 3}
	}
	buf := NewBuffer(width, height)
	for i := range buf.Pix {
		buf.Pix[i] = Pixel{float64(rgb[i*3]), float64(rgb[i*3+1]), float64(rgb[i*3+2])}
	}
	return buf, nil
}

// Validate checks that the buffer length matches its dimensions.
func (b *Buffer) Validate() error {
	if b.Width < 0 || b.Height < 0 || len(b.Pix) != b.Width*b.Height {
		return &DimensionError{Width: b.Width, Height: b.Height, Len: len(b.Pix)}
	}
	return nil
}

// Len returns the number of pixels.
func (b *Buffer) Len() int { return len(b.Pix) }

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Pix: make([]Pixel, len(b.Pix)), Width: b.Width, Height: b.Height}
	copy(c.Pix, b.Pix)
	return c
}

// Bytes packs the buffer as 8-bit RGB triples.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 0, len(b.Pix)*3)
	for _, p := range b.Pix {
		out = append(out, To8(p[0]), To8(p[1]), To8(p[2]))
	}
	return out
}

// Image renders the buffer as an opaque RGBA image.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, p := range b.Pix {
		o := i * 4
		img.Pix[o] = To8(p[0])
		img.Pix[o+1] = To8(p[1])
		img.Pix[o+2] = To8(p[2])
		img.Pix[o+3] = 0xff
	}
	return img
}

// Downscale returns a copy whose longest side is at most maxSide pixels.
// The receiver is returned unchanged when it already fits or maxSide <= 0.
func (b *Buffer) Downscale(maxSide int) *Buffer {
	if maxSide <= 0 || (b.Width <= maxSide && b.Height <= maxSide) {
		return b
	}

	w, h := b.Width, b.Height
	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), b.Image(), image.Rect(0, 0, b.Width, b.Height), draw.Src, nil)
	return FromImage(dst)
}
