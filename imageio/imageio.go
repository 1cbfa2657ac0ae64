package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/hupe1980/cqt/palette"
	"github.com/hupe1980/cqt/pixel"
)

// Indexed is a quantized image: one palette index per pixel.
type Indexed struct {
	Width   int
	Height  int
	Palette palette.Palette
	Indices []uint32
}

// Validate checks dimensions and index ranges.
func (ix *Indexed) Validate() error {
	if err := ix.Palette.Validate(); err != nil {
		return err
	}
	if len(ix.Indices) != ix.Width*ix.Height {
		return &pixel.DimensionError{Width: ix.Width, Height: ix.Height, Len: len(ix.Indices)}
	}
	for _, idx := range ix.Indices {
		if int(idx) >= len(ix.Palette) {
			return fmt.Errorf("imageio: index %d out of palette range %d", idx, len(ix.Palette))
		}
	}
	return nil
}

// Buffer expands ix to a pixel buffer.
func (ix *Indexed) Buffer() *pixel.Buffer {
	buf := pixel.NewBuffer(ix.Width, ix.Height)
	for i, idx := range ix.Indices {
		buf.Pix[i] = ix.Palette[idx]
	}
	return buf
}

// Image returns ix as an image.Paletted when the palette fits in 256 entries,
// and as an RGBA image otherwise.
func (ix *Indexed) Image() image.Image {
	if len(ix.Palette) > 256 {
		return ix.Buffer().Image()
	}
	cp := make(color.Palette, len(ix.Palette))
	for i, p := range ix.Palette {
		cp[i] = p.RGBA()
	}
	img := image.NewPaletted(image.Rect(0, 0, ix.Width, ix.Height), cp)
	for i, idx := range ix.Indices {
		img.Pix[i] = uint8(idx)
	}
	return img
}

// Decode reads an image and returns its pixels and format name. .cqt streams
// are recognized by their magic.
func Decode(r io.Reader) (*pixel.Buffer, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode for in-memory data.
func DecodeBytes(data []byte) (*pixel.Buffer, string, error) {
	if IsCQT(data) {
		ix, err := DecodeCQT(data)
		if err != nil {
			return nil, "", err
		}
		return ix.Buffer(), "cqt", nil
	}
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return pixel.FromImage(img), name, nil
}

// DecodeConfig returns the dimensions and format name of in-memory image
// data without decoding its pixels.
func DecodeConfig(data []byte) (width, height int, format string, err error) {
	if IsCQT(data) {
		if len(data) < cqtHeaderSize {
			return 0, 0, "", fmt.Errorf("%w: bad header", ErrCorrupt)
		}
		w, h, _, err := cqtPlaneSize(data, 1)
		if err != nil {
			return 0, 0, "", err
		}
		return w, h, "cqt", nil
	}
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return cfg.Width, cfg.Height, name, nil
}

type encodeOptions struct {
	compression Compression
	jpegQuality int
}

// EncodeOption configures Encode.
type EncodeOption func(*encodeOptions)

// WithCompression sets the .cqt index-plane compression.
func WithCompression(c Compression) EncodeOption {
	return func(o *encodeOptions) {
		o.compression = c
	}
}

// WithJPEGQuality sets the JPEG quality (1-100).
func WithJPEGQuality(q int) EncodeOption {
	return func(o *encodeOptions) {
		o.jpegQuality = q
	}
}

// Encode writes ix in format f.
func Encode(w io.Writer, ix *Indexed, f Format, opts ...EncodeOption) error {
	o := encodeOptions{compression: CompressionZstd, jpegQuality: 95}
	for _, opt := range opts {
		opt(&o)
	}
	if err := ix.Validate(); err != nil {
		return err
	}

	switch f {
	case FormatPNG:
		return png.Encode(w, ix.Image())
	case FormatJPEG:
		return jpeg.Encode(w, ix.Buffer().Image(), &jpeg.Options{Quality: o.jpegQuality})
	case FormatGIF:
		if len(ix.Palette) > 256 {
			return fmt.Errorf("%w: gif holds 256, have %d", ErrTooManyColors, len(ix.Palette))
		}
		return gif.Encode(w, ix.Image(), &gif.Options{NumColors: len(ix.Palette)})
	case FormatBMP:
		return bmp.Encode(w, ix.Image())
	case FormatTIFF:
		return tiff.Encode(w, ix.Image(), &tiff.Options{Compression: tiff.Deflate})
	case FormatCQT:
		return writeCQT(w, ix, o.compression)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}
