package imageio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"math/bits"

	"github.com/hupe1980/cqt/palette"
	"github.com/hupe1980/cqt/pixel"
)

// Header layout, little endian:
//
//	0  magic "CQT1"
//	4  compression
//	5  index width in bytes (1 or 2)
//	8  width
//	12 height
//	16 palette length
//	20 CRC32-C of the uncompressed index plane
//
// followed by the palette as RGB triples and the framed index blocks.
const (
	cqtMagic      = "CQT1"
	cqtHeaderSize = 24
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// writeCQT writes ix as a .cqt stream.
func writeCQT(w io.Writer, ix *Indexed, c Compression) error {
	if len(ix.Palette) > 1<<16 {
		return fmt.Errorf("%w: %d entries", ErrTooManyColors, len(ix.Palette))
	}
	width := 1
	if len(ix.Palette) > 256 {
		width = 2
	}

	plane := make([]byte, len(ix.Indices)*width)
	for i, idx := range ix.Indices {
		if width == 1 {
			plane[i] = byte(idx)
		} else {
			binary.LittleEndian.PutUint16(plane[i*2:], uint16(idx))
		}
	}

	hdr := make([]byte, cqtHeaderSize, cqtHeaderSize+3*len(ix.Palette))
	copy(hdr, cqtMagic)
	hdr[4] = byte(c)
	hdr[5] = byte(width)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(ix.Width))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(ix.Height))
	binary.LittleEndian.PutUint32(hdr[16:], uint32(len(ix.Palette)))
	binary.LittleEndian.PutUint32(hdr[20:], crc32.Checksum(plane, castagnoli))
	for _, p := range ix.Palette {
		hdr = append(hdr, pixel.To8(p[0]), pixel.To8(p[1]), pixel.To8(p[2]))
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	bw := newBlockWriter(w, c, defaultBlockSize)
	if _, err := bw.Write(plane); err != nil {
		return err
	}
	return bw.Flush()
}

// IsCQT reports whether data starts with the .cqt magic.
func IsCQT(data []byte) bool {
	return bytes.HasPrefix(data, []byte(cqtMagic))
}

// DecodeCQT parses a complete .cqt stream.
func DecodeCQT(data []byte) (*Indexed, error) {
	if len(data) < cqtHeaderSize || !IsCQT(data) {
		return nil, fmt.Errorf("%w: bad header", ErrCorrupt)
	}

	c := Compression(data[4])
	if c > CompressionZstd {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, data[4])
	}
	width := int(data[5])
	if width != 1 && width != 2 {
		return nil, fmt.Errorf("%w: index width %d", ErrCorrupt, width)
	}
	w, h, size, err := cqtPlaneSize(data, width)
	if err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint32(data[16:]))
	if n == 0 || n > 1<<16 {
		return nil, fmt.Errorf("%w: palette length %d", ErrCorrupt, n)
	}

	off := cqtHeaderSize
	if len(data) < off+3*n {
		return nil, fmt.Errorf("%w: truncated palette", ErrCorrupt)
	}
	pal := make(palette.Palette, n)
	for i := range pal {
		b := data[off+3*i : off+3*i+3]
		pal[i] = pixel.Pixel{float64(b[0]), float64(b[1]), float64(b[2])}
	}
	off += 3 * n

	plane, err := readBlocks(data[off:], c, size)
	if err != nil {
		return nil, err
	}
	if len(plane) != size {
		return nil, fmt.Errorf("%w: index plane has %d bytes, want %d", ErrCorrupt, len(plane), size)
	}
	if sum := crc32.Checksum(plane, castagnoli); sum != binary.LittleEndian.Uint32(data[20:]) {
		return nil, fmt.Errorf("%w: index plane checksum %08x, want %08x", ErrCorrupt, sum, binary.LittleEndian.Uint32(data[20:]))
	}

	ix := &Indexed{Width: w, Height: h, Palette: pal, Indices: make([]uint32, w*h)}
	for i := range ix.Indices {
		var idx uint32
		if width == 1 {
			idx = uint32(plane[i])
		} else {
			idx = uint32(binary.LittleEndian.Uint16(plane[i*2:]))
		}
		if int(idx) >= n {
			return nil, fmt.Errorf("%w: index %d out of palette range", ErrCorrupt, idx)
		}
		ix.Indices[i] = idx
	}
	return ix, nil
}

// cqtPlaneSize reads the dimensions from a .cqt header and returns the
// byte length of the index plane they imply.
func cqtPlaneSize(data []byte, width int) (w, h, size int, err error) {
	w32 := binary.LittleEndian.Uint32(data[8:])
	h32 := binary.LittleEndian.Uint32(data[12:])
	if w32 == 0 || h32 == 0 {
		return 0, 0, 0, fmt.Errorf("%w: dimensions %dx%d", ErrCorrupt, w32, h32)
	}
	hi, lo := bits.Mul64(uint64(w32)*uint64(h32), uint64(width))
	if hi != 0 || lo > math.MaxInt {
		return 0, 0, 0, fmt.Errorf("%w: dimensions %dx%d overflow", ErrCorrupt, w32, h32)
	}
	return int(w32), int(h32), int(lo), nil
}
