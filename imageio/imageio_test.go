package imageio

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cqt/palette"
	"github.com/hupe1980/cqt/pixel"
)

func testIndexed(w, h, colors int) *Indexed {
	ix := &Indexed{Width: w, Height: h, Palette: make(palette.Palette, colors), Indices: make([]uint32, w*h)}
	for i := range ix.Palette {
		ix.Palette[i] = pixel.Pixel{float64(i % 256), float64((i * 3) % 256), float64(i / 256 * 40)}
	}
	for i := range ix.Indices {
		ix.Indices[i] = uint32((i / 7) % colors)
	}
	return ix
}

func TestCQTRoundTrip(t *testing.T) {
	for _, colors := range []int{1, 16, 256, 300} {
		for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
			t.Run(c.String(), func(t *testing.T) {
				ix := testIndexed(301, 97, colors)

				var buf bytes.Buffer
				require.NoError(t, Encode(&buf, ix, FormatCQT, WithCompression(c)))
				assert.True(t, IsCQT(buf.Bytes()))

				got, err := DecodeCQT(buf.Bytes())
				require.NoError(t, err)
				assert.Equal(t, ix.Width, got.Width)
				assert.Equal(t, ix.Height, got.Height)
				assert.Equal(t, ix.Palette, got.Palette)
				assert.Equal(t, ix.Indices, got.Indices)
			})
		}
	}
}

func TestCQTCompresses(t *testing.T) {
	ix := testIndexed(512, 512, 4)

	var raw, packed bytes.Buffer
	require.NoError(t, Encode(&raw, ix, FormatCQT, WithCompression(CompressionNone)))
	require.NoError(t, Encode(&packed, ix, FormatCQT, WithCompression(CompressionZstd)))
	assert.Less(t, packed.Len(), raw.Len()/4)
}

func TestCQTMultipleBlocks(t *testing.T) {
	// 1024x600 one-byte indices span three 256 KiB blocks.
	ix := testIndexed(1024, 600, 200)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ix, FormatCQT, WithCompression(CompressionLZ4)))

	got, err := DecodeCQT(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ix.Indices, got.Indices)
}

func TestDecodeCQTCorrupt(t *testing.T) {
	ix := testIndexed(8, 8, 4)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ix, FormatCQT, WithCompression(CompressionNone)))
	good := buf.Bytes()

	t.Run("short", func(t *testing.T) {
		_, err := DecodeCQT(good[:10])
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("truncated plane", func(t *testing.T) {
		_, err := DecodeCQT(good[:len(good)-1])
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("bad index", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[len(bad)-1] = 9
		_, err := DecodeCQT(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("flipped index", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[len(bad)-1] ^= 1
		_, err := DecodeCQT(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
		assert.ErrorContains(t, err, "checksum")
	})
	t.Run("bad dims", func(t *testing.T) {
		bad := bytes.Clone(good)
		binary.LittleEndian.PutUint32(bad[8:], 9)
		_, err := DecodeCQT(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("bad compression", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[4] = 7
		_, err := DecodeCQT(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("zero dims", func(t *testing.T) {
		_, err := DecodeCQT(rawCQT(CompressionNone, 1, 0, 4, nil, nil))
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("overflowing dims", func(t *testing.T) {
		// 3037390391*3036610659*2 wraps to 3722 in 64 bits.
		plane := make([]byte, 3722)
		data := rawCQT(CompressionNone, 2, 3037390391, 3036610659, plane, frame(3722, 0, plane))
		_, err := DecodeCQT(data)
		assert.ErrorIs(t, err, ErrCorrupt)
		assert.ErrorContains(t, err, "overflow")
	})
	t.Run("oversized block", func(t *testing.T) {
		data := rawCQT(CompressionLZ4, 1, 4, 4, make([]byte, 16), frame(1<<30, 4, []byte{1, 2, 3, 4}))
		_, err := DecodeCQT(data)
		assert.ErrorIs(t, err, ErrCorrupt)
		assert.ErrorContains(t, err, "block size")
	})
	t.Run("blocks beyond plane", func(t *testing.T) {
		plane := make([]byte, 4)
		blocks := append(frame(4, 0, plane), frame(4, 0, plane)...)
		_, err := DecodeCQT(rawCQT(CompressionNone, 1, 2, 2, plane, blocks))
		assert.ErrorIs(t, err, ErrCorrupt)
		assert.ErrorContains(t, err, "exceed plane size")
	})
	t.Run("compressed block in uncompressed stream", func(t *testing.T) {
		plane := make([]byte, 4)
		_, err := DecodeCQT(rawCQT(CompressionNone, 1, 2, 2, plane, frame(4, 4, plane)))
		assert.ErrorIs(t, err, ErrCorrupt)
		assert.ErrorContains(t, err, "uncompressed stream")
	})
}

// rawCQT assembles a .cqt stream with a one-color palette around already
// framed blocks. The checksum covers plane.
func rawCQT(c Compression, width byte, w, h uint32, plane, blocks []byte) []byte {
	hdr := make([]byte, cqtHeaderSize, cqtHeaderSize+3+len(blocks))
	copy(hdr, cqtMagic)
	hdr[4] = byte(c)
	hdr[5] = width
	binary.LittleEndian.PutUint32(hdr[8:], w)
	binary.LittleEndian.PutUint32(hdr[12:], h)
	binary.LittleEndian.PutUint32(hdr[16:], 1)
	binary.LittleEndian.PutUint32(hdr[20:], crc32.Checksum(plane, castagnoli))
	hdr = append(hdr, 0, 0, 0)
	return append(hdr, blocks...)
}

func frame(raw, stored uint32, payload []byte) []byte {
	b := make([]byte, blockHeaderSize, blockHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(b, raw)
	binary.LittleEndian.PutUint32(b[4:], stored)
	return append(b, payload...)
}

func TestDecodeConfig(t *testing.T) {
	ix := testIndexed(5, 3, 4)
	for _, f := range []Format{FormatPNG, FormatGIF, FormatCQT} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, ix, f))

			w, h, name, err := DecodeConfig(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, 5, w)
			assert.Equal(t, 3, h)
			assert.Equal(t, f.String(), name)
		})
	}

	_, _, _, err := DecodeConfig([]byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, _, err = DecodeConfig(rawCQT(CompressionNone, 1, 4, 0, nil, nil))
	assert.ErrorIs(t, err, ErrCorrupt)

	_, _, _, err = DecodeConfig([]byte(cqtMagic))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLosslessFormats(t *testing.T) {
	ix := testIndexed(33, 17, 12)
	want := ix.Buffer()

	for _, f := range []Format{FormatPNG, FormatGIF, FormatBMP, FormatTIFF, FormatCQT} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, ix, f))

			got, name, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, f.String(), name)
			assert.Equal(t, want.Width, got.Width)
			assert.Equal(t, want.Height, got.Height)
			assert.Equal(t, want.Pix, got.Pix)
		})
	}
}

func TestJPEG(t *testing.T) {
	ix := testIndexed(16, 16, 2)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ix, FormatJPEG, WithJPEGQuality(80)))

	got, name, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", name)
	assert.Equal(t, 16, got.Width)
}

func TestEncodeErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, testIndexed(4, 4, 300), FormatGIF), ErrTooManyColors)
	assert.ErrorIs(t, Encode(&buf, testIndexed(4, 4, 3), Format(99)), ErrUnsupportedFormat)

	bad := testIndexed(4, 4, 3)
	bad.Indices[0] = 5
	assert.Error(t, Encode(&buf, bad, FormatPNG))

	empty := &Indexed{Width: 1, Height: 1, Indices: []uint32{0}}
	assert.ErrorIs(t, Encode(&buf, empty, FormatPNG), palette.ErrEmptyPalette)
}

func TestDecodeUnknown(t *testing.T) {
	_, _, err := DecodeBytes([]byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"out.png":    FormatPNG,
		"a.JPG":      FormatJPEG,
		"b.jpeg":     FormatJPEG,
		"c.gif":      FormatGIF,
		"d.bmp":      FormatBMP,
		"e.tif":      FormatTIFF,
		"f.cqt":      FormatCQT,
		"dir/g.Tiff": FormatTIFF,
	}
	for name, want := range tests {
		got, err := FormatFromName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := FormatFromName("x.webp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, ".jpg", FormatJPEG.Ext())
	assert.Equal(t, ".cqt", FormatCQT.Ext())
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}
