package imageio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for an unknown or write-unsupported format.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")
	// ErrCorrupt is returned when a .cqt stream is malformed.
	ErrCorrupt = errors.New("imageio: corrupt cqt data")
	// ErrTooManyColors is returned when a format cannot hold the palette.
	ErrTooManyColors = errors.New("imageio: too many colors for format")
)

// Format identifies an output encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatGIF
	FormatBMP
	FormatTIFF
	FormatCQT
)

var formatNames = map[Format]string{
	FormatPNG:  "png",
	FormatJPEG: "jpeg",
	FormatGIF:  "gif",
	FormatBMP:  "bmp",
	FormatTIFF: "tiff",
	FormatCQT:  "cqt",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", int(f))
}

// Ext returns the canonical file extension including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + f.String()
}

// ParseFormat parses a format name such as "png" or "jpg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "cqt":
		return FormatCQT, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromName picks a format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	return ParseFormat(filepath.Ext(name))
}
