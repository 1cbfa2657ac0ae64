package palette

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/cqt/codec"
	"github.com/hupe1980/cqt/pixel"
)

// ErrUnknownFormat is returned for an unrecognized palette file format.
var ErrUnknownFormat = errors.New("palette: unknown file format")

// Format identifies a palette file format.
type Format int

const (
	FormatHex Format = iota
	FormatGPL
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatHex:
		return "hex"
	case FormatGPL:
		return "gpl"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// FormatFromName picks a format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".hex", ".txt":
		return FormatHex, nil
	case ".gpl":
		return FormatGPL, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Parse decodes a palette. The result is validated to be non-empty.
func Parse(data []byte, f Format) (Palette, error) {
	var (
		p   Palette
		err error
	)
	switch f {
	case FormatHex:
		p, err = parseHex(data)
	case FormatGPL:
		p, err = parseGPL(data)
	case FormatJSON:
		p, err = parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Marshal encodes a palette. Entries are rounded to 8-bit.
func Marshal(p Palette, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatHex:
		for _, h := range p.Hex() {
			buf.WriteString(h)
			buf.WriteByte('\n')
		}
	case FormatGPL:
		buf.WriteString("GIMP Palette\nName: cqt\nColumns: 8\n#\n")
		names := p.Hex()
		for i, c := range p {
			fmt.Fprintf(&buf, "%3d %3d %3d\t%s\n", pixel.To8(c[0]), pixel.To8(c[1]), pixel.To8(c[2]), names[i])
		}
	case FormatJSON:
		return codec.Default.Marshal(p.Hex())
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	return buf.Bytes(), nil
}

func parseHex(data []byte) (Palette, error) {
	var p Palette
	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, ";") || strings.HasPrefix(s, "//") {
			continue
		}
		c, err := ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("palette: line %d: %w", line, err)
		}
		p = append(p, c)
	}
	return p, sc.Err()
}

func parseGPL(data []byte) (Palette, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "GIMP Palette" {
		return nil, errors.New("palette: missing GIMP Palette header")
	}

	var p Palette
	for line := 2; sc.Scan(); line++ {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "Name:") || strings.HasPrefix(s, "Columns:") {
			continue
		}
		fields := strings.Fields(s)
		if len(fields) < 3 {
			return nil, fmt.Errorf("palette: line %d: expected R G B", line)
		}
		var c pixel.Pixel
		for i := range 3 {
			v, err := strconv.Atoi(fields[i])
			if err != nil || v < 0 || v > 255 {
				return nil, fmt.Errorf("palette: line %d: invalid channel %q", line, fields[i])
			}
			c[i] = float64(v)
		}
		p = append(p, c)
	}
	return p, sc.Err()
}

func parseJSON(data []byte) (Palette, error) {
	var entries []string
	if err := codec.Default.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	p := make(Palette, 0, len(entries))
	for i, e := range entries {
		c, err := ParseHex(e)
		if err != nil {
			return nil, fmt.Errorf("palette: entry %d: %w", i, err)
		}
		p = append(p, c)
	}
	return p, nil
}
