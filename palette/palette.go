package palette

import (
	"errors"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/hupe1980/cqt/distance"
	"github.com/hupe1980/cqt/pixel"
)

// ErrEmptyPalette is returned when a palette has no entries.
var ErrEmptyPalette = errors.New("palette: empty palette")

// Palette is an ordered list of colors.
type Palette []pixel.Pixel

// Validate returns ErrEmptyPalette for an empty palette.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	return nil
}

// NearestIndex returns the index of the entry closest to px. It panics on an
// empty palette.
func (p Palette) NearestIndex(px pixel.Pixel) int {
	if len(p) == 0 {
		panic(ErrEmptyPalette)
	}
	best := 0
	bestDist := distance.Euclidean(px, p[0])
	for i := 1; i < len(p); i++ {
		if d := distance.Euclidean(px, p[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Nearest returns the entry closest to px. It panics on an empty palette.
func (p Palette) Nearest(px pixel.Pixel) pixel.Pixel {
	return p[p.NearestIndex(px)]
}

// Hex renders each entry as an uppercase #RRGGBB string.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = hex(c)
	}
	return out
}

// String returns the hex entries joined by spaces.
func (p Palette) String() string {
	return strings.Join(p.Hex(), " ")
}

func hex(c pixel.Pixel) string {
	col := colorful.Color{
		R: float64(pixel.To8(c[0])) / 255,
		G: float64(pixel.To8(c[1])) / 255,
		B: float64(pixel.To8(c[2])) / 255,
	}
	return strings.ToUpper(col.Hex())
}

// ParseHex parses "#RRGGBB", "RRGGBB", "#RGB" or "RGB".
func ParseHex(s string) (pixel.Pixel, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return pixel.Pixel{}, err
	}
	r, g, b := col.RGB255()
	return pixel.Pixel{float64(r), float64(g), float64(b)}, nil
}
