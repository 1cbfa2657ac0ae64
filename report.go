package cqt

import (
	"github.com/hupe1980/cqt/codec"
)

// Report is the serializable summary of one quantized image.
type Report struct {
	Name        string   `json:"name,omitempty"`
	Output      string   `json:"output,omitempty"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Target      int      `json:"target_colors"`
	Palette     []string `json:"palette"`
	UsedColors  int      `json:"used_colors"`
	Truncated   bool     `json:"truncated"`
	Fixed       bool     `json:"fixed_palette"`
	Dithered    bool     `json:"dithered"`
	PaletteMsec float64  `json:"palette_ms"`
	MapMsec     float64  `json:"map_ms"`
	Error       string   `json:"error,omitempty"`
}

// Report summarizes r under the given image name.
func (r *Result) Report(name string) Report {
	return Report{
		Name:        name,
		Width:       r.Width,
		Height:      r.Height,
		Target:      r.Target,
		Palette:     r.Palette.Hex(),
		UsedColors:  r.UsedColors(),
		Truncated:   r.Truncated,
		Fixed:       r.Fixed,
		Dithered:    r.Dithered,
		PaletteMsec: float64(r.PaletteTime.Microseconds()) / 1000,
		MapMsec:     float64(r.MapTime.Microseconds()) / 1000,
	}
}

// MarshalReports encodes reports as indented JSON with c, or codec.Default when c is nil.
func MarshalReports(c codec.Codec, reports []Report) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	return c.MarshalIndent(reports)
}
