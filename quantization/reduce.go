package quantization

import "github.com/hupe1980/cqt/palette"

// ReducePalette returns the mean color of every cluster, in cluster order.
func ReducePalette(clusters []*Cluster) palette.Palette {
	p := make(palette.Palette, len(clusters))
	for i, c := range clusters {
		p[i] = c.Mean()
	}
	return p
}
