// Package palette holds reduced color palettes and maps pixels onto them.
//
// Mapping is exact: every mapped pixel takes the value of one palette entry.
// Distance is Euclidean in RGB; ties resolve to the lowest palette index.
//
// Palettes can be loaded from and written to three text formats:
//
//   - .hex: one #RRGGBB color per line (leading '#' optional)
//   - .gpl: GIMP palette
//   - .json: array of "#RRGGBB" strings
package palette
