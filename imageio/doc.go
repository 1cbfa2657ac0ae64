// Package imageio decodes source images into pixel buffers and encodes
// quantized, indexed images.
//
// Supported inputs are PNG, JPEG, GIF, BMP, TIFF, WebP and the package's own
// .cqt container. Alpha is discarded on decode. Supported outputs are PNG,
// JPEG, GIF, BMP, TIFF and .cqt; palette-capable formats are written as
// paletted images when the palette has at most 256 entries.
//
// # The .cqt container
//
// Little-endian layout:
//
//	[4]  magic "CQT1"
//	[1]  compression (0 none, 1 lz4, 2 zstd)
//	[1]  index width in bytes (1 or 2)
//	[2]  reserved
//	[4]  width
//	[4]  height
//	[4]  palette length N
//	[3N] palette, 8-bit RGB
//	...  index plane as a sequence of blocks:
//	     [4] uncompressed size [4] compressed size (0 = stored) [data]
package imageio
