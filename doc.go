// Package cqt reduces the colors of an image to a small palette.
//
// The palette is built by recursive principal-axis partitioning: the pixel
// population starts as one cluster, and each round splits the cluster whose
// color spread along its dominant covariance axis, weighted by its size, is
// largest. The split point along that axis maximizes the between-group
// separability of the projected scores. Each final cluster contributes its
// mean color to the palette. Pixels are then mapped to their nearest palette
// entry, directly or through Floyd–Steinberg error diffusion.
//
// # Quick Start
//
//	img, _, _ := image.Decode(f)
//	res, err := cqt.QuantizeImage(ctx, img, cqt.WithColors(16), cqt.WithDither(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d colors used out of palette of %d\n", res.UsedColors(), len(res.Palette))
//	png.Encode(out, res.Image())
//
// # Fixed Palettes
//
// A palette loaded from a file skips partitioning; only the mapping runs:
//
//	p, _ := palette.Parse(data, palette.FormatGPL)
//	res, _ := cqt.Quantize(ctx, buf, cqt.WithPalette(p))
//
// # Large Images
//
// WithTrainingSize builds the palette from a downscaled copy, which bounds
// the partitioning cost independently of the image size. Mapping always
// covers the full-resolution pixels.
//
// # Progress
//
// An Observer receives a callback after every split round and when mapping
// completes. BasicObserver counts them; the cqt command renders a progress
// bar and can export Prometheus metrics.
package cqt
