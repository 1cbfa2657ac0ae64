package cqt

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/cqt/dither"
	"github.com/hupe1980/cqt/palette"
)

// DefaultColors is the target palette size when WithColors is not given.
const DefaultColors = 16

type options struct {
	colors       int
	palette      palette.Palette
	fixed        bool
	dither       bool
	edgeMode     dither.EdgeMode
	parallelism  int
	trainingSize int
	observer     Observer
	logger       *Logger
}

// Option configures Quantize.
type Option func(*options)

// WithColors sets the target palette size. The computed palette may be
// smaller when the image has fewer separable colors.
func WithColors(n int) Option {
	return func(o *options) {
		o.colors = n
	}
}

// WithPalette maps onto a fixed palette instead of computing one.
// Partitioning is skipped entirely; WithColors and WithTrainingSize are ignored.
func WithPalette(p palette.Palette) Option {
	return func(o *options) {
		o.palette = p
		o.fixed = true
	}
}

// WithDither routes remapping through Floyd–Steinberg error diffusion.
func WithDither(enabled bool) Option {
	return func(o *options) {
		o.dither = enabled
	}
}

// WithEdgeMode selects the dither boundary behavior. The default,
// dither.EdgeWrap, lets error at the right edge flow into the next row.
func WithEdgeMode(m dither.EdgeMode) Option {
	return func(o *options) {
		o.edgeMode = m
	}
}

// WithParallelism bounds the goroutines used for cluster statistics and
// direct mapping. Values below one select GOMAXPROCS. Dithering is always
// sequential.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithTrainingSize builds the palette from a copy of the image downscaled so
// its longest side is at most px pixels. Mapping still covers every pixel of
// the original. Zero disables downscaling.
//
// Example:
//
//	res, _ := cqt.Quantize(ctx, buf, cqt.WithColors(64), cqt.WithTrainingSize(512))
func WithTrainingSize(px int) Option {
	return func(o *options) {
		o.trainingSize = px
	}
}

// WithObserver registers progress callbacks. Pass nil to disable.
//
// Example with BasicObserver:
//
//	obs := &cqt.BasicObserver{}
//	res, _ := cqt.Quantize(ctx, buf, cqt.WithObserver(obs))
//	fmt.Println(obs.Stats().Rounds)
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		colors:   DefaultColors,
		edgeMode: dither.EdgeWrap,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}
	if o.observer == nil {
		o.observer = NoopObserver{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
