package quantization

import "runtime"

// RoundObserver is called after every completed split with the current
// cluster count and the target.
type RoundObserver func(clusters, target int)

type options struct {
	parallelism int
	observer    RoundObserver
}

// Option configures Partition.
type Option func(*options)

// WithParallelism bounds the number of goroutines computing cluster
// statistics within a round. Values below one select GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithRoundObserver registers fn to be called after each split.
func WithRoundObserver(fn RoundObserver) Option {
	return func(o *options) {
		o.observer = fn
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}
	return o
}
