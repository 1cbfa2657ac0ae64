package cqt

import (
	"sync/atomic"
	"time"
)

// Observer receives progress callbacks from Quantize. Implement this
// interface to drive a progress bar or export metrics.
//
// Callbacks run on the goroutine that called Quantize and must not block.
type Observer interface {
	// OnPartitionRound is called after each cluster split with the current
	// cluster count and the target.
	OnPartitionRound(clusters, target int)

	// OnPaletteReduced is called once the palette is final. size may be
	// below target when partitioning stopped early.
	OnPaletteReduced(size, target int)

	// OnMapped is called after direct nearest-color mapping.
	OnMapped(used, size int, d time.Duration)

	// OnDithered is called after error-diffusion mapping.
	OnDithered(pixels int, d time.Duration)
}

// NoopObserver ignores all callbacks.
type NoopObserver struct{}

func (NoopObserver) OnPartitionRound(int, int)        {}
func (NoopObserver) OnPaletteReduced(int, int)        {}
func (NoopObserver) OnMapped(int, int, time.Duration) {}
func (NoopObserver) OnDithered(int, time.Duration)    {}

// BasicObserver counts callbacks with atomics. Safe to share across
// concurrent Quantize calls.
type BasicObserver struct {
	Rounds         atomic.Int64
	Palettes       atomic.Int64
	Truncated      atomic.Int64
	Mapped         atomic.Int64
	MapNanos       atomic.Int64
	Dithered       atomic.Int64
	DitherNanos    atomic.Int64
	DitheredPixels atomic.Int64
}

// OnPartitionRound implements Observer.
func (b *BasicObserver) OnPartitionRound(int, int) {
	b.Rounds.Add(1)
}

// OnPaletteReduced implements Observer.
func (b *BasicObserver) OnPaletteReduced(size, target int) {
	b.Palettes.Add(1)
	if size < target {
		b.Truncated.Add(1)
	}
}

// OnMapped implements Observer.
func (b *BasicObserver) OnMapped(_, _ int, d time.Duration) {
	b.Mapped.Add(1)
	b.MapNanos.Add(d.Nanoseconds())
}

// OnDithered implements Observer.
func (b *BasicObserver) OnDithered(pixels int, d time.Duration) {
	b.Dithered.Add(1)
	b.DitheredPixels.Add(int64(pixels))
	b.DitherNanos.Add(d.Nanoseconds())
}

// Stats returns a snapshot of current counters.
func (b *BasicObserver) Stats() BasicObserverStats {
	return BasicObserverStats{
		Rounds:         b.Rounds.Load(),
		Palettes:       b.Palettes.Load(),
		Truncated:      b.Truncated.Load(),
		Mapped:         b.Mapped.Load(),
		MapAvgNanos:    avg(b.MapNanos.Load(), b.Mapped.Load()),
		Dithered:       b.Dithered.Load(),
		DitheredPixels: b.DitheredPixels.Load(),
		DitherAvgNanos: avg(b.DitherNanos.Load(), b.Dithered.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicObserverStats is a snapshot of BasicObserver state.
type BasicObserverStats struct {
	Rounds         int64
	Palettes       int64
	Truncated      int64
	Mapped         int64
	MapAvgNanos    int64
	Dithered       int64
	DitheredPixels int64
	DitherAvgNanos int64
}

// MultiObserver fans callbacks out to every member in order.
type MultiObserver []Observer

func (m MultiObserver) OnPartitionRound(clusters, target int) {
	for _, o := range m {
		o.OnPartitionRound(clusters, target)
	}
}

func (m MultiObserver) OnPaletteReduced(size, target int) {
	for _, o := range m {
		o.OnPaletteReduced(size, target)
	}
}

func (m MultiObserver) OnMapped(used, size int, d time.Duration) {
	for _, o := range m {
		o.OnMapped(used, size, d)
	}
}

func (m MultiObserver) OnDithered(pixels int, d time.Duration) {
	for _, o := range m {
		o.OnDithered(pixels, d)
	}
}
