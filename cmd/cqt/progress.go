package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hupe1980/cqt"
)

const progressWidth = 60

// progressBar draws "\r 42% [|||||     ]" on a terminal line.
type progressBar struct {
	mu   sync.Mutex
	w    io.Writer
	last int
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w, last: -1}
}

func (p *progressBar) set(frac float64) {
	frac = max(0, min(1, frac))
	pct := int(frac * 100)

	p.mu.Lock()
	defer p.mu.Unlock()
	if pct == p.last {
		return
	}
	p.last = pct
	fill := int(frac * progressWidth)
	fmt.Fprintf(p.w, "\r%3d%% [%s%s]", pct, strings.Repeat("|", fill), strings.Repeat(" ", progressWidth-fill))
}

// finish draws 100% and ends the line.
func (p *progressBar) finish() {
	p.set(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w)
}

// roundProgress advances the bar with partition rounds of one image.
type roundProgress struct {
	cqt.NoopObserver
	bar *progressBar
}

func (r roundProgress) OnPartitionRound(clusters, target int) {
	if target > 0 {
		r.bar.set(float64(clusters) / float64(target))
	}
}

func (r roundProgress) OnPaletteReduced(int, int) {
	r.bar.set(1)
}
