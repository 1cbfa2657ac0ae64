package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressBar(&buf)

	p.set(0.5)
	assert.Equal(t, "\r 50% ["+strings.Repeat("|", 30)+strings.Repeat(" ", 30)+"]", buf.String())

	buf.Reset()
	p.set(0.501)
	assert.Empty(t, buf.String(), "same percentage is not redrawn")

	buf.Reset()
	p.set(7)
	assert.Equal(t, "\r100% ["+strings.Repeat("|", progressWidth)+"]", buf.String())

	buf.Reset()
	p.finish()
	assert.Equal(t, "\n", buf.String())
}

func TestRoundProgress(t *testing.T) {
	var buf bytes.Buffer
	r := roundProgress{bar: newProgressBar(&buf)}

	r.OnPartitionRound(2, 0)
	assert.Empty(t, buf.String())

	r.OnPartitionRound(1, 4)
	assert.True(t, strings.HasPrefix(buf.String(), "\r 25% ["))

	buf.Reset()
	r.OnPaletteReduced(3, 4)
	assert.True(t, strings.HasPrefix(buf.String(), "\r100% ["))
}
