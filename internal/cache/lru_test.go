package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// b is now least recently used.
	c.Set("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Set("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRUZeroCapacity(t *testing.T) {
	c := NewLRU[int, int](0)
	c.Set(1, 1)
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUGetOrCompute(t *testing.T) {
	c := NewLRU[int, int](4)
	calls := 0
	square := func(k int) int {
		calls++
		return k * k
	}

	assert.Equal(t, 9, c.GetOrCompute(3, square))
	assert.Equal(t, 9, c.GetOrCompute(3, square))
	assert.Equal(t, 16, c.GetOrCompute(4, square))
	assert.Equal(t, 2, calls)
}
