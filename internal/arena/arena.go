package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrFreed is returned when an ID refers to a tombstoned slot.
	ErrFreed = errors.New("arena: slot freed")
	// ErrOutOfRange is returned when an ID was never allocated.
	ErrOutOfRange = errors.New("arena: id out of range")
)

// ID addresses a slot.
type ID uint32

type slot[T any] struct {
	val  T
	live bool
}

// Arena stores values of type T in append-only slots.
type Arena[T any] struct {
	slots []slot[T]
	live  int
}

// New creates an Arena with room for capacity slots before growing.
func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{slots: make([]slot[T], 0, max(capacity, 0))}
}

// Alloc stores v in a fresh slot and returns its ID.
func (a *Arena[T]) Alloc(v T) ID {
	a.slots = append(a.slots, slot[T]{val: v, live: true})
	a.live++
	return ID(len(a.slots) - 1)
}

// Get returns the value stored at id.
func (a *Arena[T]) Get(id ID) (T, error) {
	var zero T
	if int(id) >= len(a.slots) {
		return zero, fmt.Errorf("%w: %d", ErrOutOfRange, id)
	}
	s := &a.slots[id]
	if !s.live {
		return zero, fmt.Errorf("%w: %d", ErrFreed, id)
	}
	return s.val, nil
}

// MustGet is Get for IDs known to be live. It panics otherwise.
func (a *Arena[T]) MustGet(id ID) T {
	v, err := a.Get(id)
	if err != nil {
		panic(err)
	}
	return v
}

// Free tombstones id and drops the stored value.
func (a *Arena[T]) Free(id ID) error {
	if int(id) >= len(a.slots) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, id)
	}
	s := &a.slots[id]
	if !s.live {
		return fmt.Errorf("%w: %d", ErrFreed, id)
	}
	var zero T
	s.val = zero
	s.live = false
	a.live--
	return nil
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int { return a.live }

// IDs returns the live IDs in allocation order.
func (a *Arena[T]) IDs() []ID {
	ids := make([]ID, 0, a.live)
	for i := range a.slots {
		if a.slots[i].live {
			ids = append(ids, ID(i))
		}
	}
	return ids
}

// Values returns the live values in allocation order.
func (a *Arena[T]) Values() []T {
	vals := make([]T, 0, a.live)
	for i := range a.slots {
		if a.slots[i].live {
			vals = append(vals, a.slots[i].val)
		}
	}
	return vals
}
