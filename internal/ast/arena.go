package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a 1-based slice arena. Index 0 always means "none".
type Arena[T any] struct {
	data []T
}

// NewArena creates an arena whose storage is preallocated with capHint slots.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return n
}

func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Slice is read-only.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return n
}
