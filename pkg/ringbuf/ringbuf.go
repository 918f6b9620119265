// Package ringbuf provides fixed-capacity containers for continuously arriving
// data: a circular overwrite buffer, a bounded deque, a time window and a moving
// average. The containers allocate their storage once and are not safe for
// concurrent use; callers sharing one between goroutines must lock around it.
package ringbuf

import (
	"fmt"
	"iter"
)

// Ringbuf is a circular buffer of fixed capacity. Pushing into a full buffer
// overwrites the oldest value.
type Ringbuf[T any] struct {
	r ring[T]
}

// NewRingbuf creates an empty buffer of the given capacity. See WithSource for
// pre-populating it.
func NewRingbuf[T any](capacity int, opts ...Option[T]) (*Ringbuf[T], error) {
	o := applyOptions(opts...)
	size, ok := o.capacityFor(capacity)
	if !ok {
		return nil, fmt.Errorf("%w: capacity %d without source", ErrInvalidConfiguration, capacity)
	}
	b := &Ringbuf[T]{}
	b.r.reset(size)
	for _, v := range o.source {
		b.Push(v)
	}
	return b, nil
}

// Push writes v and returns the value it replaced. ok is false if the slot was empty.
func (b *Ringbuf[T]) Push(v T) (evicted T, ok bool) {
	return b.r.push(v)
}

// Len returns the number of stored values.
func (b *Ringbuf[T]) Len() int {
	return b.r.count
}

// Cap returns the number of slots.
func (b *Ringbuf[T]) Cap() int {
	return b.r.capacity()
}

// Contents returns a copy of the stored values, oldest first.
func (b *Ringbuf[T]) Contents() []T {
	return b.r.values(b.r.origin())
}

// Drain returns the stored values and empties the buffer.
func (b *Ringbuf[T]) Drain() []T {
	values := b.Contents()
	b.r.reset(b.r.capacity())
	return values
}

// Resize changes the capacity. The newest values are kept if it shrinks.
func (b *Ringbuf[T]) Resize(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: resize to %d", ErrInvalidConfiguration, capacity)
	}
	if capacity == b.r.capacity() {
		return nil
	}
	values := b.Contents()
	b.r.reset(capacity)
	for _, v := range values {
		b.Push(v)
	}
	return nil
}

// All iterates over the stored values, oldest first.
func (b *Ringbuf[T]) All() iter.Seq[T] {
	return b.r.seq(b.r.origin)
}

// At returns the value at offset i from the oldest one.
// Indexed access is only available while the buffer is full.
func (b *Ringbuf[T]) At(i int) (T, error) {
	var zero T
	if err := b.checkIndex(i); err != nil {
		return zero, err
	}
	return b.r.slots[b.r.physical(i)].value, nil
}

// Set replaces the value at offset i from the oldest one. Same restrictions as At.
func (b *Ringbuf[T]) Set(i int, v T) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	b.r.slots[b.r.physical(i)].value = v
	return nil
}

func (b *Ringbuf[T]) checkIndex(i int) error {
	if i < 0 || i >= b.r.capacity() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, b.r.capacity())
	}
	if b.r.count != b.r.capacity() {
		return fmt.Errorf("%w: indexed access on partially filled buffer (%d/%d)",
			ErrNotSupported, b.r.count, b.r.capacity())
	}
	return nil
}

func (b *Ringbuf[T]) String() string {
	return render("Ringbuf", formatValues(b.Contents()), true, fmt.Sprintf("capacity=%d", b.Cap()))
}

// GoString renders all slots including the empty ones.
func (b *Ringbuf[T]) GoString() string {
	return render("Ringbuf", formatSlots(&b.r, b.r.origin()), false, fmt.Sprintf("capacity=%d", b.Cap()))
}
