package ringbuf

import (
	"fmt"
	"iter"
)

const none = -1

// Deque is a bounded double-ended queue. It only grows from the right, where a
// push into a full deque drops the leftmost value, but it can be drained from
// both ends.
type Deque[T any] struct {
	r    ring[T]
	head int // leftmost, none if empty
	tail int // rightmost, none if empty
}

// NewDeque creates an empty deque holding at most window values.
func NewDeque[T any](window int, opts ...Option[T]) (*Deque[T], error) {
	o := applyOptions(opts...)
	size, ok := o.capacityFor(window)
	if !ok {
		return nil, fmt.Errorf("%w: window %d without source", ErrInvalidConfiguration, window)
	}
	d := &Deque[T]{}
	d.reset(size)
	for _, v := range o.source {
		d.Push(v)
	}
	return d, nil
}

func (d *Deque[T]) reset(window int) {
	d.r.reset(window)
	d.head, d.tail = none, none
}

// Push adds v on the right and returns the value it overwrote, if any.
func (d *Deque[T]) Push(v T) (evicted T, ok bool) {
	if d.head == none {
		evicted, ok = d.r.write(v)
		d.head, d.tail = d.r.cursor, d.r.cursor
		d.r.advance()
		return evicted, ok
	}

	evicted, ok = d.r.write(v)
	if d.r.cursor == d.head {
		d.head = d.r.next(d.head)
	}
	d.tail = d.r.cursor
	d.r.advance()
	return evicted, ok
}

// Append adds v on the right.
func (d *Deque[T]) Append(v T) {
	d.Push(v)
}

// PushFront is not supported: the deque only grows from the right.
func (d *Deque[T]) PushFront(T) error {
	return fmt.Errorf("%w: push on the left of a bounded deque", ErrNotSupported)
}

// span derives the number of values from head and tail.
func (d *Deque[T]) span() int {
	switch {
	case d.head == none && d.tail == none:
		return 0
	case d.head == d.tail:
		return 1
	case d.head < d.tail:
		return d.tail - d.head + 1
	default:
		return d.tail - d.head + 1 + d.r.capacity()
	}
}

// Pop removes and returns the rightmost value.
func (d *Deque[T]) Pop() (T, error) {
	if d.r.count == 0 {
		var zero T
		return zero, fmt.Errorf("%w: pop from %v", ErrEmptyContainer, d)
	}
	v, _ := d.r.clear(d.tail)
	d.r.retreat()
	if d.r.count == 0 {
		d.head, d.tail = none, none
	} else {
		d.tail = d.r.prev(d.tail)
	}
	return v, nil
}

// PopFront removes and returns the leftmost value.
func (d *Deque[T]) PopFront() (T, error) {
	if d.r.count == 0 {
		var zero T
		return zero, fmt.Errorf("%w: pop front from %v", ErrEmptyContainer, d)
	}
	v, _ := d.r.clear(d.head)
	if d.r.count == 0 {
		d.head, d.tail = none, none
	} else {
		d.head = d.r.next(d.head)
	}
	return v, nil
}

// Leftmost returns the oldest value.
func (d *Deque[T]) Leftmost() (T, bool) {
	if d.head == none {
		var zero T
		return zero, false
	}
	return d.r.slots[d.head].value, true
}

// Rightmost returns the newest value.
func (d *Deque[T]) Rightmost() (T, bool) {
	if d.tail == none {
		var zero T
		return zero, false
	}
	return d.r.slots[d.tail].value, true
}

// Contains reports whether a stored value is equal to v according to eq.
func (d *Deque[T]) Contains(v T, eq func(a, b T) bool) bool {
	for x := range d.All() {
		if eq(x, v) {
			return true
		}
	}
	return false
}

func (d *Deque[T]) Len() int {
	return d.r.count
}

func (d *Deque[T]) Cap() int {
	return d.r.capacity()
}

// start is where logical order begins: the head, or the cursor when empty.
func (d *Deque[T]) start() int {
	if d.head == none {
		return d.r.cursor
	}
	return d.head
}

// Contents returns the values from left to right.
func (d *Deque[T]) Contents() []T {
	return d.r.values(d.start())
}

// Drain returns the values from left to right and empties the deque.
func (d *Deque[T]) Drain() []T {
	values := d.Contents()
	d.reset(d.r.capacity())
	return values
}

// Resize changes the window. The rightmost values are kept if it shrinks.
func (d *Deque[T]) Resize(window int) error {
	if window <= 0 {
		return fmt.Errorf("%w: resize to %d", ErrInvalidConfiguration, window)
	}
	if window == d.r.capacity() {
		return nil
	}
	values := d.Contents()
	d.reset(window)
	for _, v := range values {
		d.Push(v)
	}
	return nil
}

// All iterates over the values from left to right.
func (d *Deque[T]) All() iter.Seq[T] {
	return d.r.seq(d.start)
}

// At is not supported on a deque.
func (d *Deque[T]) At(int) (T, error) {
	var zero T
	return zero, fmt.Errorf("%w: indexed read on a deque", ErrNotSupported)
}

// Set is not supported on a deque.
func (d *Deque[T]) Set(int, T) error {
	return fmt.Errorf("%w: indexed write on a deque", ErrNotSupported)
}

func (d *Deque[T]) String() string {
	return render("Deque", formatValues(d.Contents()), true, fmt.Sprintf("window=%d", d.Cap()))
}

// GoString renders all slots including the empty ones, starting at the left end.
func (d *Deque[T]) GoString() string {
	return render("Deque", formatSlots(&d.r, d.start()), false, fmt.Sprintf("window=%d", d.Cap()))
}
