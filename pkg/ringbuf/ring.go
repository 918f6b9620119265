package ringbuf

// slot is one storage cell, either occupied by a value or empty.
type slot[T any] struct {
	value T
	ok    bool
}

// ring is the storage shared by all containers of this package. It knows about
// slots, the write cursor and the number of occupied slots, but nothing about
// eviction policies.
type ring[T any] struct {
	slots   []slot[T]
	cursor  int
	count   int
	wrapped bool // cursor went past the last slot at least once
}

func (r *ring[T]) reset(capacity int) {
	r.slots = make([]slot[T], capacity)
	r.cursor = 0
	r.count = 0
	r.wrapped = false
}

func (r *ring[T]) capacity() int {
	return len(r.slots)
}

func (r *ring[T]) next(i int) int {
	if i < len(r.slots)-1 {
		return i + 1
	}
	return 0
}

func (r *ring[T]) prev(i int) int {
	if i > 0 {
		return i - 1
	}
	return len(r.slots) - 1
}

// write stores v at the cursor without moving it and returns the previous content.
func (r *ring[T]) write(v T) (evicted T, ok bool) {
	s := &r.slots[r.cursor]
	evicted, ok = s.value, s.ok
	s.value, s.ok = v, true
	if !ok {
		r.count++
	}
	return evicted, ok
}

func (r *ring[T]) advance() {
	r.cursor = r.next(r.cursor)
	if r.cursor == 0 {
		r.wrapped = true
	}
}

func (r *ring[T]) retreat() {
	r.cursor = r.prev(r.cursor)
}

// push is the plain overwrite-on-full insertion.
func (r *ring[T]) push(v T) (T, bool) {
	evicted, ok := r.write(v)
	r.advance()
	return evicted, ok
}

// clear empties slot i and returns what it held.
func (r *ring[T]) clear(i int) (T, bool) {
	s := &r.slots[i]
	v, ok := s.value, s.ok
	if ok {
		var zero T
		s.value, s.ok = zero, false
		r.count--
	}
	return v, ok
}

// origin is the physical index of the logically first slot.
func (r *ring[T]) origin() int {
	if r.wrapped || r.count == len(r.slots) {
		return r.cursor
	}
	return 0
}

// each calls fn for every physical slot, walking circularly from start,
// until fn returns false.
func (r *ring[T]) each(start int, fn func(i int, s slot[T]) bool) {
	i := start
	for range r.slots {
		if !fn(i, r.slots[i]) {
			return
		}
		i = r.next(i)
	}
}

// values returns the occupied slots in logical order starting at start.
func (r *ring[T]) values(start int) []T {
	out := make([]T, 0, r.count)
	r.each(start, func(_ int, s slot[T]) bool {
		if s.ok {
			out = append(out, s.value)
		}
		return true
	})
	return out
}

// seq yields the occupied slots in logical order starting at the position returned by start.
// start is evaluated on every iteration so the sequence can be restarted after mutations.
func (r *ring[T]) seq(start func() int) func(yield func(T) bool) {
	return func(yield func(T) bool) {
		if len(r.slots) == 0 {
			return
		}
		r.each(start(), func(_ int, s slot[T]) bool {
			if !s.ok {
				return true
			}
			return yield(s.value)
		})
	}
}

// physical maps a logical offset from the oldest element to a slot index.
// It is only meaningful while every slot is occupied.
func (r *ring[T]) physical(offset int) int {
	return (r.cursor + offset) % len(r.slots)
}
