package ringbuf

import (
	"fmt"
	"iter"
	"time"
)

// Sample is a value observed at a point in time.
type Sample[V any] struct {
	Time  time.Time
	Value V
}

// SampleTime is the timestamp selector for Sample payloads.
func SampleTime[V any](s Sample[V]) time.Time {
	return s.Time
}

func (s Sample[V]) String() string {
	return fmt.Sprintf("%s %v", s.Time.Format(time.RFC3339), s.Value)
}

// TimeWindow keeps the values of the last window seconds. Timestamps are
// truncated to whole seconds and must be strictly increasing; one slot is
// reserved per second so slots stay unused when values arrive irregularly.
//
// Once enough history is collected the window retains exactly one value older
// than window seconds, so the retained span always covers the full window.
type TimeWindow[T any] struct {
	r         ring[T]
	timestamp func(T) time.Time

	newest    int64
	hasNewest bool
	floor     int64 // eviction floor, values older than this are dropped
	warm      bool  // floor was established
}

// NewTimeWindow creates a window of the given length. timestamp extracts the
// point in time of a value.
func NewTimeWindow[T any](window time.Duration, timestamp func(T) time.Time, opts ...Option[T]) (*TimeWindow[T], error) {
	if timestamp == nil {
		return nil, fmt.Errorf("%w: missing timestamp selector", ErrInvalidConfiguration)
	}
	seconds := int(window / time.Second)
	if seconds <= 0 {
		return nil, fmt.Errorf("%w: window %v shorter than one second", ErrInvalidConfiguration, window)
	}
	w := &TimeWindow[T]{timestamp: timestamp}
	w.reset(seconds)
	for _, v := range applyOptions(opts...).source {
		w.Push(v)
	}
	return w, nil
}

func (w *TimeWindow[T]) reset(seconds int) {
	w.r.reset(seconds)
	w.newest, w.hasNewest = 0, false
	w.floor, w.warm = 0, false
}

func (w *TimeWindow[T]) seconds(v T) int64 {
	return w.timestamp(v).Unix()
}

// Push adds v unless its timestamp is not newer than the newest one stored,
// in which case it is ignored and false is returned.
func (w *TimeWindow[T]) Push(v T) bool {
	t := w.seconds(v)
	if w.hasNewest && t <= w.newest {
		return false
	}
	w.r.push(v)
	w.newest, w.hasNewest = t, true
	w.reclaim()
	return true
}

// reclaim moves the eviction floor to the most recent timestamp that is
// already older than the window and drops everything below it.
func (w *TimeWindow[T]) reclaim() {
	limit := int64(w.r.capacity())
	found := false
	var floor int64
	for _, s := range w.r.slots {
		if !s.ok {
			continue
		}
		t := w.seconds(s.value)
		if w.newest-t > limit && (!found || t > floor) {
			floor, found = t, true
		}
	}
	if found {
		w.floor, w.warm = floor, true
	}
	if !w.warm {
		return
	}
	for i, s := range w.r.slots {
		if s.ok && w.seconds(s.value) < w.floor {
			w.r.clear(i)
		}
	}
}

// Delta returns the time between the oldest and the newest stored value.
func (w *TimeWindow[T]) Delta() time.Duration {
	if w.r.count == 0 {
		return 0
	}
	oldest := w.newest
	for _, s := range w.r.slots {
		if !s.ok {
			continue
		}
		if t := w.seconds(s.value); t < oldest {
			oldest = t
		}
	}
	return time.Duration(w.newest-oldest) * time.Second
}

// Warm reports whether enough history was collected to know the window boundary.
func (w *TimeWindow[T]) Warm() bool {
	return w.warm
}

// Oldest returns the oldest stored value.
func (w *TimeWindow[T]) Oldest() (T, bool) {
	var (
		oldest T
		found  bool
	)
	w.r.each(w.r.origin(), func(_ int, s slot[T]) bool {
		if s.ok {
			oldest, found = s.value, true
			return false
		}
		return true
	})
	return oldest, found
}

// Newest returns the timestamp of the newest value accepted so far, truncated to the second.
func (w *TimeWindow[T]) Newest() (time.Time, bool) {
	if !w.hasNewest {
		return time.Time{}, false
	}
	return time.Unix(w.newest, 0), true
}

func (w *TimeWindow[T]) Len() int {
	return w.r.count
}

// Cap returns the number of slots, one per second of the window.
func (w *TimeWindow[T]) Cap() int {
	return w.r.capacity()
}

// Window returns the window length.
func (w *TimeWindow[T]) Window() time.Duration {
	return time.Duration(w.r.capacity()) * time.Second
}

// Contents returns the stored values, oldest first.
func (w *TimeWindow[T]) Contents() []T {
	return w.r.values(w.r.origin())
}

// Drain returns the stored values and resets the window to its initial state.
func (w *TimeWindow[T]) Drain() []T {
	values := w.Contents()
	w.reset(w.r.capacity())
	return values
}

// Resize changes the window length and replays the stored values.
func (w *TimeWindow[T]) Resize(window time.Duration) error {
	seconds := int(window / time.Second)
	if seconds <= 0 {
		return fmt.Errorf("%w: resize to %v", ErrInvalidConfiguration, window)
	}
	if seconds == w.r.capacity() {
		return nil
	}
	values := w.Contents()
	w.reset(seconds)
	for _, v := range values {
		w.Push(v)
	}
	return nil
}

// All iterates over the stored values, oldest first.
func (w *TimeWindow[T]) All() iter.Seq[T] {
	return w.r.seq(w.r.origin)
}

// At is not supported: slots are not evenly spaced in time.
func (w *TimeWindow[T]) At(int) (T, error) {
	var zero T
	return zero, fmt.Errorf("%w: indexed read on a time window", ErrNotSupported)
}

// Set is not supported: slots are not evenly spaced in time.
func (w *TimeWindow[T]) Set(int, T) error {
	return fmt.Errorf("%w: indexed write on a time window", ErrNotSupported)
}

func (w *TimeWindow[T]) String() string {
	return render("TimeWindow", formatValues(w.Contents()), true, fmt.Sprintf("window=%d", w.Cap()))
}

// GoString renders all slots including the empty ones.
func (w *TimeWindow[T]) GoString() string {
	return render("TimeWindow", formatSlots(&w.r, w.r.origin()), false, fmt.Sprintf("window=%d", w.Cap()))
}
