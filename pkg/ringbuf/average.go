package ringbuf

import (
	"fmt"
	"iter"
	"strconv"
)

// MovingAverage is a circular buffer of numbers that keeps the sum and mean of
// its contents up to date on every push instead of recalculating them.
type MovingAverage struct {
	buf  Ringbuf[float64]
	sum  float64
	mean float64
}

// NewMovingAverage creates an empty moving average over capacity values.
func NewMovingAverage(capacity int, opts ...Option[float64]) (*MovingAverage, error) {
	o := applyOptions(opts...)
	size, ok := o.capacityFor(capacity)
	if !ok {
		return nil, fmt.Errorf("%w: capacity %d without source", ErrInvalidConfiguration, capacity)
	}
	m := &MovingAverage{}
	m.reset(size)
	for _, v := range o.source {
		m.Push(v)
	}
	return m, nil
}

func (m *MovingAverage) reset(capacity int) {
	m.buf.r.reset(capacity)
	m.sum, m.mean = 0, 0
}

// Push adds v, dropping the oldest value when full, and returns the dropped value.
func (m *MovingAverage) Push(v float64) (evicted float64, ok bool) {
	evicted, ok = m.buf.Push(v)
	if ok {
		m.sum -= evicted
	}
	m.sum += v
	m.mean = m.sum / float64(m.buf.Len())
	return evicted, ok
}

// Mean returns the average of the stored values, 0 when empty.
func (m *MovingAverage) Mean() float64 {
	return m.mean
}

// Sum returns the sum of the stored values.
func (m *MovingAverage) Sum() float64 {
	return m.sum
}

func (m *MovingAverage) Len() int {
	return m.buf.Len()
}

func (m *MovingAverage) Cap() int {
	return m.buf.Cap()
}

// Contents returns the stored values, oldest first.
func (m *MovingAverage) Contents() []float64 {
	return m.buf.Contents()
}

// Drain returns the stored values and resets the buffer, sum and mean.
func (m *MovingAverage) Drain() []float64 {
	values := m.buf.Contents()
	m.reset(m.buf.Cap())
	return values
}

// Resize changes the capacity, keeping the newest values.
func (m *MovingAverage) Resize(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: resize to %d", ErrInvalidConfiguration, capacity)
	}
	if capacity == m.buf.Cap() {
		return nil
	}
	values := m.buf.Contents()
	m.reset(capacity)
	for _, v := range values {
		m.Push(v)
	}
	return nil
}

// All iterates over the stored values, oldest first.
func (m *MovingAverage) All() iter.Seq[float64] {
	return m.buf.All()
}

// At returns the value at offset i from the oldest one. Only available while full.
func (m *MovingAverage) At(i int) (float64, error) {
	return m.buf.At(i)
}

// Set replaces the value at offset i from the oldest one and adjusts sum and mean.
// Only available while full.
func (m *MovingAverage) Set(i int, v float64) error {
	old, err := m.buf.At(i)
	if err != nil {
		return err
	}
	if err := m.buf.Set(i, v); err != nil {
		return err
	}
	m.sum += v - old
	m.mean = m.sum / float64(m.buf.Len())
	return nil
}

func (m *MovingAverage) fields() []string {
	return []string{
		fmt.Sprintf("capacity=%d", m.Cap()),
		"mean=" + strconv.FormatFloat(m.mean, 'g', -1, 64),
	}
}

func (m *MovingAverage) String() string {
	return render("MovingAverage", formatValues(m.buf.Contents()), true, m.fields()...)
}

// GoString renders all slots including the empty ones.
func (m *MovingAverage) GoString() string {
	return render("MovingAverage", formatSlots(&m.buf.r, m.buf.r.origin()), false, m.fields()...)
}
