// Package stream computes windowed statistics over a stream of numeric samples.
package stream

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/yvesf/streamwin/pkg/ringbuf"
)

// Sample is a numeric value observed at a point in time.
type Sample = ringbuf.Sample[float64]

// Config describes the statistics kept for a stream.
type Config struct {
	// Average is the number of samples the moving average is calculated over.
	Average int
	// Window is the time span min/max/mean statistics are calculated over.
	Window time.Duration
}

// Snapshot is a consistent view of the statistics after a sample was observed.
type Snapshot struct {
	Last Sample
	// Mean over the last Config.Average samples.
	Mean    float64
	Sum     float64
	Samples int

	WindowMin     float64
	WindowMax     float64
	WindowMean    float64
	WindowSamples int
	// Span is the time covered by the samples in the window.
	Span time.Duration
	// Warm is true once the window holds a full Config.Window of history.
	Warm bool

	Observed uint64
	// Dropped counts samples that were not newer than the previous one.
	Dropped uint64
}

// Stats owns the containers of one stream. It is safe for concurrent use.
type Stats struct {
	mu       sync.Mutex
	avg      *ringbuf.MovingAverage
	window   *ringbuf.TimeWindow[Sample]
	last     Sample
	observed uint64
	dropped  uint64
}

// NewStats creates the containers described by cfg.
func NewStats(cfg Config) (*Stats, error) {
	avg, err := ringbuf.NewMovingAverage(cfg.Average)
	if err != nil {
		return nil, fmt.Errorf("moving average: %w", err)
	}
	window, err := ringbuf.NewTimeWindow(cfg.Window, ringbuf.SampleTime[float64])
	if err != nil {
		return nil, fmt.Errorf("time window: %w", err)
	}
	return &Stats{avg: avg, window: window}, nil
}

// Observe adds a sample. Samples not newer than the previous one still count
// for the moving average but are ignored by the time window.
func (s *Stats) Observe(sample Sample) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observed++
	s.last = sample
	s.avg.Push(sample.Value)
	if !s.window.Push(sample) {
		s.dropped++
	}
	return s.snapshot()
}

// Snapshot returns the current statistics.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Reconfigure changes the sizes of both containers, keeping the newest samples.
// Nothing changes if either size is invalid.
func (s *Stats) Reconfigure(cfg Config) error {
	if cfg.Average <= 0 {
		return fmt.Errorf("moving average: %w: capacity %d", ringbuf.ErrInvalidConfiguration, cfg.Average)
	}
	if cfg.Window < time.Second {
		return fmt.Errorf("time window: %w: window %v", ringbuf.ErrInvalidConfiguration, cfg.Window)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.avg.Resize(cfg.Average); err != nil {
		return fmt.Errorf("moving average: %w", err)
	}
	if err := s.window.Resize(cfg.Window); err != nil {
		return fmt.Errorf("time window: %w", err)
	}
	return nil
}

// Reset drops all samples and clears the counters.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.avg.Drain()
	s.window.Drain()
	s.last = Sample{}
	s.observed, s.dropped = 0, 0
}

func (s *Stats) snapshot() Snapshot {
	snap := Snapshot{
		Last:          s.last,
		Mean:          s.avg.Mean(),
		Sum:           s.avg.Sum(),
		Samples:       s.avg.Len(),
		WindowSamples: s.window.Len(),
		Span:          s.window.Delta(),
		Warm:          s.window.Warm(),
		Observed:      s.observed,
		Dropped:       s.dropped,
	}
	if snap.WindowSamples == 0 {
		return snap
	}

	snap.WindowMin, snap.WindowMax = math.Inf(1), math.Inf(-1)
	var sum float64
	for sample := range s.window.All() {
		snap.WindowMin = math.Min(snap.WindowMin, sample.Value)
		snap.WindowMax = math.Max(snap.WindowMax, sample.Value)
		sum += sample.Value
	}
	snap.WindowMean = sum / float64(snap.WindowSamples)
	return snap
}
