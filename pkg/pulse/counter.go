// pulse counts edges of a pulse output, e.g. the S0 interface of an energy meter,
// and reports the rate over a sliding time window.
package pulse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/openmetrics"
	"github.com/rs/zerolog/log"
	"github.com/yvesf/streamwin/pkg/ringbuf"
	"github.com/yvesf/streamwin/pkg/timemock"
)

var metricPulseRate = openmetrics.DefaultRegistry().Gauge(openmetrics.Desc{
	Name:   "pulse_rate",
	Unit:   "hertz",
	Help:   "pulses per second over the configured window",
	Labels: []string{"counter"},
})

// Bucket holds the pulses counted within the second starting at Start.
type Bucket struct {
	Start time.Time
	Count int
}

func (b Bucket) String() string {
	return fmt.Sprintf("%s %d", b.Start.Format(time.RFC3339), b.Count)
}

// Counter aggregates pulses into one-second buckets. Completed buckets are kept
// in a time window. Counter is safe for concurrent use.
type Counter struct {
	Name string

	mu      sync.Mutex
	window  *ringbuf.TimeWindow[Bucket]
	current Bucket
}

func NewCounter(name string, window time.Duration) (*Counter, error) {
	w, err := ringbuf.NewTimeWindow(window, func(b Bucket) time.Time { return b.Start })
	if err != nil {
		return nil, err
	}
	return &Counter{Name: name, window: w}, nil
}

// Record counts one pulse at t. Pulses for a second that is already completed
// are ignored.
func (c *Counter) Record(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sec := t.Truncate(time.Second)
	switch {
	case c.current.Start.IsZero():
		if newest, ok := c.window.Newest(); ok && !sec.After(newest) {
			log.Debug().Str("counter", c.Name).Time("pulse", t).Msg("ignore late pulse")
			return
		}
		c.current.Start = sec
	case sec.After(c.current.Start):
		c.window.Push(c.current)
		c.current = Bucket{Start: sec}
	case sec.Before(c.current.Start):
		log.Debug().Str("counter", c.Name).Time("pulse", t).Msg("ignore late pulse")
		return
	}
	c.current.Count++
}

// Flush completes the current bucket if now is past its second. Seconds that
// passed without any pulse are recorded as an empty bucket for the second
// before now, so old buckets leave the window once pulses stop.
func (c *Counter) Flush(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sec := now.Truncate(time.Second)
	if !c.current.Start.IsZero() {
		if !sec.After(c.current.Start) {
			return
		}
		c.window.Push(c.current)
		c.current = Bucket{}
	}
	newest, ok := c.window.Newest()
	if !ok {
		return
	}
	if prev := sec.Add(-time.Second); prev.After(newest) {
		c.window.Push(Bucket{Start: prev})
	}
}

// Rate returns pulses per second over the completed buckets.
// ok is false as long as no bucket was completed.
func (c *Counter) Rate() (rate float64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.window.Len() == 0 {
		return 0, false
	}
	var pulses int
	for b := range c.window.All() {
		pulses += b.Count
	}
	span := c.window.Delta() + time.Second
	return float64(pulses) / span.Seconds(), true
}

// Warm is true once the completed buckets cover the whole window.
func (c *Counter) Warm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.window.Len() == 0 {
		return false
	}
	return c.window.Warm() || c.window.Delta()+time.Second >= c.window.Window()
}

// Buckets returns the completed buckets, oldest first.
func (c *Counter) Buckets() []Bucket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window.Contents()
}

// Run flushes the counter every second and publishes the rate until ctx is done.
func (c *Counter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-timemock.After(time.Second):
		}
		c.Flush(timemock.Now())
		if rate, ok := c.Rate(); ok {
			metricPulseRate.With(c.Name).Set(rate)
			log.Trace().Str("counter", c.Name).Float64("rate", rate).Bool("warm", c.Warm()).Msg("pulse rate")
		}
	}
}
