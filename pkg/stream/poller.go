package stream

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yvesf/streamwin/pkg/timemock"
)

// ReadFunc returns the current value of a polled source.
type ReadFunc func(ctx context.Context) (float64, error)

// Poller reads a value every Interval and feeds it into Stats, stamped with the
// current time. Failed reads are retried with exponential backoff.
type Poller struct {
	Name     string
	Read     ReadFunc
	Interval time.Duration
	// MaxBackoff ends Run once the wait before the next retry reaches it.
	MaxBackoff time.Duration
	Stats      *Stats
	// Sink is optional.
	Sink Sink
}

// Run blocks until ctx is cancelled or the source failed too often.
func (p *Poller) Run(ctx context.Context) error {
	defer log.Debug().Str("stream", p.Name).Msg("poller done")

	var (
		wait  time.Duration
		retry int
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timemock.After(wait):
		}

		value, err := p.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			metricStreamPollErrors.With(p.Name).Add(1)
			retry++
			wait = p.backoff(retry)
			if wait >= p.MaxBackoff {
				return fmt.Errorf("stream %s: out of retries: %w", p.Name, err)
			}
			log.Error().Err(err).Str("stream", p.Name).Dur("wait", wait).Msg("failed to read, retry")
			continue
		}
		retry = 0
		wait = p.Interval

		snap := p.Stats.Observe(Sample{Time: timemock.Now(), Value: value})
		log.Trace().Str("stream", p.Name).Float64("value", value).Float64("mean", snap.Mean).Msg("sample")
		if p.Sink != nil {
			p.Sink.Publish(snap)
		}
	}
}

// backoff is Interval * 2^retry, stretched by a random factor of 1..2.
func (p *Poller) backoff(retry int) time.Duration {
	return time.Duration((1.0 + rand.Float64()) * float64(p.Interval) * math.Pow(2, float64(retry)))
}
