package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Reader feeds newline separated samples from Source into Stats.
type Reader struct {
	// Name identifies the stream in logs and metrics.
	Name   string
	Source io.Reader
	Stats  *Stats
	// Sink is optional.
	Sink Sink
}

// Run blocks until Source is exhausted, fails, or ctx is cancelled.
// Malformed lines are logged and skipped.
func (r *Reader) Run(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(r.Source)
		defer func() {
			errc <- scanner.Err()
			close(lines)
		}()
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	defer log.Debug().Str("stream", r.Name).Msg("reader done")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return fmt.Errorf("stream %s: read failed: %w", r.Name, err)
				}
				return nil
			}
			r.handle(line)
		}
	}
}

func (r *Reader) handle(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	sample, err := ParseLine(line)
	if err != nil {
		metricStreamParseErrors.With(r.Name).Add(1)
		log.Warn().Err(err).Str("stream", r.Name).Str("line", line).Msg("skip line")
		return
	}
	snap := r.Stats.Observe(sample)
	log.Trace().Str("stream", r.Name).Float64("value", sample.Value).
		Float64("mean", snap.Mean).Dur("span", snap.Span).Bool("warm", snap.Warm).
		Msg("sample")
	if r.Sink != nil {
		r.Sink.Publish(snap)
	}
}
