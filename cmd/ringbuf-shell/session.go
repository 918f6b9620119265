package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/yvesf/streamwin/pkg/ringbuf"
	"github.com/yvesf/streamwin/pkg/stream"
)

var errNoContainer = errors.New("no container, create one with 'new'")

type container interface {
	Len() int
	Cap() int
	fmt.Stringer
	fmt.GoStringer
}

// session holds the container the shell operates on. Exactly one of the typed
// fields is set once a container was created.
type session struct {
	out  io.Writer
	kind string

	ring   *ringbuf.Ringbuf[float64]
	deque  *ringbuf.Deque[float64]
	avg    *ringbuf.MovingAverage
	window *ringbuf.TimeWindow[stream.Sample]
}

func (s *session) current() (container, error) {
	switch {
	case s.ring != nil:
		return s.ring, nil
	case s.deque != nil:
		return s.deque, nil
	case s.avg != nil:
		return s.avg, nil
	case s.window != nil:
		return s.window, nil
	}
	return nil, errNoContainer
}

func (s *session) create(kind string, size int, source []float64) error {
	var (
		err    error
		ring   *ringbuf.Ringbuf[float64]
		deque  *ringbuf.Deque[float64]
		avg    *ringbuf.MovingAverage
		window *ringbuf.TimeWindow[stream.Sample]
	)
	switch kind {
	case "ringbuf":
		ring, err = ringbuf.NewRingbuf(size, ringbuf.WithSource(source...))
	case "deque":
		deque, err = ringbuf.NewDeque(size, ringbuf.WithSource(source...))
	case "average":
		avg, err = ringbuf.NewMovingAverage(size, ringbuf.WithSource(source...))
	case "timewindow":
		if len(source) > 0 {
			return fmt.Errorf("timewindow does not take initial values")
		}
		window, err = ringbuf.NewTimeWindow(time.Duration(size)*time.Second, ringbuf.SampleTime[float64])
	default:
		return fmt.Errorf("unknown container kind %q", kind)
	}
	if err != nil {
		return err
	}
	// replace the previous container only on success
	s.kind, s.ring, s.deque, s.avg, s.window = kind, ring, deque, avg, window
	return nil
}

func (s *session) unsupported(command string) error {
	return fmt.Errorf("%w: %v on %v", ringbuf.ErrNotSupported, command, s.kind)
}

func (s *session) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		values[i] = v
	}
	return values, nil
}

func parseInt(arg string) (int, error) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid argument format %q", arg)
	}
	return v, nil
}
