package stream

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yvesf/streamwin/pkg/timemock"
)

// ErrMalformed is returned for lines that are not a sample.
var ErrMalformed = errors.New("malformed sample")

// ParseLine parses "<value>" or "<timestamp> <value>". A timestamp is either unix
// seconds, fractions allowed, or RFC3339. Samples without timestamp are stamped
// with the current time.
func ParseLine(line string) (Sample, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 1:
		v, err := parseValue(fields[0])
		if err != nil {
			return Sample{}, err
		}
		return Sample{Time: timemock.Now(), Value: v}, nil
	case 2:
		t, err := parseTime(fields[0])
		if err != nil {
			return Sample{}, err
		}
		v, err := parseValue(fields[1])
		if err != nil {
			return Sample{}, err
		}
		return Sample{Time: t, Value: v}, nil
	default:
		return Sample{}, fmt.Errorf("%w: expected 1 or 2 fields, got %d", ErrMalformed, len(fields))
	}
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: value %q: %v", ErrMalformed, s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: value %q is not finite", ErrMalformed, s)
	}
	return v, nil
}

func parseTime(s string) (time.Time, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, fmt.Errorf("%w: timestamp %q is not finite", ErrMalformed, s)
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrMalformed, s)
	}
	return t, nil
}
