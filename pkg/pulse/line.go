package pulse

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/gpiod"
	"github.com/yvesf/streamwin/pkg/timemock"
)

// Line feeds rising edges of a GPIO line into a Counter.
type Line struct {
	gpio *gpiod.Line
}

// Open requests the line offset of chip (e.g. "gpiochip0") as input with
// rising edge detection.
func Open(chip string, offset int, c *Counter) (*Line, error) {
	l, err := gpiod.RequestLine(chip, offset,
		gpiod.WithEventHandler(func(evt gpiod.LineEvent) {
			if evt.Type == gpiod.LineEventRisingEdge {
				c.Record(timemock.Now())
			}
		}),
		gpiod.WithRisingEdge)
	if err != nil {
		return nil, fmt.Errorf("failed to request gpio %v/%v: %w", chip, offset, err)
	}
	log.Info().Str("chip", chip).Int("gpio", offset).Str("counter", c.Name).Msg("counting pulses")
	return &Line{gpio: l}, nil
}

func (l *Line) Close() error {
	return l.gpio.Close()
}
