package main

import (
	"flag"
	"time"

	"github.com/yvesf/streamwin/pkg/stream"
)

// loadSettings reads the settings file, if any, and applies every flag that was
// set on the command line on top of it.
func loadSettings(path string, visit func(func(*flag.Flag))) (stream.Settings, error) {
	settings := stream.DefaultSettings()
	if path != `` {
		var err error
		settings, err = stream.LoadSettings(path)
		if err != nil {
			return settings, err
		}
	}
	applyFlags(&settings, visit)
	return settings, settings.Validate()
}

func applyFlags(s *stream.Settings, visit func(func(*flag.Flag))) {
	visit(func(f *flag.Flag) {
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		switch v := getter.Get(); f.Name {
		case "serialDevice":
			s.Serial.Device = v.(string)
		case "baud":
			s.Serial.Baud = v.(int)
		case "average":
			s.Average = v.(int)
		case "window":
			s.Window = v.(time.Duration)
		case "shellyAddr":
			s.Shelly.Addr = v.(string)
		case "shellyGen":
			s.Shelly.Gen = v.(int)
		case "pollInterval":
			s.Shelly.Interval = v.(time.Duration)
		case "pulseChip":
			s.Pulse.Chip = v.(string)
		case "pulseLine":
			s.Pulse.Line = v.(int)
		case "pulseWindow":
			s.Pulse.Window = v.(time.Duration)
		}
	})
}
