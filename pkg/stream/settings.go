package stream

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is returned by Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the configuration of the stream-stats daemon as read from a YAML file.
//
//	average: 10
//	window: 1m
//	serial:
//	  device: /dev/ttyUSB0
//	  baud: 9600
//	shelly:
//	  addr: shellypro3em-0cb815fc53bc
//	  gen: 2
//	  interval: 800ms
//	pulse:
//	  chip: gpiochip0
//	  line: 17
//	  window: 5m
type Settings struct {
	Average int            `yaml:"average"`
	Window  time.Duration  `yaml:"window"`
	Serial  SerialSettings `yaml:"serial"`
	Shelly  ShellySettings `yaml:"shelly"`
	Pulse   PulseSettings  `yaml:"pulse"`
}

// SerialSettings selects the serial device samples are read from.
// An empty Device reads from stdin.
type SerialSettings struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// ShellySettings selects a Shelly energy meter that is polled instead of reading
// lines. An empty Addr disables polling.
type ShellySettings struct {
	Addr     string        `yaml:"addr"`
	Gen      int           `yaml:"gen"`
	Interval time.Duration `yaml:"interval"`
}

// PulseSettings configures the optional GPIO pulse counter. A negative Line disables it.
type PulseSettings struct {
	Chip   string        `yaml:"chip"`
	Line   int           `yaml:"line"`
	Window time.Duration `yaml:"window"`
}

// DefaultSettings reads from stdin with the pulse counter disabled.
func DefaultSettings() Settings {
	return Settings{
		Average: 10,
		Window:  time.Minute,
		Serial:  SerialSettings{Baud: 9600},
		Shelly:  ShellySettings{Gen: 2, Interval: 800 * time.Millisecond},
		Pulse:   PulseSettings{Chip: "gpiochip0", Line: -1, Window: 5 * time.Minute},
	}
}

// LoadSettings reads path on top of DefaultSettings. Unknown keys are an error.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	f, err := os.Open(path)
	if err != nil {
		return settings, fmt.Errorf("failed to open settings: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil {
		return settings, fmt.Errorf("failed to decode %v: %w", path, err)
	}
	return settings, settings.Validate()
}

func (s Settings) Validate() error {
	if s.Average <= 0 {
		return fmt.Errorf("%w: average must be positive, got %d", ErrInvalidSettings, s.Average)
	}
	if s.Window < time.Second {
		return fmt.Errorf("%w: window must be at least 1s, got %v", ErrInvalidSettings, s.Window)
	}
	if s.Serial.Device != `` && s.Serial.Baud <= 0 {
		return fmt.Errorf("%w: baud must be positive, got %d", ErrInvalidSettings, s.Serial.Baud)
	}
	if s.Shelly.Addr != `` {
		if s.Serial.Device != `` {
			return fmt.Errorf("%w: serial device and shelly meter are exclusive", ErrInvalidSettings)
		}
		if s.Shelly.Gen != 1 && s.Shelly.Gen != 2 {
			return fmt.Errorf("%w: shelly generation must be 1 or 2, got %d", ErrInvalidSettings, s.Shelly.Gen)
		}
		if s.Shelly.Interval <= 0 {
			return fmt.Errorf("%w: shelly interval must be positive, got %v", ErrInvalidSettings, s.Shelly.Interval)
		}
	}
	if s.Pulse.Line >= 0 && s.Pulse.Window < time.Second {
		return fmt.Errorf("%w: pulse window must be at least 1s, got %v", ErrInvalidSettings, s.Pulse.Window)
	}
	return nil
}

// Config returns the statistics part of the settings.
func (s Settings) Config() Config {
	return Config{Average: s.Average, Window: s.Window}
}
