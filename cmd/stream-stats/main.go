package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yvesf/streamwin/cmd"
	"github.com/yvesf/streamwin/pkg/pulse"
	"github.com/yvesf/streamwin/pkg/shelly"
	"github.com/yvesf/streamwin/pkg/stream"
)

var flagConfig = flag.String("config", "", "YAML settings file, flags given explicitly take precedence")

func init() {
	d := stream.DefaultSettings()
	flag.String("serialDevice", d.Serial.Device, "Serial device to read samples from, stdin if empty")
	flag.Int("baud", d.Serial.Baud, "Baud rate of the serial device")
	flag.Int("average", d.Average, "Number of samples of the moving average")
	flag.Duration("window", d.Window, "Time window of min/max/mean statistics")
	flag.String("shellyAddr", d.Shelly.Addr, "Address of a Shelly energy meter to poll instead of reading lines")
	flag.Int("shellyGen", d.Shelly.Gen, "API generation of the Shelly meter, 1 or 2")
	flag.Duration("pollInterval", d.Shelly.Interval, "Interval between two reads of the Shelly meter")
	flag.String("pulseChip", d.Pulse.Chip, "GPIO chip of the pulse input")
	flag.Int("pulseLine", d.Pulse.Line, "GPIO line offset of the pulse input, disabled if negative")
	flag.Duration("pulseWindow", d.Pulse.Window, "Time window of the pulse rate")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd.CommonInit(ctx)

	settings, err := loadSettings(*flagConfig, flag.Visit)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}
	log.Info().Int("average", settings.Average).Dur("window", settings.Window).
		Str("serialDevice", settings.Serial.Device).Str("shellyAddr", settings.Shelly.Addr).
		Int("pulseLine", settings.Pulse.Line).
		Msg("starting")

	stats, err := stream.NewStats(settings.Config())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create statistics")
	}

	name := "stdin"
	var source io.Reader = os.Stdin
	if settings.Serial.Device != `` {
		port, err := openSerial(ctx, settings.Serial)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open serial device")
		}
		defer port.Close()
		name, source = settings.Serial.Device, port
	}

	var wg sync.WaitGroup

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGUSR1)
	defer signal.Stop(sigs)
	wg.Add(1)
	go func() {
		defer wg.Done()
		handleSignals(ctx, sigs, stats, func() (stream.Config, error) {
			s, err := loadSettings(*flagConfig, flag.Visit)
			return s.Config(), err
		})
	}()

	if settings.Pulse.Line >= 0 {
		counter, err := pulse.NewCounter(fmt.Sprintf("%s/%d", settings.Pulse.Chip, settings.Pulse.Line),
			settings.Pulse.Window)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pulse counter")
		}
		line, err := pulse.Open(settings.Pulse.Chip, settings.Pulse.Line, counter)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open pulse input")
		}
		defer line.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			counter.Run(ctx)
			rate, ok := counter.Rate()
			log.Info().Str("counter", counter.Name).Float64("rate", rate).Bool("valid", ok).
				Bool("warm", counter.Warm()).Msg("final pulse rate")
		}()
	}

	if settings.Shelly.Addr != `` {
		meter := shelly.Meter{
			Client: &http.Client{Timeout: 5 * time.Second},
			Addr:   settings.Shelly.Addr,
			Gen:    settings.Shelly.Gen,
		}
		poller := &stream.Poller{
			Name:       settings.Shelly.Addr,
			Read:       meter.TotalPower,
			Interval:   settings.Shelly.Interval,
			MaxBackoff: 50 * settings.Shelly.Interval,
			Stats:      stats,
			Sink:       stream.MetricsSink{Name: settings.Shelly.Addr},
		}
		err = poller.Run(ctx)
	} else {
		reader := &stream.Reader{
			Name:   name,
			Source: source,
			Stats:  stats,
			Sink:   stream.MetricsSink{Name: name},
		}
		err = reader.Run(ctx)
	}
	if err != nil {
		log.Error().Err(err).Msg("stream failed")
	}
	cancel()
	wg.Wait()

	snap := stats.Snapshot()
	log.Info().Uint64("observed", snap.Observed).Uint64("dropped", snap.Dropped).
		Float64("mean", snap.Mean).Float64("windowMin", snap.WindowMin).Float64("windowMax", snap.WindowMax).
		Float64("windowMean", snap.WindowMean).Dur("span", snap.Span).Bool("warm", snap.Warm).
		Msg("final statistics")
	if err != nil {
		os.Exit(1)
	}
}
