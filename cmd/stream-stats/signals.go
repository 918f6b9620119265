package main

import (
	"context"
	"os"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/yvesf/streamwin/pkg/stream"
)

// handleSignals applies SIGHUP by resizing stats to the configuration returned
// by reload and SIGUSR1 by resetting stats. It returns when ctx is done.
func handleSignals(ctx context.Context, sigs <-chan os.Signal, stats *stream.Stats, reload func() (stream.Config, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigs:
			switch sig {
			case syscall.SIGHUP:
				cfg, err := reload()
				if err == nil {
					err = stats.Reconfigure(cfg)
				}
				if err != nil {
					log.Error().Err(err).Msg("reload failed, keeping configuration")
					continue
				}
				log.Info().Int("average", cfg.Average).Dur("window", cfg.Window).Msg("reconfigured")
			case syscall.SIGUSR1:
				stats.Reset()
				log.Info().Msg("statistics reset")
			}
		}
	}
}
