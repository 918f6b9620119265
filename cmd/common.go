package cmd

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/bsm/openmetrics"
	"github.com/bsm/openmetrics/omhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	flagDebug       = flag.Bool("debug", false, "Set log level to debug")
	flagTrace       = flag.Bool("trace", false, "Set log level to trace (overrides -debug)")
	flagConsole     = flag.Bool("console", false, "Human readable log output instead of JSON")
	flagMetricsHTTP = flag.String("metricsHTTP", "", "Address of a http server serving metrics under /metrics")
)

// CommonInit parses the command line, configures the global logger and starts
// the metrics endpoint if requested. The endpoint is shut down when ctx is done.
func CommonInit(ctx context.Context) {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *flagDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *flagTrace {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
	if *flagConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}

	if *flagMetricsHTTP != `` {
		mustServeMetrics(ctx, *flagMetricsHTTP)
	}
}

func mustServeMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", omhttp.NewHandler(openmetrics.DefaultRegistry()))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("Listen on http failed")
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")
}
