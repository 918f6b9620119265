package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/serial"
	"github.com/rs/zerolog/log"

	"github.com/yvesf/streamwin/pkg/stream"
)

func openSerial(ctx context.Context, s stream.SerialSettings) (io.ReadCloser, error) {
	config := serial.Config{}
	config.Address = s.Device
	config.BaudRate = s.Baud
	config.DataBits = 8
	config.Parity = "N"
	config.StopBits = 1
	config.Timeout = 5 * time.Second

	port, err := serial.Open(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to open %v: %w", s.Device, err)
	}
	return &patientPort{ctx: ctx, port: port}, nil
}

// patientPort retries reads that timed out until ctx is done, so a quiet line
// does not end the stream.
type patientPort struct {
	ctx  context.Context
	port io.ReadCloser
}

func (p *patientPort) Read(b []byte) (int, error) {
	for {
		n, err := p.port.Read(b)
		if n > 0 || !errors.Is(err, serial.ErrTimeout) {
			return n, err
		}
		if p.ctx.Err() != nil {
			return 0, io.EOF
		}
		log.Trace().Msg("serial read timeout")
	}
}

func (p *patientPort) Close() error {
	return p.port.Close()
}
