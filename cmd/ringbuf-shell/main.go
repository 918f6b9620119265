package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/shlex"
	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"

	"github.com/yvesf/streamwin/cmd"
)

func main() {
	flag.CommandLine.Usage = help

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd.CommonInit(ctx)

	s := &session{out: os.Stdout}

	// if arguments passed then execute as commands
	if args := flag.Args(); len(args) > 0 {
		for _, tokens := range splitCommands(args) {
			if err := s.execute(tokens); err != nil {
				log.Error().Err(err).Msg("failed")
				os.Exit(1)
			}
		}
		return
	}

	line := liner.NewLiner()
	defer line.Close()

	// otherwise: start repl
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) (c []string) {
		for _, comm := range commands {
			if strings.HasPrefix(comm.command, line) {
				c = append(c, comm.command)
			}
		}
		return c
	})

	for ctx.Err() == nil {
		response, err := line.Prompt(prompt(s))
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			fmt.Printf("Send EOF (CTRL-D) or execute 'quit' to exit\n")
			continue
		case errors.Is(err, io.EOF):
			fmt.Printf("\n")
			cancel()
		case err != nil:
			log.Error().Err(err).Msg("error reading line")
			continue
		}
		if ctx.Err() != nil {
			break
		}

		quit, err := s.runLine(response)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		} else if strings.TrimSpace(response) != `` {
			line.AppendHistory(response)
		}
		if quit {
			cancel()
		}
	}

	ev := log.Info()
	if cont, err := s.current(); err == nil {
		ev = ev.Str("kind", s.kind).Stringer("container", cont)
	}
	ev.Msg("start shutdown")
}

// runLine executes the ;-separated commands of one input line. It stops at the
// first failing command. quit is true if the line asked to leave the shell.
func (s *session) runLine(input string) (quit bool, err error) {
	tokens, err := shlex.Split(input)
	if err != nil {
		return false, fmt.Errorf("failed to parse input: %w", err)
	}
	for _, command := range splitCommands(tokens) {
		if len(command) == 1 && command[0] == `quit` {
			return true, nil
		}
		if err := s.execute(command); err != nil {
			return false, err
		}
	}
	return false, nil
}
