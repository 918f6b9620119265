package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/yvesf/streamwin/pkg/stream"
)

type c struct {
	command string
	args    int
	fun     func(s *session, args ...string) error
	help    string
}

var commands []c

func init() {
	commands = []c{
		{
			command: "help",
			args:    0,
			help:    "help display this help",
			fun:     func(*session, ...string) error { help(); return nil },
		},
		{
			command: "new",
			args:    0,
			help: "new ringbuf|deque|average <n> [values...] create a container of capacity n\n" +
				"new timewindow <seconds> create a time window",
			fun: func(s *session, args ...string) error {
				if len(args) < 2 {
					return fmt.Errorf("wrong number of args")
				}
				size, err := parseInt(args[1])
				if err != nil {
					return err
				}
				source, err := parseFloats(args[2:])
				if err != nil {
					return err
				}
				if err := s.create(args[0], size, source); err != nil {
					return err
				}
				cont, _ := s.current()
				s.printf("%v\n", cont)
				return nil
			},
		},
		{
			command: "push",
			args:    0,
			help: "push <value> append a value\n" +
				"push [<unix-seconds>|<rfc3339>] <value> append a sample to a time window, default now",
			fun: func(s *session, args ...string) error {
				if s.window != nil {
					sample, err := stream.ParseLine(strings.Join(args, " "))
					if err != nil {
						return err
					}
					if !s.window.Push(sample) {
						s.printf("rejected: not newer than the newest sample\n")
					}
					return nil
				}
				if len(args) != 1 {
					return fmt.Errorf("wrong number of args")
				}
				values, err := parseFloats(args)
				if err != nil {
					return err
				}
				var (
					evicted float64
					ok      bool
				)
				switch {
				case s.ring != nil:
					evicted, ok = s.ring.Push(values[0])
				case s.deque != nil:
					evicted, ok = s.deque.Push(values[0])
				case s.avg != nil:
					evicted, ok = s.avg.Push(values[0])
				default:
					return errNoContainer
				}
				if ok {
					s.printf("evicted %v\n", evicted)
				}
				return nil
			},
		},
		{
			command: "pop",
			args:    0,
			help:    "pop remove and print the newest value of a deque",
			fun: func(s *session, args ...string) error {
				if s.deque == nil {
					return s.unsupported("pop")
				}
				v, err := s.deque.Pop()
				if err != nil {
					return err
				}
				s.printf("%v\n", v)
				return nil
			},
		},
		{
			command: "popfront",
			args:    0,
			help:    "popfront remove and print the oldest value of a deque",
			fun: func(s *session, args ...string) error {
				if s.deque == nil {
					return s.unsupported("popfront")
				}
				v, err := s.deque.PopFront()
				if err != nil {
					return err
				}
				s.printf("%v\n", v)
				return nil
			},
		},
		{
			command: "pushfront",
			args:    1,
			help:    "pushfront <value> prepend to a deque (never supported)",
			fun: func(s *session, args ...string) error {
				values, err := parseFloats(args)
				if err != nil {
					return err
				}
				if s.deque == nil {
					return s.unsupported("pushfront")
				}
				return s.deque.PushFront(values[0])
			},
		},
		{
			command: "left",
			args:    0,
			help:    "left print the oldest value of a deque",
			fun: func(s *session, args ...string) error {
				if s.deque == nil {
					return s.unsupported("left")
				}
				if v, ok := s.deque.Leftmost(); ok {
					s.printf("%v\n", v)
				} else {
					s.printf("empty\n")
				}
				return nil
			},
		},
		{
			command: "right",
			args:    0,
			help:    "right print the newest value of a deque",
			fun: func(s *session, args ...string) error {
				if s.deque == nil {
					return s.unsupported("right")
				}
				if v, ok := s.deque.Rightmost(); ok {
					s.printf("%v\n", v)
				} else {
					s.printf("empty\n")
				}
				return nil
			},
		},
		{
			command: "contents",
			args:    0,
			help:    "contents print all values, oldest first",
			fun: func(s *session, args ...string) error {
				switch {
				case s.ring != nil:
					s.printf("%v\n", s.ring.Contents())
				case s.deque != nil:
					s.printf("%v\n", s.deque.Contents())
				case s.avg != nil:
					s.printf("%v\n", s.avg.Contents())
				case s.window != nil:
					for _, sample := range s.window.Contents() {
						s.printf("%v\n", sample)
					}
				default:
					return errNoContainer
				}
				return nil
			},
		},
		{
			command: "drain",
			args:    0,
			help:    "drain print all values and empty the container",
			fun: func(s *session, args ...string) error {
				switch {
				case s.ring != nil:
					s.printf("%v\n", s.ring.Drain())
				case s.deque != nil:
					s.printf("%v\n", s.deque.Drain())
				case s.avg != nil:
					s.printf("%v\n", s.avg.Drain())
				case s.window != nil:
					for _, sample := range s.window.Drain() {
						s.printf("%v\n", sample)
					}
				default:
					return errNoContainer
				}
				return nil
			},
		},
		{
			command: "resize",
			args:    1,
			help:    "resize <n> change the capacity (seconds for a time window), keeping the newest values",
			fun: func(s *session, args ...string) error {
				n, err := parseInt(args[0])
				if err != nil {
					return err
				}
				switch {
				case s.ring != nil:
					return s.ring.Resize(n)
				case s.deque != nil:
					return s.deque.Resize(n)
				case s.avg != nil:
					return s.avg.Resize(n)
				case s.window != nil:
					return s.window.Resize(time.Duration(n) * time.Second)
				}
				return errNoContainer
			},
		},
		{
			command: "len",
			args:    0,
			help:    "len print number of values and capacity",
			fun: func(s *session, args ...string) error {
				cont, err := s.current()
				if err != nil {
					return err
				}
				s.printf("len=%d cap=%d\n", cont.Len(), cont.Cap())
				return nil
			},
		},
		{
			command: "mean",
			args:    0,
			help:    "mean print the moving average",
			fun: func(s *session, args ...string) error {
				if s.avg == nil {
					return s.unsupported("mean")
				}
				s.printf("%v\n", s.avg.Mean())
				return nil
			},
		},
		{
			command: "sum",
			args:    0,
			help:    "sum print the running sum of a moving average",
			fun: func(s *session, args ...string) error {
				if s.avg == nil {
					return s.unsupported("sum")
				}
				s.printf("%v\n", s.avg.Sum())
				return nil
			},
		},
		{
			command: "warm",
			args:    0,
			help:    "warm print whether a time window holds a full window of history",
			fun: func(s *session, args ...string) error {
				if s.window == nil {
					return s.unsupported("warm")
				}
				s.printf("%v\n", s.window.Warm())
				return nil
			},
		},
		{
			command: "delta",
			args:    0,
			help:    "delta print the time between oldest and newest sample of a time window",
			fun: func(s *session, args ...string) error {
				if s.window == nil {
					return s.unsupported("delta")
				}
				s.printf("%v\n", s.window.Delta())
				return nil
			},
		},
		{
			command: "oldest",
			args:    0,
			help:    "oldest print the oldest sample of a time window",
			fun: func(s *session, args ...string) error {
				if s.window == nil {
					return s.unsupported("oldest")
				}
				if v, ok := s.window.Oldest(); ok {
					s.printf("%v\n", v)
				} else {
					s.printf("empty\n")
				}
				return nil
			},
		},
		{
			command: "at",
			args:    1,
			help:    "at <i> print the i-th value counted from the oldest (full containers only)",
			fun: func(s *session, args ...string) error {
				i, err := parseInt(args[0])
				if err != nil {
					return err
				}
				var v any
				switch {
				case s.ring != nil:
					v, err = s.ring.At(i)
				case s.deque != nil:
					v, err = s.deque.At(i)
				case s.avg != nil:
					v, err = s.avg.At(i)
				case s.window != nil:
					v, err = s.window.At(i)
				default:
					return errNoContainer
				}
				if err != nil {
					return err
				}
				s.printf("%v\n", v)
				return nil
			},
		},
		{
			command: "set",
			args:    2,
			help:    "set <i> <value> overwrite the i-th value counted from the oldest (full containers only)",
			fun: func(s *session, args ...string) error {
				i, err := parseInt(args[0])
				if err != nil {
					return err
				}
				values, err := parseFloats(args[1:])
				if err != nil {
					return err
				}
				switch {
				case s.ring != nil:
					return s.ring.Set(i, values[0])
				case s.deque != nil:
					return s.deque.Set(i, values[0])
				case s.avg != nil:
					return s.avg.Set(i, values[0])
				case s.window != nil:
					return s.unsupported("set")
				}
				return errNoContainer
			},
		},
		{
			command: "show",
			args:    0,
			help:    "show print the container including empty slots",
			fun: func(s *session, args ...string) error {
				cont, err := s.current()
				if err != nil {
					return err
				}
				s.printf("%#v\n", cont)
				return nil
			},
		},
	}
}

func help() {
	fmt.Printf("CLI flags help:\n")
	flag.PrintDefaults()

	fmt.Printf("\nCommands help:\n")
	for _, c := range commands {
		fmt.Printf("\t%s\n", strings.ReplaceAll(c.help, "\n", "\n\t"))
	}
	fmt.Printf("\tquit leave the shell\n")
	fmt.Printf("\nSeveral commands on one line are separated by ' ; '\n")
}

func (s *session) execute(tokens []string) error {
	for _, comm := range commands {
		if comm.command != tokens[0] {
			continue
		}
		if comm.args != 0 && comm.args != len(tokens)-1 {
			return fmt.Errorf("invalid number of arguments for command %v, expected %v got %v",
				comm.command, comm.args, len(tokens)-1)
		}
		err := comm.fun(s, tokens[1:]...)
		if err != nil {
			return fmt.Errorf("command failed %v: %w", tokens, err)
		}
		return nil
	}
	return fmt.Errorf("command not found: %v", tokens[0])
}

// splitCommands splits tokens at ";" into separate commands.
func splitCommands(tokens []string) [][]string {
	var (
		out  [][]string
		curr []string
	)
	for _, t := range tokens {
		if t == ";" {
			if len(curr) > 0 {
				out = append(out, curr)
			}
			curr = nil
			continue
		}
		curr = append(curr, t)
	}
	if len(curr) > 0 {
		out = append(out, curr)
	}
	return out
}
