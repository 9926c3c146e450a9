package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"

	"github.com/mrdg/tilt/audio"
	"github.com/mrdg/tilt/dub"
	"github.com/mrdg/tilt/tilt"
)

var errQuit = errors.New("quit")

// session is the part of tilt.Session the commands drive.
type session interface {
	Orientation(beta *float64) error
	Press(t time.Time) error
	Release(t time.Time) error
	SetScale(sc tilt.Scale) error
	StopAll() error
	Snapshot() (tilt.Snapshot, error)
}

// engine is the part of audio.Engine the commands drive.
type engine interface {
	Device(name string) (audio.Device, error)
	DeviceNames() []string
	LoadPreset(name string) error
}

type env struct {
	session   session
	engine    engine
	out       io.Writer
	longPress time.Duration
	now       func() time.Time
	sleep     func(time.Duration)
}

func newEnv(s session, e engine, out io.Writer, longPress time.Duration) *env {
	return &env{
		session:   s,
		engine:    e,
		out:       out,
		longPress: longPress,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

func (e *env) setProp(device, prop string, v interface{}) error {
	d, err := e.engine.Device(device)
	if err != nil {
		return err
	}
	return d.Set(prop, v)
}

func (e *env) getProp(device, prop string) (interface{}, error) {
	d, err := e.engine.Device(device)
	if err != nil {
		return nil, err
	}
	return d.Get(prop)
}

// eval runs every command on the line and prints their results. It stops
// at the first error.
func (e *env) eval(input string) error {
	cmds, err := dub.ParseLine(input)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		result, err := e.run(cmd)
		if err != nil {
			return err
		}
		if result != "" {
			fmt.Fprintln(e.out, result)
		}
	}
	return nil
}

func (e *env) run(command dub.Command) (string, error) {
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if n := len(command.Args); n < cmd.minArgs || (cmd.maxArgs >= 0 && n > cmd.maxArgs) {
			return "", errors.Errorf("%s: wrong number of arguments: usage: %s %s",
				cmd.name, cmd.name, cmd.usage)
		}
		result, err := cmd.run(e, command.Args)
		if err == errQuit {
			return "", err
		}
		if err != nil {
			return result, errors.Wrapf(err, "%s error", cmd.name)
		}
		return result, nil
	}
	return "", errors.Errorf("unknown command: %s", name)
}

func repl(env *env) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tilt> ",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	env.out = rl.Stdout()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Fprintln(env.out, err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if err := env.eval(line); err == errQuit {
			return nil
		} else if err != nil {
			fmt.Fprintln(env.out, err)
		}
	}
}

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		items = append(items, readline.PcItem(cmd.name))
	}
	return readline.NewPrefixCompleter(items...)
}
