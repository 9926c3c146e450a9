package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mrdg/tilt/audio"
	"github.com/mrdg/tilt/dub"
	"github.com/mrdg/tilt/tilt"
)

type command struct {
	name    string
	run     func(*env, []dub.Node) (string, error)
	minArgs int
	maxArgs int // -1 means no limit
	usage   string
	help    string
}

var commands []command

func init() {
	commands = []command{
		{"tilt", tiltCommand, 1, 1, "<degrees>", "set the front-back tilt (-180 to 180)"},
		{"press", pressCommand, 0, 0, "", "press the screen"},
		{"release", releaseCommand, 0, 0, "", "release the screen"},
		{"tap", tapCommand, 0, 0, "", "press and release right away"},
		{"hold", holdCommand, 0, 1, "[ms]", "press, wait and release (a long press by default)"},
		{"wait", waitCommand, 1, 1, "<ms>", "pause, useful in scripts"},
		{"scale", scaleCommand, 1, -1, "<name>", "quantize to a scale, Off for free pitch"},
		{"scales", scalesCommand, 0, 0, "", "list the available scales"},
		{"stop", stopCommand, 0, 0, "", "stop every voice"},
		{"status", statusCommand, 0, 0, "", "show the active voices"},
		{"set", setCommand, 3, 3, "<device> <prop> <value>", "set a sound property"},
		{"get", getCommand, 1, 2, "<device> [prop]", "show sound properties"},
		{"preset", presetCommand, 1, 1, "<name>", "load a synth preset: " + strings.Join(audio.PresetNames(), ", ")},
		{"help", helpCommand, 0, 0, "", "show this help"},
		{"quit", quitCommand, 0, 0, "", "exit"},
	}
}

func tiltCommand(env *env, args []dub.Node) (string, error) {
	var deg float64
	if err := readArgs(args, &deg); err != nil {
		return "", err
	}
	if deg < -180 || deg > 180 {
		return "", errors.Errorf("tilt out of range: %v", deg)
	}
	return "", env.session.Orientation(&deg)
}

func pressCommand(env *env, args []dub.Node) (string, error) {
	return "", env.session.Press(env.now())
}

func releaseCommand(env *env, args []dub.Node) (string, error) {
	return "", env.session.Release(env.now())
}

func tapCommand(env *env, args []dub.Node) (string, error) {
	t := env.now()
	if err := env.session.Press(t); err != nil {
		return "", err
	}
	return "", env.session.Release(t)
}

func holdCommand(env *env, args []dub.Node) (string, error) {
	d := env.longPress
	if len(args) == 1 {
		var ms int
		if err := readArgs(args, &ms); err != nil {
			return "", err
		}
		d = time.Duration(ms) * time.Millisecond
	}
	if err := env.session.Press(env.now()); err != nil {
		return "", err
	}
	env.sleep(d)
	return "", env.session.Release(env.now())
}

func waitCommand(env *env, args []dub.Node) (string, error) {
	var ms int
	if err := readArgs(args, &ms); err != nil {
		return "", err
	}
	if ms < 0 {
		return "", errors.Errorf("negative wait: %d", ms)
	}
	env.sleep(time.Duration(ms) * time.Millisecond)
	return "", nil
}

// scaleCommand accepts the name quoted or as separate words: scale C Major.
func scaleCommand(env *env, args []dub.Node) (string, error) {
	words := make([]string, len(args))
	for i, arg := range args {
		words[i] = fmt.Sprint(arg.Value())
	}
	sc, err := tilt.LookupScale(strings.Join(words, " "))
	if err != nil {
		return "", err
	}
	return "", env.session.SetScale(sc)
}

func scalesCommand(env *env, args []dub.Node) (string, error) {
	var b strings.Builder
	renderScales(&b)
	return strings.TrimRight(b.String(), "\n"), nil
}

func stopCommand(env *env, args []dub.Node) (string, error) {
	return "", env.session.StopAll()
}

func statusCommand(env *env, args []dub.Node) (string, error) {
	snap, err := env.session.Snapshot()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderStatus(snap, &b)
	return strings.TrimRight(b.String(), "\n"), nil
}

func setCommand(env *env, args []dub.Node) (string, error) {
	var device, prop string
	if err := readArgs(args[:2], &device, &prop); err != nil {
		return "", err
	}
	return "", env.setProp(device, prop, args[2].Value())
}

func getCommand(env *env, args []dub.Node) (string, error) {
	var device string
	if err := readArgs(args[:1], &device); err != nil {
		return "", err
	}
	if len(args) == 2 {
		var prop string
		if err := readArgs(args[1:], &prop); err != nil {
			return "", err
		}
		v, err := env.getProp(device, prop)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(v), nil
	}
	d, err := env.engine.Device(device)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, key := range d.Keys() {
		v, _ := d.Get(key)
		lines = append(lines, fmt.Sprintf("%-12s %v", key, v))
	}
	return strings.Join(lines, "\n"), nil
}

func presetCommand(env *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	return "", env.engine.LoadPreset(name)
}

func helpCommand(env *env, args []dub.Node) (string, error) {
	var lines []string
	for _, cmd := range commands {
		lines = append(lines, fmt.Sprintf("  %-30s %s", strings.TrimSpace(cmd.name+" "+cmd.usage), cmd.help))
	}
	lines = append(lines, "", "devices: "+strings.Join(env.engine.DeviceNames(), ", "))
	return strings.Join(lines, "\n"), nil
}

func quitCommand(env *env, args []dub.Node) (string, error) {
	return "", errQuit
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return errors.Errorf("argument error: expected a string or identifier, got %v", arg.Value())
			}
		case *float64:
			switch f := arg.(type) {
			case dub.Float:
				*p = float64(f)
			case dub.Int:
				*p = float64(f)
			default:
				return errors.Errorf("argument error: expected a number, got %v", arg.Value())
			}
		case *int:
			i, ok := arg.(dub.Int)
			if !ok {
				return errors.Errorf("argument error: expected an integer, got %v", arg.Value())
			}
			*p = int(i)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
