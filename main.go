package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/xlab/closer"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/mrdg/tilt/audio"
	"github.com/mrdg/tilt/config"
	"github.com/mrdg/tilt/log"
	"github.com/mrdg/tilt/tilt"
)

var version string

func init() {
	if version == "" {
		version = "unknown"
	}
}

// time given to voices to fade out before the stream is closed
const shutdownFade = 150 * time.Millisecond

// maximum length of a --record session
const maxRecordSeconds = 10 * 60

var globalFlags = []cli.Flag{
	cli.Float64Flag{
		Name:  "bpm",
		Usage: `Tempo of the looping voices`,
		Value: 120,
	},
	cli.StringFlag{
		Name:  "scale",
		Usage: `Scale to quantize to ("Off" for free pitch)`,
		Value: "Off",
	},
	cli.StringFlag{
		Name:  "run",
		Usage: `Run the REPL commands in a script file first`,
	},
	cli.StringFlag{
		Name:  "record",
		Usage: `Record the output to a WAV file`,
	},
	cli.StringFlag{
		Name:  "midi",
		Usage: `MIDI input port used for tilt and presses`,
	},
	cli.StringFlag{
		Name:  "config",
		Usage: `Config file (default ~/.config/tilt/config.json)`,
	},
	cli.BoolFlag{
		Name:  "tui",
		Usage: `Show the waveform view instead of the REPL`,
	},
	cli.BoolFlag{
		Name:  "headless",
		Usage: `Run without an audio device`,
	},
	cli.StringFlag{
		Name:  "log",
		Usage: `Write log messages to a file`,
	},
	cli.StringFlag{
		Name:  "log-level",
		Usage: `One of none, error, warn, info or debug`,
	},
	cli.BoolFlag{
		Name:  "debug, d",
		Usage: `Show debug messages`,
	},
	cli.BoolFlag{
		Name:  "quiet, q",
		Usage: `Suppress information messages`,
	},
}

var scalesCmd = cli.Command{
	Name:  "scales",
	Usage: "Lists the available scales",
	Action: func(ctx *cli.Context) error {
		renderScales(os.Stdout)
		return nil
	},
}

var freqsCmd = cli.Command{
	Name:      "freqs",
	Usage:     "Prints the frequency table of a scale",
	ArgsUsage: "<scale>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() < 1 {
			cli.ShowCommandHelp(ctx, "freqs")
			return cli.NewExitError("", 1)
		}
		cfg, err := loadConfig(ctx)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		sc, err := tilt.LookupScale(strings.Join(ctx.Args(), " "))
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if err := renderFreqs(os.Stdout, sc, cfg.MinOctave, cfg.MaxOctave); err != nil {
			return cli.NewExitError(err, 1)
		}
		return nil
	},
}

var midiPortsCmd = cli.Command{
	Name:  "midi-ports",
	Usage: "Lists the MIDI input ports",
	Action: func(ctx *cli.Context) error {
		defer gomidi.CloseDriver()
		listMIDIPorts(os.Stdout)
		return nil
	},
}

var saveConfigCmd = cli.Command{
	Name:  "save-config",
	Usage: "Writes the current settings, flags included, to the config file",
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if path := ctx.GlobalString("config"); path != "" {
			err = cfg.SaveFile(path)
		} else {
			err = cfg.Save()
		}
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		log.Infof("config saved")
		return nil
	},
}

func main() {
	app := cli.NewApp()
	app.Name = "tilt"
	app.Version = version
	app.Usage = "Plays tones whose pitch follows the tilt of the device"
	app.HelpName = "tilt"
	app.Flags = globalFlags
	app.Commands = []cli.Command{
		scalesCmd,
		freqsCmd,
		midiPortsCmd,
		saveConfigCmd,
	}
	app.Before = setupLog
	app.Action = func(ctx *cli.Context) error {
		if err := play(ctx); err != nil {
			return cli.NewExitError(err, 1)
		}
		return nil
	}

	cli.OsExiter = closer.Exit
	if err := app.Run(os.Args); err != nil {
		log.Errorf("%v", err)
		closer.Exit(1)
	}
	closer.Close()
}

func setupLog(ctx *cli.Context) error {
	if ctx.GlobalBool("debug") {
		log.Level = log.LevelDebug
	} else if ctx.GlobalBool("quiet") {
		log.Level = log.LevelWarn
	}
	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		log.Level = level
	}
	path := ctx.GlobalString("log")
	if path == "" && ctx.GlobalBool("tui") {
		// the terminal belongs to the view
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.WithStack(err)
		}
		path = filepath.Join(dir, "tilt.log")
	}
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	log.SetOutput(f)
	closer.Bind(func() {
		log.SetOutput(os.Stderr)
		f.Close()
	})
	return nil
}

// loadConfig reads the config file and applies the flags given on the
// command line on top of it.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := ctx.GlobalString("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if ctx.GlobalIsSet("bpm") {
		cfg.BPM = ctx.GlobalFloat64("bpm")
	}
	if ctx.GlobalIsSet("scale") {
		cfg.Scale = ctx.GlobalString("scale")
	}
	if ctx.GlobalIsSet("midi") {
		cfg.MIDIPort = ctx.GlobalString("midi")
	}
	return cfg, cfg.Validate()
}

func sessionOptions(cfg *config.Config) (tilt.Options, error) {
	sc, err := tilt.LookupScale(cfg.Scale)
	if err != nil {
		return tilt.Options{}, err
	}
	return tilt.Options{
		Scale:     sc,
		MinOctave: cfg.MinOctave,
		MaxOctave: cfg.MaxOctave,
		LongPress: time.Duration(cfg.LongPressMs) * time.Millisecond,
		DoubleTap: time.Duration(cfg.DoubleTapMs) * time.Millisecond,
	}, nil
}

func play(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	opts, err := sessionOptions(cfg)
	if err != nil {
		return err
	}

	var engineOpts []audio.Option
	if ctx.GlobalBool("headless") {
		engineOpts = append(engineOpts, audio.Headless(true))
	}
	engine := audio.NewEngine(engineOpts...)
	if err := engine.SetBPM(cfg.BPM); err != nil {
		return err
	}
	if cfg.Preset != "" {
		if err := engine.LoadPreset(cfg.Preset); err != nil {
			return err
		}
	}

	// Hooks run in reverse order: the recording is saved after the engine
	// has stopped feeding it.
	if path := ctx.GlobalString("record"); path != "" {
		rec := audio.NewRecorder(maxRecordSeconds)
		engine.AddListener(rec)
		closer.Bind(func() {
			defer rec.Close()
			if rec.Truncated() {
				log.Warnf("recording was cut off after %d minutes", maxRecordSeconds/60)
			}
			if n := rec.Dropped(); n > 0 {
				log.Warnf("recording lost %d frames", n)
			}
			if err := rec.Save(path); err != nil {
				log.Errorf("save recording: %v", err)
				return
			}
			log.Infof("recorded %v to %s", rec.Duration().Round(time.Millisecond), path)
		})
	}

	sess, err := tilt.NewSession(engine, opts)
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(context.Background())
	go sess.Run(runCtx)
	closer.Bind(func() {
		cancel()
		<-sess.Done()
		if engine.Resumed() {
			time.Sleep(shutdownFade)
		}
		if err := engine.Close(); err != nil {
			log.Warnf("close audio: %v", err)
		}
	})

	if cfg.MIDIPort != "" {
		stop, err := listenMIDI(cfg.MIDIPort, sess)
		if err != nil {
			return err
		}
		closer.Bind(func() {
			stop()
			gomidi.CloseDriver()
		})
	}

	env := newEnv(sess, engine, os.Stdout, opts.LongPress)
	if path := ctx.GlobalString("run"); path != "" {
		if err := runScriptFile(env, path); err == errQuit {
			return nil
		} else if err != nil {
			return err
		}
	}
	if ctx.GlobalBool("tui") {
		return runTUI(env, engine)
	}
	return repl(env)
}
