package main

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrdg/tilt/audio"
	"github.com/mrdg/tilt/tilt"
)

const (
	frameRate  = time.Second / 30
	waveHeight = 9
	tiltStep   = 5.
)

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// model shows the master output and session state. It only reads from the
// engine; keys are turned into the same session calls the REPL makes.
type model struct {
	env     *env
	engine  *audio.Engine
	tilt    float64
	width   int
	wave    []float32
	level   float64
	beat    float64
	running bool
	snap    tilt.Snapshot
	err     error
}

func newModel(env *env, engine *audio.Engine) model {
	return model{
		env:    env,
		engine: engine,
		width:  80,
		wave:   make([]float32, 1024),
	}
}

func (m model) Init() tea.Cmd {
	return nextFrame()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			_, m.err = tapCommand(m.env, nil)
		case "enter":
			// a long press without blocking the UI
			now := m.env.now()
			if m.err = m.env.session.Press(now); m.err == nil {
				m.err = m.env.session.Release(now.Add(m.env.longPress))
			}
		case "s":
			m.err = m.env.session.StopAll()
		case "up", "k":
			m.setTilt(m.tilt + tiltStep)
		case "down", "j":
			m.setTilt(m.tilt - tiltStep)
		case "0":
			m.setTilt(0)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case frameMsg:
		tap := m.engine.Tap()
		n := tap.Waveform(m.wave[:cap(m.wave)])
		m.wave = m.wave[:n]
		m.level = tap.Level()
		m.beat, m.running = m.engine.Beat()
		if snap, err := m.env.session.Snapshot(); err == nil {
			m.snap = snap
			m.tilt = snap.Tilt
		} else {
			m.err = err
			return m, tea.Quit
		}
		return m, nextFrame()
	}
	return m, nil
}

func (m *model) setTilt(deg float64) {
	if deg > 90 {
		deg = 90
	} else if deg < -90 {
		deg = -90
	}
	m.tilt = deg
	m.err = m.env.session.Orientation(&deg)
}

func (m model) View() string {
	var b strings.Builder
	for _, line := range renderWaveform(m.wave, m.width, waveHeight) {
		b.WriteString(waveStyle.Render(line))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	renderMeter(m.level, m.beat, m.running, &b)
	renderStatus(m.snap, &b)
	if m.err != nil {
		b.WriteString(m.err.Error() + "\n")
	}
	b.WriteString(dimStyle.Render("space tap · enter hold · ↑/↓ tilt · 0 level · s stop · q quit"))
	b.WriteByte('\n')
	return b.String()
}

func runTUI(env *env, engine *audio.Engine) error {
	_, err := tea.NewProgram(newModel(env, engine), tea.WithAltScreen()).Run()
	return err
}
