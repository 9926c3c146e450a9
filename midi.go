package main

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"github.com/mrdg/tilt/log"
)

const ccModWheel = 1

// gestureInput is what a controller can drive: tilt samples and presses.
type gestureInput interface {
	Orientation(beta *float64) error
	Press(t time.Time) error
	Release(t time.Time) error
}

// midiInput turns controller messages into tilt and gestures. The pitch
// bend wheel and the mod wheel both tilt; any key acts as the screen, held
// for as long as at least one key is down.
type midiInput struct {
	target gestureInput
	now    func() time.Time
	held   map[uint8]bool
}

func newMIDIInput(target gestureInput) *midiInput {
	return &midiInput{
		target: target,
		now:    time.Now,
		held:   make(map[uint8]bool),
	}
}

func (m *midiInput) handle(msg gomidi.Message) error {
	var channel, key, velocity, controller, value uint8
	var bend int16
	var abs uint16
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
		return m.keyDown(key)
	case msg.GetNoteOn(&channel, &key, &velocity), msg.GetNoteOff(&channel, &key, &velocity):
		return m.keyUp(key)
	case msg.GetPitchBend(&channel, &bend, &abs):
		deg := bendToTilt(bend)
		return m.target.Orientation(&deg)
	case msg.GetControlChange(&channel, &controller, &value) && controller == ccModWheel:
		deg := ccToTilt(value)
		return m.target.Orientation(&deg)
	}
	return nil
}

func (m *midiInput) keyDown(key uint8) error {
	if m.held[key] {
		return nil
	}
	m.held[key] = true
	if len(m.held) > 1 {
		return nil
	}
	return m.target.Press(m.now())
}

func (m *midiInput) keyUp(key uint8) error {
	if !m.held[key] {
		return nil
	}
	delete(m.held, key)
	if len(m.held) > 0 {
		return nil
	}
	return m.target.Release(m.now())
}

// bendToTilt maps the 14-bit pitch bend range onto -90..90 degrees.
func bendToTilt(bend int16) float64 {
	if bend < 0 {
		return float64(bend) / 8192 * 90
	}
	return float64(bend) / 8191 * 90
}

func ccToTilt(value uint8) float64 {
	return float64(value)/127*180 - 90
}

// listenMIDI opens the named input port and feeds its messages to target.
// The returned function stops listening.
func listenMIDI(port string, target gestureInput) (func(), error) {
	in, err := gomidi.FindInPort(port)
	if err != nil {
		return nil, errors.Wrapf(err, "find midi port %q", port)
	}
	input := newMIDIInput(target)
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		if err := input.handle(msg); err != nil {
			log.Warnf("midi: %v", err)
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listen to %s", in)
	}
	log.Infof("midi: listening to %s", in)
	return stop, nil
}

func listMIDIPorts(w io.Writer) {
	ports := gomidi.GetInPorts()
	if len(ports) == 0 {
		fmt.Fprintln(w, "no midi input ports")
		return
	}
	for _, p := range ports {
		fmt.Fprintf(w, "%d: %s\n", p.Number(), p.String())
	}
}
