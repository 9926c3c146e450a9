package tilt

import (
	"context"
	"fmt"
	"time"
)

// NoteValue is a musical duration measured in quarter notes.
type NoteValue float64

const (
	WholeNote     NoteValue = 4
	HalfNote      NoteValue = 2
	QuarterNote   NoteValue = 1
	EighthNote    NoteValue = 0.5
	SixteenthNote NoteValue = 0.25
)

func (n NoteValue) String() string {
	if n <= 0 {
		return "0n"
	}
	if d := 4 / float64(n); d == float64(int(d)) {
		return fmt.Sprintf("%dn", int(d))
	}
	return fmt.Sprintf("%gq", float64(n))
}

// Oscillator is a continuously sounding tone.
type Oscillator interface {
	Start()
	Stop()
	Dispose()
	SetFrequency(freq float64)
}

// ArticulatingVoice plays short notes on demand. offset is the position in
// samples within the current audio buffer at which the note starts.
type ArticulatingVoice interface {
	TriggerArticulation(freq float64, length NoteValue, offset int)
	Dispose()
}

// Transport is the global pulse scheduler. Callbacks passed to
// ScheduleRepeat are invoked from the audio thread and must not block.
type Transport interface {
	Start() error
	Stop()
	CancelAll()
	ScheduleRepeat(fn func(offset int), interval NoteValue) (int, error)
	Clear(id int)
}

// ToneEngine produces the sound for the session.
type ToneEngine interface {
	// Resume makes sure audio output is running. It is idempotent.
	Resume(ctx context.Context) error
	CreateOscillator(freq float64) (Oscillator, error)
	CreateArticulatingVoice() (ArticulatingVoice, error)
	SetVolumeDb(db float64, ramp time.Duration)
	Transport() Transport
}
