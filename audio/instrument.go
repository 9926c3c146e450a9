package audio

import (
	"math"
	"sync/atomic"

	"github.com/mrdg/tilt/log"
	"github.com/mrdg/tilt/tilt"
)

const (
	blockSize  = 16 // this gives about 0.35ms accuracy for sequenced events
	sampleRate = 44100
	bufferSize = 512
)

const numVoices = 4

type voiceState int

const (
	stateFree voiceState = iota
	stateActive
	stateReleased
)

type Voice interface {
	PlayNote(freq float64, duration int)
	Process(buf []float64)
	State() voiceState
	Notify(freq float64)
	Stop()
}

// Instrument is a small polyphonic synth that plays the notes triggered by
// one looping layer. It implements tilt.ArticulatingVoice.
type Instrument struct {
	voices   []Voice
	events   *eventBuffer
	buf      []float64
	level    *atomic.Value
	bpm      *atomic.Value
	disposed atomic.Bool
}

func NewInstrument(level, bpm *atomic.Value, voices []Voice) *Instrument {
	return &Instrument{
		events: newEventBuffer(64),
		buf:    make([]float64, bufferSize),
		level:  level,
		bpm:    bpm,
		voices: voices,
	}
}

// TriggerArticulation queues a note of the given length, starting offset
// samples into the current buffer. It is called from the transport on the
// audio thread.
func (i *Instrument) TriggerArticulation(freq float64, length tilt.NoteValue, offset int) {
	if i.disposed.Load() {
		return
	}
	bpm := i.bpm.Load().(float64)
	duration := int(float64(length) * sampleRate * 60 / bpm)
	if !i.events.push(event{freq: freq, offset: offset, duration: duration}) {
		log.Warnf("instrument: event queue full, dropping note at %.2f Hz", freq)
	}
}

// Dispose silences the instrument. The sink drops it once its voices have
// faded out.
func (i *Instrument) Dispose() {
	i.disposed.Store(true)
}

func (i *Instrument) Process(samples [][]float32) {
	disposed := i.disposed.Load()
	frames := len(samples[0])
	if frames > len(i.buf) {
		frames = len(i.buf)
	}
	for n := 0; n < frames; n += blockSize {
		end := min(n+blockSize, frames)
		i.events.iter(end, func(ev event) {
			if disposed {
				return
			}
			for _, voice := range i.voices {
				voice.Notify(ev.freq)
			}
			voice := i.findFreeVoice()
			if voice == nil {
				log.Debugf("instrument: no free voice available")
				return
			}
			voice.PlayNote(ev.freq, ev.duration)
		})
		for _, voice := range i.voices {
			if voice.State() == stateFree {
				continue
			}
			if disposed {
				voice.Stop()
			}
			voice.Process(i.buf[n:end])
		}
	}
	db := i.level.Load().(float64)
	gain := math.Pow(10, db/20.0)
	for n := 0; n < frames; n++ {
		sample := float32(gain * i.buf[n])
		samples[0][n] += sample
		samples[1][n] += sample
		i.buf[n] = 0
	}
}

// Done reports whether a disposed instrument has gone silent.
func (i *Instrument) Done() bool {
	return i.disposed.Load() && i.activeVoices() == 0
}

func (i *Instrument) activeVoices() int {
	var n int
	for _, voice := range i.voices {
		if voice.State() != stateFree {
			n++
		}
	}
	return n
}

func (i *Instrument) findFreeVoice() Voice {
	for _, voice := range i.voices {
		if voice.State() == stateFree {
			return voice
		}
	}
	return nil
}
