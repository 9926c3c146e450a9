package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/mrdg/tilt/tilt"
)

// Pulses per quarter note
const PPQN = 960.

const propBPM = "bpm"

// Transport is the pulse clock shared by all looping layers. It is advanced
// by the sink once per audio buffer and fires repeating events on the
// musical grid, so every layer stays in step with the others.
type Transport struct {
	*Props
	bpm        *atomic.Value
	sampleRate float64

	mu      sync.Mutex
	running bool
	pos     float64 // in pulses, fractional between buffers
	nextID  int
	events  []*repeatEvent

	// pos is derived from a sample count since the last tempo change, so
	// rounding errors don't add up from one buffer to the next.
	basePos     float64
	baseBPM     float64
	baseSamples uint64
}

type repeatEvent struct {
	id       int
	interval uint64 // in pulses
	fn       func(offset int)
}

func NewTransport(props *Props) *Transport {
	return &Transport{
		Props:      props,
		sampleRate: sampleRate,
		bpm:        props.MustRegister(propBPM, setFloat64(20, 500), 120.0),
	}
}

// Start restarts the clock from the first beat. Starting a running
// transport does nothing.
func (t *Transport) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		t.running = true
		t.rebase(0, t.bpm.Load().(float64))
	}
	return nil
}

func (t *Transport) Stop() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

func (t *Transport) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// CancelAll removes every scheduled event. No removed callback runs after
// CancelAll returns.
func (t *Transport) CancelAll() {
	t.mu.Lock()
	t.events = nil
	t.mu.Unlock()
}

// ScheduleRepeat calls fn on every multiple of interval while the transport
// runs. fn receives the sample offset of the pulse in the current buffer.
func (t *Transport) ScheduleRepeat(fn func(offset int), interval tilt.NoteValue) (int, error) {
	pulses := uint64(math.Round(float64(interval) * PPQN))
	if pulses == 0 {
		return 0, errors.Errorf("interval too short: %v", interval)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.events = append(t.events, &repeatEvent{id: t.nextID, interval: pulses, fn: fn})
	return t.nextID, nil
}

// Clear removes a single event. Unknown ids are ignored.
func (t *Transport) Clear(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for n, ev := range t.events {
		if ev.id == id {
			t.events = append(t.events[:n:n], t.events[n+1:]...)
			return
		}
	}
}

// Beat returns the position of the clock in quarter notes.
func (t *Transport) Beat() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos / PPQN
}

func (t *Transport) rebase(pos, bpm float64) {
	t.pos = pos
	t.basePos = pos
	t.baseBPM = bpm
	t.baseSamples = 0
}

// Tick advances the clock by numSamples and fires every event whose pulse
// falls inside the buffer.
func (t *Transport) Tick(numSamples int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	bpm := t.bpm.Load().(float64)
	if bpm != t.baseBPM {
		t.rebase(t.pos, bpm)
	}
	t.baseSamples += uint64(numSamples)

	start := t.pos
	end := t.basePos + float64(t.baseSamples)*bpm*PPQN/(60*t.sampleRate)
	samplesPerPulse := 60 * t.sampleRate / (bpm * PPQN)
	for _, ev := range t.events {
		interval := float64(ev.interval)
		for pulse := math.Ceil(start/interval) * interval; pulse < end; pulse += interval {
			offset := int(math.Round((pulse - start) * samplesPerPulse))
			if offset >= numSamples {
				offset = numSamples - 1
			}
			ev.fn(offset)
		}
	}
	t.pos = end
}
