package tilt

import (
	"math"
	"sync/atomic"
)

type VoiceKind int

const (
	KindContinuous VoiceKind = iota
	KindPreview
	KindFixed
)

func (k VoiceKind) String() string {
	switch k {
	case KindContinuous:
		return "continuous"
	case KindPreview:
		return "preview"
	case KindFixed:
		return "fixed"
	}
	return "unknown"
}

// Voice is one layer of sound. Stop releases the engine handle and may be
// called more than once.
type Voice interface {
	Kind() VoiceKind
	Start() error
	Stop()
	Frequency() float64
}

// A pitchRefresher follows the live tilt sample. Fixed voices don't.
type pitchRefresher interface {
	RefreshPitch()
}

type continuousVoice struct {
	osc     Oscillator
	pitch   func() float64
	freq    float64
	stopped bool
}

func newContinuousVoice(osc Oscillator, pitch func() float64, freq float64) *continuousVoice {
	return &continuousVoice{osc: osc, pitch: pitch, freq: freq}
}

func (v *continuousVoice) Kind() VoiceKind { return KindContinuous }

func (v *continuousVoice) Start() error {
	v.osc.Start()
	return nil
}

func (v *continuousVoice) RefreshPitch() {
	if v.stopped {
		return
	}
	v.freq = v.pitch()
	v.osc.SetFrequency(v.freq)
}

func (v *continuousVoice) Frequency() float64 { return v.freq }

func (v *continuousVoice) Stop() {
	if v.stopped {
		return
	}
	v.stopped = true
	v.osc.Stop()
	v.osc.Dispose()
}

// loopVoice repeats a short note on every quarter note of the transport.
type loopVoice struct {
	synth     ArticulatingVoice
	transport Transport
	id        int
	scheduled bool
	stopped   bool
	freq      atomic.Uint64
}

func (v *loopVoice) start(pulse func(offset int)) error {
	id, err := v.transport.ScheduleRepeat(pulse, QuarterNote)
	if err != nil {
		return err
	}
	v.id = id
	v.scheduled = true
	return nil
}

func (v *loopVoice) setFrequency(f float64) { v.freq.Store(math.Float64bits(f)) }

func (v *loopVoice) Frequency() float64 { return math.Float64frombits(v.freq.Load()) }

func (v *loopVoice) Stop() {
	if v.stopped {
		return
	}
	v.stopped = true
	if v.scheduled {
		v.transport.Clear(v.id)
		v.scheduled = false
	}
	v.synth.Dispose()
}

// previewVoice samples the live pitch on every pulse.
type previewVoice struct {
	loopVoice
	pitch func() float64
}

func newPreviewVoice(synth ArticulatingVoice, transport Transport, pitch func() float64) *previewVoice {
	v := &previewVoice{
		loopVoice: loopVoice{synth: synth, transport: transport},
		pitch:     pitch,
	}
	v.setFrequency(pitch())
	return v
}

func (v *previewVoice) Kind() VoiceKind { return KindPreview }

func (v *previewVoice) Start() error { return v.start(v.pulse) }

func (v *previewVoice) RefreshPitch() { v.setFrequency(v.pitch()) }

func (v *previewVoice) pulse(offset int) {
	v.RefreshPitch()
	v.synth.TriggerArticulation(v.Frequency(), EighthNote, offset)
}

// fixedVoice keeps the pitch it was created with.
type fixedVoice struct {
	loopVoice
}

func newFixedVoice(synth ArticulatingVoice, transport Transport, freq float64) *fixedVoice {
	v := &fixedVoice{loopVoice: loopVoice{synth: synth, transport: transport}}
	v.setFrequency(freq)
	return v
}

func (v *fixedVoice) Kind() VoiceKind { return KindFixed }

func (v *fixedVoice) Start() error { return v.start(v.pulse) }

func (v *fixedVoice) pulse(offset int) {
	v.synth.TriggerArticulation(v.Frequency(), EighthNote, offset)
}
