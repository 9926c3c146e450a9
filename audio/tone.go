package audio

import (
	"math"
	"sync/atomic"
)

const (
	propToneWave    = "wave"
	propToneGlide   = "glide"
	propToneAttack  = "attack"
	propToneRelease = "release"
	propToneLevel   = "level"
)

type toneParams struct {
	wave    *atomic.Value
	glide   *atomic.Value
	attack  *atomic.Value
	release *atomic.Value
	level   *atomic.Value
}

func newToneParams(props *Props) *toneParams {
	return &toneParams{
		wave:    props.MustRegister(propToneWave, setWaveform, "sine"),
		glide:   props.MustRegister(propToneGlide, setFloat64(0, 2), 0.03),
		attack:  props.MustRegister(propToneAttack, setEnvParam, 0.02),
		release: props.MustRegister(propToneRelease, setEnvParam, 0.08),
		level:   props.MustRegister(propToneLevel, setLevel, -3.0),
	}
}

// Tone is a sustained oscillator whose pitch glides towards the last
// frequency set. It implements tilt.Oscillator. The control methods may be
// called from any goroutine; Process runs on the audio thread.
type Tone struct {
	params   *toneParams
	target   atomic.Uint64
	gate     atomic.Bool
	disposed atomic.Bool

	// audio thread state
	gateOpen bool
	freq     float64
	osc      osc
	env      envelope
	buf      []float64
}

func newTone(params *toneParams, freq float64) *Tone {
	t := &Tone{
		params: params,
		freq:   freq,
		buf:    make([]float64, bufferSize),
	}
	t.SetFrequency(freq)
	return t
}

func (t *Tone) Start() { t.gate.Store(true) }

func (t *Tone) Stop() { t.gate.Store(false) }

// Dispose stops the tone for good. The sink drops it once it has faded out.
func (t *Tone) Dispose() {
	t.gate.Store(false)
	t.disposed.Store(true)
}

func (t *Tone) SetFrequency(freq float64) { t.target.Store(math.Float64bits(freq)) }

func (t *Tone) Frequency() float64 { return math.Float64frombits(t.target.Load()) }

func (t *Tone) Done() bool { return t.disposed.Load() && t.env.idle() }

func (t *Tone) Process(samples [][]float32) {
	if gate := t.gate.Load(); gate != t.gateOpen {
		t.gateOpen = gate
		if gate {
			t.env.attack = t.params.attack.Load().(float64)
			t.env.decay = 1
			t.env.sustain = 1
			t.env.release = t.params.release.Load().(float64)
			t.osc.setWaveform(t.params.wave.Load().(string))
			t.env.startAttack()
		} else {
			t.env.startRelease()
		}
	}
	if t.env.idle() {
		return
	}

	target := t.Frequency()
	// one-pole smoothing towards the target pitch
	coef := 0.0
	if glide := t.params.glide.Load().(float64); glide > 0 {
		coef = math.Exp(-1 / (glide * sampleRate))
	}
	gain := math.Pow(10, t.params.level.Load().(float64)/20)

	n := len(samples[0])
	if n > len(t.buf) {
		n = len(t.buf)
	}
	for i := 0; i < n; i++ {
		t.freq = target + (t.freq-target)*coef
		t.osc.setFrequency(t.freq)
		t.osc.process(t.buf[i : i+1])
	}
	t.env.process(t.buf[:n])
	for i := 0; i < n; i++ {
		sample := float32(gain * t.buf[i])
		samples[0][i] += sample
		samples[1][i] += sample
		t.buf[i] = 0
	}
}
