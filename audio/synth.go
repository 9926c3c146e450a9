package audio

import (
	"math"
	"sync/atomic"
)

const (
	propCutoff     = "cutoff"
	propEnvAttack  = "env.attack"
	propEnvDecay   = "env.decay"
	propEnvSustain = "env.sustain"
	propEnvRelease = "env.release"
	propOsc1Wave   = "osc1.wave"
	propOsc2Wave   = "osc2.wave"
	propDetune     = "osc2.detune"
	propLevel      = "level"
)

var setWaveform = setOneOf("sine", "triangle", "saw", "square", "off")

// synthParams are shared by every voice of every articulating instrument, so a
// change made from the REPL applies to all layers at once.
type synthParams struct {
	cutoff     *atomic.Value
	envAttack  *atomic.Value
	envDecay   *atomic.Value
	envSustain *atomic.Value
	envRelease *atomic.Value
	osc1Wave   *atomic.Value
	osc2Wave   *atomic.Value
	detune     *atomic.Value
	level      *atomic.Value
}

func newSynthParams(props *Props) *synthParams {
	return &synthParams{
		cutoff:     props.MustRegister(propCutoff, setFloat64(20, 20_000), 2400.0),
		envAttack:  props.MustRegister(propEnvAttack, setEnvParam, 0.005),
		envDecay:   props.MustRegister(propEnvDecay, setEnvParam, 0.15),
		envSustain: props.MustRegister(propEnvSustain, setFloat64(0, 1), 0.4),
		envRelease: props.MustRegister(propEnvRelease, setEnvParam, 0.12),
		osc1Wave:   props.MustRegister(propOsc1Wave, setWaveform, "triangle"),
		osc2Wave:   props.MustRegister(propOsc2Wave, setWaveform, "sine"),
		detune:     props.MustRegister(propDetune, setFloat64(-100, 100), 7.0),
		level:      props.MustRegister(propLevel, setLevel, -6.0),
	}
}

func newSynthVoice(params *synthParams) *synthVoice {
	return &synthVoice{
		params: params,
		state:  stateFree,
		osc1:   &osc{},
		osc2:   &osc{},
		filter: &filter{coefficients: make([]float64, numCoefficients)},
		env:    &envelope{},
		buf:    make([]float64, bufferSize),
	}
}

type synthVoice struct {
	params        *synthParams
	buf           []float64
	osc1          *osc
	osc2          *osc
	filter        *filter
	env           *envelope
	state         voiceState
	freq          float64
	duration      int
	samplesPlayed int
}

func (v *synthVoice) PlayNote(freq float64, duration int) {
	p := v.params
	v.freq = freq
	v.duration = duration
	v.samplesPlayed = 0
	v.env.attack = p.envAttack.Load().(float64)
	v.env.decay = p.envDecay.Load().(float64)
	v.env.sustain = p.envSustain.Load().(float64)
	v.env.release = p.envRelease.Load().(float64)
	v.env.startAttack()
	v.state = stateActive

	v.osc1.setWaveform(p.osc1Wave.Load().(string))
	v.osc1.setFrequency(freq)
	v.osc2.setWaveform(p.osc2Wave.Load().(string))
	v.osc2.setFrequency(freq * math.Pow(2, p.detune.Load().(float64)/1200))
}

func (v *synthVoice) reset() {
	v.freq = 0
	v.filter.y1 = 0.
	v.filter.y2 = 0.
	v.osc1.setFrequency(0)
	v.osc2.setFrequency(0)
	v.state = stateFree
}

func (v *synthVoice) Process(buf []float64) {
	v.filter.calculateCoefficients(v.params.cutoff.Load().(float64))
	tmp := v.buf[0:len(buf)]
	v.osc1.process(tmp)
	v.osc2.process(tmp)
	v.filter.process(tmp)
	v.env.process(tmp)
	v.samplesPlayed += len(buf)
	for n := range tmp {
		buf[n] += 0.5 * tmp[n]
		tmp[n] = 0
	}
	if v.samplesPlayed >= v.duration && v.state != stateReleased {
		v.state = stateReleased
		v.env.startRelease()
	}
	if v.state == stateReleased && v.env.idle() {
		v.reset()
	}
}

// Notify cuts the voice short when the same frequency is played again.
func (v *synthVoice) Notify(freq float64) {
	if v.freq == freq {
		v.Stop()
	}
}

// Stop fades the voice out quickly.
func (v *synthVoice) Stop() {
	if v.state == stateActive {
		v.state = stateReleased
		v.env.release = 0.002
		v.env.startRelease()
	}
}

func (v *synthVoice) State() voiceState { return v.state }

const (
	twoPi           = 2 * math.Pi
	numCoefficients = 5
)

type osc struct {
	phase      float64
	phaseDelta float64
	freq       float64
	fn         func(float64) float64
}

func (o *osc) setFrequency(freq float64) {
	o.freq = freq
	o.phaseDelta = freq * twoPi / sampleRate
}

func (o *osc) process(buf []float64) {
	if o.fn == nil {
		return
	}
	for n := range buf {
		buf[n] += o.fn(o.phase)
		o.phase += o.phaseDelta
		if o.phase >= twoPi {
			o.phase -= twoPi
		}
	}
}

func (o *osc) setWaveform(s string) {
	switch s {
	case "sine":
		o.fn = math.Sin
	case "triangle":
		o.fn = func(phase float64) float64 {
			x := phase / twoPi
			return 4*math.Abs(x-math.Floor(x+0.5)) - 1
		}
	case "saw":
		o.fn = func(phase float64) float64 {
			return (2.0 * phase / twoPi) - 1.
		}
	case "square":
		o.fn = func(phase float64) float64 {
			if phase <= math.Pi {
				return 1.0
			}
			return -1.0
		}
	case "off":
		o.fn = func(_ float64) float64 { return 0 }
	}
}

type filter struct {
	coefficients []float64

	// state
	y1, y2 float64 // y[n-1] y[n-2]
}

// Lowpass filter based on https://www.w3.org/2011/audio/audio-eq-cookbook.html
func (f *filter) process(buf []float64) {
	c0 := f.coefficients[0]
	c1 := f.coefficients[1]
	c2 := f.coefficients[2]
	c3 := f.coefficients[3]
	c4 := f.coefficients[4]

	for n := range buf {
		in := buf[n]
		out := c0*in + f.y1
		buf[n] = out
		f.y1 = c1*in - c3*out + f.y2
		f.y2 = c2*in - c4*out
	}
}

func (f *filter) calculateCoefficients(freq float64) {
	omega := 2 * math.Pi * freq / sampleRate
	cos := math.Cos(omega)
	sin := math.Sin(omega)

	const q = 1
	alpha := sin / (2. * q)

	var b0, b1, b2, a0, a1, a2 float64

	b0 = (1 - cos) / 2
	b1 = 1 - cos
	b2 = b0
	a0 = 1 + alpha
	a1 = -2 * cos
	a2 = 1 - alpha

	f.coefficients[0] = b0 / a0
	f.coefficients[1] = b1 / a0
	f.coefficients[2] = b2 / a0
	f.coefficients[3] = a1 / a0
	f.coefficients[4] = a2 / a0
}
