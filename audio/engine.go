package audio

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mrdg/tilt/log"
	"github.com/mrdg/tilt/tilt"
)

// MaxSources bounds the number of sounding sources, including ones that
// are still fading out after being disposed.
const MaxSources = 32

var ErrTooManyVoices = errors.New("too many voices")

type Option func(*Engine)

// Headless makes the engine run without an audio device. With realtime set,
// Resume starts a goroutine that renders buffers at the audio rate;
// otherwise the caller drives the engine with Render.
func Headless(realtime bool) Option {
	return func(e *Engine) {
		e.headless = true
		e.realtime = realtime
	}
}

// Engine is the portaudio backed tone engine. It implements tilt.ToneEngine.
type Engine struct {
	sink      *Sink
	transport *Transport
	tap       *Tap
	synth     *synthParams
	tone      *toneParams
	devices   map[string]Device

	headless bool
	realtime bool

	mu      sync.Mutex
	resumed bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

func NewEngine(opts ...Option) *Engine {
	synthProps := NewProps()
	toneProps := NewProps()
	e := &Engine{
		sink:      NewSink(),
		transport: NewTransport(NewProps()),
		tap:       NewTap(),
		synth:     newSynthParams(synthProps),
		tone:      newToneParams(toneProps),
	}
	e.devices = map[string]Device{
		"synth":     synthProps,
		"tone":      toneProps,
		"transport": e.transport,
	}
	e.sink.AddTicker(e.transport)
	e.sink.AddListener(e.tap)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resume opens and starts the output stream on first use.
func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resumed {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	switch {
	case e.headless && e.realtime:
		e.quit = make(chan struct{})
		e.wg.Add(1)
		go e.clock()
	case !e.headless:
		if err := e.sink.Open(); err != nil {
			return err
		}
		if err := e.sink.Start(); err != nil {
			e.sink.Stop()
			return err
		}
		log.Debugf("audio: output stream started (%d Hz, %d frames)", sampleRate, bufferSize)
	}
	e.resumed = true
	return nil
}

func (e *Engine) clock() {
	defer e.wg.Done()
	period := time.Second * bufferSize / sampleRate
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-e.quit:
			return
		case <-ticker.C:
			e.Render(bufferSize)
		}
	}
}

func (e *Engine) Resumed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resumed
}

func (e *Engine) CreateOscillator(freq float64) (tilt.Oscillator, error) {
	if e.sink.NumSources() >= MaxSources {
		return nil, ErrTooManyVoices
	}
	tone := newTone(e.tone, freq)
	e.sink.AddSource(tone)
	return tone, nil
}

func (e *Engine) CreateArticulatingVoice() (tilt.ArticulatingVoice, error) {
	if e.sink.NumSources() >= MaxSources {
		return nil, ErrTooManyVoices
	}
	voices := make([]Voice, numVoices)
	for i := range voices {
		voices[i] = newSynthVoice(e.synth)
	}
	inst := NewInstrument(e.synth.level, e.transport.bpm, voices)
	e.sink.AddSource(inst)
	return inst, nil
}

func (e *Engine) SetVolumeDb(db float64, ramp time.Duration) {
	e.sink.SetVolumeDb(db, int(ramp.Seconds()*sampleRate))
}

func (e *Engine) Transport() tilt.Transport {
	return e.transport
}

// Render runs the mixer for frames frames and returns the stereo output.
func (e *Engine) Render(frames int) [][]float32 {
	out := [][]float32{make([]float32, frames), make([]float32, frames)}
	for n := 0; n < frames; n += bufferSize {
		end := n + bufferSize
		if end > frames {
			end = frames
		}
		e.sink.Process([][]float32{out[0][n:end], out[1][n:end]})
	}
	return out
}

// Beat reports the transport position in quarter notes and whether the
// transport is running.
func (e *Engine) Beat() (float64, bool) {
	return e.transport.Beat(), e.transport.Running()
}

func (e *Engine) Tap() *Tap {
	return e.tap
}

func (e *Engine) AddListener(l Listener) {
	e.sink.AddListener(l)
}

// Device returns the named set of properties: synth, tone or transport.
func (e *Engine) Device(name string) (Device, error) {
	d, ok := e.devices[name]
	if !ok {
		return nil, errors.Errorf("unknown device: %s", name)
	}
	return d, nil
}

func (e *Engine) DeviceNames() []string {
	names := make([]string, 0, len(e.devices))
	for name := range e.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPreset applies a synth preset.
func (e *Engine) LoadPreset(name string) error {
	return LoadPreset(name, e.devices["synth"])
}

func (e *Engine) SetBPM(bpm float64) error {
	return e.transport.Set(propBPM, bpm)
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.resumed {
		return nil
	}
	e.resumed = false
	if e.quit != nil {
		close(e.quit)
		e.wg.Wait()
		e.quit = nil
	}
	return e.sink.Stop()
}
