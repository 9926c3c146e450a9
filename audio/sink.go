package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

type Source interface {
	Process([][]float32)
}

type Ticker interface {
	Tick(numSamples int)
}

// Listener receives the master output after gain has been applied. It is
// called on the audio thread and must not block.
type Listener interface {
	Listen(samples [][]float32)
}

// retirable sources are removed from the sink once they report Done.
type retirable interface {
	Done() bool
}

// Sink mixes its sources into the output stream. Process holds mu for the
// whole callback, so sources and tickers are never touched concurrently
// with it.
type Sink struct {
	mu        sync.Mutex
	sources   []Source
	tickers   []Ticker
	listeners []Listener
	gain      gainRamp
	stream    *portaudio.Stream
}

func NewSink() *Sink {
	return &Sink{}
}

// Open initializes portaudio and opens the default stereo output stream.
func (s *Sink) Open() error {
	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "initialize portaudio")
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, bufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return errors.Wrap(err, "open output stream")
	}
	s.stream = stream
	return nil
}

func (s *Sink) Start() error {
	if s.stream == nil {
		return errors.New("sink: stream is not open")
	}
	return errors.Wrap(s.stream.Start(), "start output stream")
}

func (s *Sink) Stop() error {
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	portaudio.Terminate()
	s.stream = nil
	return errors.Wrap(err, "close output stream")
}

func (s *Sink) AddSource(source Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, source)
}

func (s *Sink) NumSources() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sources)
}

func (s *Sink) AddTicker(ticker Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickers = append(s.tickers, ticker)
}

func (s *Sink) AddListener(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// SetVolumeDb ramps the master gain to db over numSamples samples.
func (s *Sink) SetVolumeDb(db float64, numSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gain.set(dbToGain(db), numSamples)
}

func (s *Sink) Process(samples [][]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range samples {
		for j := range samples[i] {
			samples[i][j] = 0.
		}
	}
	for _, ticker := range s.tickers {
		ticker.Tick(len(samples[0]))
	}
	live := s.sources[:0]
	for _, source := range s.sources {
		source.Process(samples)
		if r, ok := source.(retirable); ok && r.Done() {
			continue
		}
		live = append(live, source)
	}
	for i := len(live); i < len(s.sources); i++ {
		s.sources[i] = nil
	}
	s.sources = live

	for j := range samples[0] {
		g := float32(s.gain.next())
		for i := range samples {
			samples[i][j] *= g
		}
	}
	for _, l := range s.listeners {
		l.Listen(samples)
	}
}

func dbToGain(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	return math.Pow(10, db/20)
}

// gainRamp moves linearly from its current value to a target.
type gainRamp struct {
	value     float64
	target    float64
	step      float64
	remaining int
}

func (g *gainRamp) set(target float64, numSamples int) {
	g.target = target
	if numSamples <= 0 {
		g.value = target
		g.remaining = 0
		return
	}
	g.step = (target - g.value) / float64(numSamples)
	g.remaining = numSamples
}

func (g *gainRamp) next() float64 {
	if g.remaining > 0 {
		g.value += g.step
		g.remaining--
		if g.remaining == 0 {
			g.value = g.target
		}
	}
	return g.value
}
