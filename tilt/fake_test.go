package tilt

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
)

type fakeOsc struct {
	freq     float64
	started  bool
	stopped  bool
	disposed int
}

func (o *fakeOsc) Start()                    { o.started = true }
func (o *fakeOsc) Stop()                     { o.stopped = true }
func (o *fakeOsc) Dispose()                  { o.disposed++ }
func (o *fakeOsc) SetFrequency(freq float64) { o.freq = freq }

type fakeSynth struct {
	notes    []float64
	lengths  []NoteValue
	disposed int
}

func (s *fakeSynth) TriggerArticulation(freq float64, length NoteValue, offset int) {
	s.notes = append(s.notes, freq)
	s.lengths = append(s.lengths, length)
}

func (s *fakeSynth) Dispose() { s.disposed++ }

type fakeTransport struct {
	next         int
	events       map[int]func(int)
	running      bool
	cancels      int
	failSchedule bool
	failStart    bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{events: make(map[int]func(int))}
}

func (t *fakeTransport) Start() error {
	if t.failStart {
		return errors.New("transport broken")
	}
	t.running = true
	return nil
}

func (t *fakeTransport) Stop() { t.running = false }

func (t *fakeTransport) CancelAll() {
	t.cancels++
	t.events = make(map[int]func(int))
}

func (t *fakeTransport) ScheduleRepeat(fn func(int), interval NoteValue) (int, error) {
	if t.failSchedule {
		return 0, errors.New("no room in schedule")
	}
	t.next++
	t.events[t.next] = fn
	return t.next, nil
}

func (t *fakeTransport) Clear(id int) { delete(t.events, id) }

// pulse fires every scheduled event once, in scheduling order.
func (t *fakeTransport) pulse() int {
	var ids []int
	for id := range t.events {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		t.events[id](0)
	}
	return len(ids)
}

type fakeEngine struct {
	transport *fakeTransport
	oscs      []*fakeOsc
	synths    []*fakeSynth
	failOsc   bool
	failSynth bool
	resumeErr error
	resumes   int
	volumes   []float64
	ramps     []time.Duration
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{transport: newFakeTransport()}
}

func (e *fakeEngine) Resume(ctx context.Context) error {
	e.resumes++
	return e.resumeErr
}

func (e *fakeEngine) CreateOscillator(freq float64) (Oscillator, error) {
	if e.failOsc {
		return nil, errors.New("out of oscillators")
	}
	osc := &fakeOsc{freq: freq}
	e.oscs = append(e.oscs, osc)
	return osc, nil
}

func (e *fakeEngine) CreateArticulatingVoice() (ArticulatingVoice, error) {
	if e.failSynth {
		return nil, errors.New("out of voices")
	}
	s := &fakeSynth{}
	e.synths = append(e.synths, s)
	return s, nil
}

func (e *fakeEngine) SetVolumeDb(db float64, ramp time.Duration) {
	e.volumes = append(e.volumes, db)
	e.ramps = append(e.ramps, ramp)
}

func (e *fakeEngine) Transport() Transport { return e.transport }

func (e *fakeEngine) lastVolume() float64 {
	if len(e.volumes) == 0 {
		return 0
	}
	return e.volumes[len(e.volumes)-1]
}
