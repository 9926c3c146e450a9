package tilt

import (
	"context"
	"time"

	"github.com/mrdg/tilt/log"
	"github.com/pkg/errors"
)

var ErrSessionClosed = errors.New("session is not running")

type Options struct {
	Scale     Scale
	MinOctave int
	MaxOctave int
	LongPress time.Duration
	DoubleTap time.Duration
}

func DefaultOptions() Options {
	return Options{
		Scale:     OffScale,
		MinOctave: DefaultMinOctave,
		MaxOctave: DefaultMaxOctave,
		LongPress: DefaultLongPress,
		DoubleTap: DefaultDoubleTap,
	}
}

// Snapshot describes the session at one point in time.
type Snapshot struct {
	State      State
	Scale      string
	Tilt       float64
	Frequency  float64 // pitch a new voice would get
	Continuous float64 // 0 when there is no continuous voice
	Preview    float64 // 0 when there is no preview voice
	Fixed      []float64
	Count      int
	GainDb     float64
	Pressed    bool // a press is being held
}

// Session ties the tilt feed, gestures and scale selection to a VoiceManager.
// All state is owned by the goroutine running Run; the exported methods only
// queue events for it, so they can be called from anywhere.
type Session struct {
	engine     ToneEngine
	mapper     *Mapper
	voices     *VoiceManager
	classifier *Classifier
	scale      Scale
	minOctave  int
	maxOctave  int

	events chan func(context.Context)
	done   chan struct{}
}

func NewSession(engine ToneEngine, opts Options) (*Session, error) {
	if opts.MinOctave > opts.MaxOctave {
		return nil, errors.Errorf("bad octave range %d-%d", opts.MinOctave, opts.MaxOctave)
	}
	mapper := NewMapper()
	table, err := opts.Scale.Frequencies(opts.MinOctave, opts.MaxOctave)
	if err != nil {
		return nil, err
	}
	mapper.SetTable(table)
	return &Session{
		engine:     engine,
		mapper:     mapper,
		voices:     NewVoiceManager(engine, mapper),
		classifier: NewClassifier(opts.LongPress, opts.DoubleTap),
		scale:      opts.Scale,
		minOctave:  opts.MinOctave,
		maxOctave:  opts.MaxOctave,
		events:     make(chan func(context.Context), 64),
		done:       make(chan struct{}),
	}, nil
}

// Run processes queued events until ctx is done. All voices are cleared on
// the way out.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	for {
		select {
		case ev := <-s.events:
			ev(ctx)
		case <-ctx.Done():
			s.voices.ClearAll()
			return ctx.Err()
		}
	}
}

// Done is closed once Run has returned and every voice has been cleared.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) post(ev func(context.Context)) error {
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Orientation feeds a front-back tilt sample in degrees. A nil sample is
// ignored and the previous value is kept.
func (s *Session) Orientation(beta *float64) error {
	if beta == nil {
		return nil
	}
	deg := *beta
	return s.post(func(context.Context) {
		s.mapper.SetTilt(deg)
		s.voices.RefreshPitch()
	})
}

func (s *Session) Press(t time.Time) error {
	return s.post(func(context.Context) {
		s.classifier.Press(t)
	})
}

func (s *Session) Release(t time.Time) error {
	return s.post(func(ctx context.Context) {
		s.dispatch(ctx, s.classifier.Release(t))
	})
}

// SetScale switches quantization. Every voice is cleared first, since fixed
// voices hold pitches from the old table.
func (s *Session) SetScale(sc Scale) error {
	table, err := sc.Frequencies(s.minOctave, s.maxOctave)
	if err != nil {
		return err
	}
	return s.post(func(context.Context) {
		s.voices.ClearAll()
		s.scale = sc
		s.mapper.SetTable(table)
		log.Infof("scale: %s (%d notes)", sc.Name, len(table))
	})
}

// StopAll clears every voice.
func (s *Session) StopAll() error {
	return s.post(func(context.Context) {
		s.voices.ClearAll()
	})
}

// Snapshot waits for all previously queued events and then reports the state.
func (s *Session) Snapshot() (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := s.post(func(context.Context) { reply <- s.snapshot() }); err != nil {
		return Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-s.done:
		return Snapshot{}, ErrSessionClosed
	}
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		State:     s.voices.State(),
		Scale:     s.scale.Name,
		Tilt:      s.mapper.Tilt(),
		Frequency: s.mapper.Frequency(),
		Count:     s.voices.Count(),
		GainDb:    s.voices.GainDb(),
		Pressed:   s.classifier.Pressed(),
	}
	for _, v := range s.voices.Voices() {
		switch v.Kind() {
		case KindContinuous:
			snap.Continuous = v.Frequency()
		case KindPreview:
			snap.Preview = v.Frequency()
		case KindFixed:
			snap.Fixed = append(snap.Fixed, v.Frequency())
		}
	}
	return snap
}

func (s *Session) dispatch(ctx context.Context, g Gesture) {
	if g == NoGesture {
		return
	}
	if err := s.engine.Resume(ctx); err != nil {
		log.Errorf("audio activation failed, dropping %v: %v", g, err)
		return
	}
	var err error
	switch g {
	case LongPress:
		err = s.voices.StartContinuous()
	case DoubleTap:
		s.voices.ClearAll()
	case ShortTap:
		if s.voices.Active() {
			err = s.voices.AddFixed()
		} else {
			err = s.voices.StartPreview()
		}
	}
	if err != nil {
		log.Warnf("%v: %v", g, err)
		return
	}
	log.Debugf("%v: %s, %d voices, %.2f dB", g, s.voices.State(), s.voices.Count(), s.voices.GainDb())
}
