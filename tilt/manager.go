package tilt

import (
	"math"

	"github.com/mrdg/tilt/log"
	"github.com/pkg/errors"
)

// ErrVoiceActive is returned when a preview is requested while a continuous
// or preview voice is already sounding.
var ErrVoiceActive = errors.New("a continuous or preview voice is already active")

// State is the base state of the voice set. Fixed voices are counted
// separately and may be present in any state.
type State int

const (
	Idle State = iota
	ContinuousActive
	PreviewActive
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ContinuousActive:
		return "continuous"
	case PreviewActive:
		return "preview"
	}
	return "unknown"
}

// VoiceManager owns the active voices. It is not safe for concurrent use;
// Session serializes all calls through a single goroutine.
type VoiceManager struct {
	engine     ToneEngine
	mapper     *Mapper
	continuous *continuousVoice
	preview    *previewVoice
	fixed      []*fixedVoice
	gainDb     float64
}

func NewVoiceManager(engine ToneEngine, mapper *Mapper) *VoiceManager {
	return &VoiceManager{
		engine: engine,
		mapper: mapper,
		gainDb: math.Inf(-1),
	}
}

func (m *VoiceManager) State() State {
	switch {
	case m.continuous != nil:
		return ContinuousActive
	case m.preview != nil:
		return PreviewActive
	}
	return Idle
}

// Count returns the number of active voices of any kind.
func (m *VoiceManager) Count() int {
	n := len(m.fixed)
	if m.continuous != nil {
		n++
	}
	if m.preview != nil {
		n++
	}
	return n
}

// Active reports whether any voice is sounding.
func (m *VoiceManager) Active() bool { return m.Count() > 0 }

func (m *VoiceManager) GainDb() float64 { return m.gainDb }

// Voices returns the active voices: the continuous or preview voice first,
// followed by the fixed voices in creation order.
func (m *VoiceManager) Voices() []Voice {
	var voices []Voice
	if m.continuous != nil {
		voices = append(voices, m.continuous)
	}
	if m.preview != nil {
		voices = append(voices, m.preview)
	}
	for _, v := range m.fixed {
		voices = append(voices, v)
	}
	return voices
}

// StartContinuous toggles the continuous voice. Starting it replaces a
// running preview.
func (m *VoiceManager) StartContinuous() error {
	if m.continuous != nil {
		m.continuous.Stop()
		m.continuous = nil
		log.Debugf("voices: continuous off")
		m.rebalance()
		return nil
	}
	freq := m.mapper.Frequency()
	osc, err := m.engine.CreateOscillator(freq)
	if err != nil {
		return errors.Wrap(err, "create oscillator")
	}
	v := newContinuousVoice(osc, m.mapper.Frequency, freq)
	if m.preview != nil {
		m.preview.Stop()
		m.preview = nil
	}
	if err := v.Start(); err != nil {
		v.Stop()
		return errors.Wrap(err, "start continuous voice")
	}
	m.continuous = v
	log.Debugf("voices: continuous on at %.2f Hz", freq)
	m.rebalance()
	return nil
}

// StartPreview starts a voice that pulses at the live pitch. It requires that
// neither a continuous nor a preview voice exists.
func (m *VoiceManager) StartPreview() error {
	if m.continuous != nil || m.preview != nil {
		return ErrVoiceActive
	}
	synth, err := m.engine.CreateArticulatingVoice()
	if err != nil {
		return errors.Wrap(err, "create preview voice")
	}
	v := newPreviewVoice(synth, m.engine.Transport(), m.mapper.Frequency)
	if err := m.startLoop(v); err != nil {
		return errors.Wrap(err, "start preview voice")
	}
	m.preview = v
	log.Debugf("voices: preview on")
	m.rebalance()
	return nil
}

// AddFixed freezes the current pitch into a new looping voice.
func (m *VoiceManager) AddFixed() error {
	freq := m.mapper.Frequency()
	synth, err := m.engine.CreateArticulatingVoice()
	if err != nil {
		return errors.Wrap(err, "create fixed voice")
	}
	v := newFixedVoice(synth, m.engine.Transport(), freq)
	if err := m.startLoop(v); err != nil {
		return errors.Wrap(err, "start fixed voice")
	}
	m.fixed = append(m.fixed, v)
	log.Debugf("voices: fixed #%d at %.2f Hz", len(m.fixed), freq)
	m.rebalance()
	return nil
}

// startLoop schedules v and makes sure the transport is running. On failure
// v is stopped, which releases its engine handle.
func (m *VoiceManager) startLoop(v Voice) error {
	if err := v.Start(); err != nil {
		v.Stop()
		return err
	}
	if err := m.engine.Transport().Start(); err != nil {
		v.Stop()
		return errors.Wrap(err, "start transport")
	}
	return nil
}

// ClearAll stops every voice and all transport scheduling.
func (m *VoiceManager) ClearAll() {
	if m.continuous != nil {
		m.continuous.Stop()
		m.continuous = nil
	}
	if m.preview != nil {
		m.preview.Stop()
		m.preview = nil
	}
	for _, v := range m.fixed {
		v.Stop()
	}
	m.fixed = nil
	t := m.engine.Transport()
	t.CancelAll()
	t.Stop()
	log.Debugf("voices: cleared")
	m.rebalance()
}

// RefreshPitch pushes the current pitch into the voices that follow the tilt.
// A preview voice only records it; the next pulse plays it.
func (m *VoiceManager) RefreshPitch() {
	for _, v := range m.Voices() {
		if r, ok := v.(pitchRefresher); ok {
			r.RefreshPitch()
		}
	}
}

func (m *VoiceManager) rebalance() {
	m.gainDb = GainDb(m.Count())
	m.engine.SetVolumeDb(m.gainDb, GainRamp)
}
