package tilt

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownScale = errors.New("unknown scale")
	ErrUnknownRoot  = errors.New("unknown root note")
)

// Scale is a named set of semitone intervals above a root note. The "Off"
// scale has no root and no intervals and disables quantization.
type Scale struct {
	Name      string
	Root      string
	Intervals []int
}

// Off reports whether the scale disables quantization.
func (s Scale) Off() bool { return s.Intervals == nil }

// Frequencies expands the scale over the given octave range. It returns nil
// for the "Off" scale.
func (s Scale) Frequencies(minOctave, maxOctave int) ([]float64, error) {
	if s.Off() {
		return nil, nil
	}
	return GenerateFrequencies(s.Root, s.Intervals, minOctave, maxOctave)
}

func (s Scale) String() string { return s.Name }

var OffScale = Scale{Name: "Off"}

// Scales is the catalog in display order.
var Scales = []Scale{
	OffScale,
	{Name: "C Major", Root: "C", Intervals: []int{0, 2, 4, 5, 7, 9, 11}},
	{Name: "C Minor", Root: "C", Intervals: []int{0, 2, 3, 5, 7, 8, 10}},
	{Name: "C Pentatonic", Root: "C", Intervals: []int{0, 2, 4, 7, 9}},
	{Name: "C Minor Pentatonic", Root: "C", Intervals: []int{0, 3, 5, 7, 10}},
	{Name: "C Blues", Root: "C", Intervals: []int{0, 3, 5, 6, 7, 10}},
	{Name: "D Dorian", Root: "D", Intervals: []int{0, 2, 3, 5, 7, 9, 10}},
	{Name: "E Phrygian", Root: "E", Intervals: []int{0, 1, 3, 5, 7, 8, 10}},
	{Name: "F Lydian", Root: "F", Intervals: []int{0, 2, 4, 6, 7, 9, 11}},
	{Name: "G Mixolydian", Root: "G", Intervals: []int{0, 2, 4, 5, 7, 9, 10}},
	{Name: "A Harmonic Minor", Root: "A", Intervals: []int{0, 2, 3, 5, 7, 8, 11}},
	{Name: "C Chromatic", Root: "C", Intervals: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
	{Name: "C Whole Tone", Root: "C", Intervals: []int{0, 2, 4, 6, 8, 10}},
}

// LookupScale finds a scale in the catalog, ignoring case and surrounding space.
func LookupScale(name string) (Scale, error) {
	name = strings.TrimSpace(name)
	for _, s := range Scales {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return Scale{}, errors.Wrapf(ErrUnknownScale, "%q", name)
}

var noteOffsets = map[string]int{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4,
	"F": 5, "F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11,
}

// NoteNumber returns the MIDI note number of root in the given octave, where
// C4 is 60 and A4 is 69.
func NoteNumber(root string, octave int) (int, error) {
	offset, ok := noteOffsets[root]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownRoot, "%q", root)
	}
	return (octave+1)*12 + offset, nil
}
