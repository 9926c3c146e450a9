package tilt

import (
	"math"
	"sort"
)

const (
	// MaxFrequency is the top of the raw tilt mapping in Hz.
	MaxFrequency = 880.0

	DefaultMinOctave = 3
	DefaultMaxOctave = 6

	minAudible = 50.0
	maxAudible = 1.5 * MaxFrequency
)

// GenerateFrequencies expands a root and a list of semitone intervals into a
// sorted list of equal-tempered frequencies between minOctave and maxOctave,
// keeping only those within the audible band. Duplicate intervals produce
// duplicate entries.
func GenerateFrequencies(root string, intervals []int, minOctave, maxOctave int) ([]float64, error) {
	base, err := NoteNumber(root, minOctave)
	if err != nil {
		return nil, err
	}
	var freqs []float64
	for octave := minOctave; octave <= maxOctave; octave++ {
		for _, interval := range intervals {
			f := noteToFreq(base + (octave-minOctave)*12 + interval)
			if f >= minAudible && f <= maxAudible {
				freqs = append(freqs, f)
			}
		}
	}
	sort.Float64s(freqs)
	return freqs, nil
}

func noteToFreq(note int) float64 {
	return math.Pow(2, float64(note-69)/12.0) * 440
}
