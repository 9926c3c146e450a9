package tilt

import (
	"testing"

	"github.com/pkg/errors"
)

func TestLookupScale(t *testing.T) {
	s, err := LookupScale("  c major ")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := "C Major", s.Name; want != got {
		t.Errorf("want %q, got %q", want, got)
	}

	off, err := LookupScale("off")
	if err != nil {
		t.Fatal(err)
	}
	if !off.Off() {
		t.Error("expected the Off scale to disable quantization")
	}

	if _, err := LookupScale("Klingon"); errors.Cause(err) != ErrUnknownScale {
		t.Errorf("want ErrUnknownScale, got %v", err)
	}
}

func TestNoteNumber(t *testing.T) {
	tests := []struct {
		root   string
		octave int
		want   int
	}{
		{"C", 4, 60},
		{"A", 4, 69},
		{"C", 3, 48},
		{"Bb", 2, 46},
		{"F#", 5, 78},
		{"Gb", 5, 78},
	}
	for _, test := range tests {
		got, err := NoteNumber(test.root, test.octave)
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("NoteNumber(%s, %d): want %d, got %d", test.root, test.octave, test.want, got)
		}
	}
	if _, err := NoteNumber("H", 4); errors.Cause(err) != ErrUnknownRoot {
		t.Errorf("want ErrUnknownRoot, got %v", err)
	}
}

func TestCatalog(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Scales {
		if seen[s.Name] {
			t.Errorf("duplicate scale %q", s.Name)
		}
		seen[s.Name] = true
		if s.Off() {
			continue
		}
		if _, err := NoteNumber(s.Root, 4); err != nil {
			t.Errorf("%s: %v", s.Name, err)
		}
		for _, i := range s.Intervals {
			if i < 0 || i > 11 {
				t.Errorf("%s: interval %d out of range", s.Name, i)
			}
		}
	}
	if Scales[0].Name != "Off" {
		t.Errorf("expected Off to come first, got %q", Scales[0].Name)
	}
}

func TestOffScaleFrequencies(t *testing.T) {
	freqs, err := OffScale.Frequencies(3, 6)
	if err != nil {
		t.Fatal(err)
	}
	if freqs != nil {
		t.Errorf("expected no frequencies, got %v", freqs)
	}
}
