package tilt

import (
	"math"
	"testing"
)

func TestGenerateMajor(t *testing.T) {
	major := []int{0, 2, 4, 5, 7, 9, 11}
	freqs, err := GenerateFrequencies("C", major, 3, 6)
	if err != nil {
		t.Fatal(err)
	}

	// C3 through E6; F6 is above 1320 Hz
	if want, got := 3*7+3, len(freqs); want != got {
		t.Fatalf("want %d frequencies, got %d: %v", want, got, freqs)
	}
	for i, f := range freqs {
		if f < 50 || f > 1320 {
			t.Errorf("frequency %v out of range", f)
		}
		if i > 0 && f <= freqs[i-1] {
			t.Errorf("not strictly ascending at %d: %v <= %v", i, f, freqs[i-1])
		}
	}
	if want, got := 130.8128, freqs[0]; math.Abs(want-got) > 1e-3 {
		t.Errorf("want first frequency %v (C3), got %v", want, got)
	}
	if want, got := 1318.5102, freqs[len(freqs)-1]; math.Abs(want-got) > 1e-3 {
		t.Errorf("want last frequency %v (E6), got %v", want, got)
	}
}

func TestGenerateFiltersLowNotes(t *testing.T) {
	freqs, err := GenerateFrequencies("C", []int{0}, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	// C0 and C1 are below 50 Hz
	if want, got := 1, len(freqs); want != got {
		t.Fatalf("want %d frequency, got %v", want, freqs)
	}
	if want, got := 65.4064, freqs[0]; math.Abs(want-got) > 1e-3 {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestGenerateDuplicates(t *testing.T) {
	freqs, err := GenerateFrequencies("A", []int{0, 0, 7}, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := []float64{440, 440, 659.2551}, freqs; len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	} else {
		for i := range want {
			if math.Abs(want[i]-got[i]) > 1e-3 {
				t.Errorf("index %d: want %v, got %v", i, want[i], got[i])
			}
		}
	}
}

func TestGenerateUnknownRoot(t *testing.T) {
	if _, err := GenerateFrequencies("X", []int{0}, 3, 6); err == nil {
		t.Error("expected an error")
	}
}
