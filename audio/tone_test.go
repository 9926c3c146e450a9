package audio

import (
	"math"
	"testing"
)

func newTestTone(freq float64) *Tone {
	return newTone(newToneParams(NewProps()), freq)
}

func render(src Source, frames int) [][]float32 {
	out := [][]float32{make([]float32, frames), make([]float32, frames)}
	src.Process(out)
	return out
}

func peak(buf []float32) float64 {
	var p float64
	for _, s := range buf {
		p = math.Max(p, math.Abs(float64(s)))
	}
	return p
}

func TestToneGate(t *testing.T) {
	tone := newTestTone(440)
	if p := peak(render(tone, bufferSize)[0]); p != 0 {
		t.Errorf("want silence before Start, got peak %v", p)
	}

	tone.Start()
	var p float64
	for n := 0; n < 10; n++ {
		p = math.Max(p, peak(render(tone, bufferSize)[0]))
	}
	if p < 0.1 {
		t.Errorf("want sound after Start, got peak %v", p)
	}

	tone.Dispose()
	if tone.Done() {
		t.Error("a disposed tone should fade out before it is done")
	}
	for n := 0; n < 20; n++ {
		render(tone, bufferSize)
	}
	if !tone.Done() {
		t.Error("expected the tone to be done after the release")
	}
}

func TestToneGlide(t *testing.T) {
	tone := newTestTone(220)
	tone.Start()
	render(tone, bufferSize)
	tone.SetFrequency(440)
	if want, got := 440.0, tone.Frequency(); want != got {
		t.Errorf("want target %v, got %v", want, got)
	}
	render(tone, bufferSize)
	if tone.freq <= 220 || tone.freq >= 440 {
		t.Errorf("want the pitch between 220 and 440 while gliding, got %v", tone.freq)
	}
	for n := 0; n < 100; n++ {
		render(tone, bufferSize)
	}
	if math.Abs(tone.freq-440) > 0.01 {
		t.Errorf("want the pitch to settle at 440, got %v", tone.freq)
	}
}
