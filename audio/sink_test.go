package audio

import (
	"math"
	"testing"
)

type constSource struct {
	val  float32
	done bool
}

func (c *constSource) Process(samples [][]float32) {
	for i := range samples {
		for j := range samples[i] {
			samples[i][j] += c.val
		}
	}
}

func (c *constSource) Done() bool { return c.done }

type captureListener struct {
	last []float32
}

func (c *captureListener) Listen(samples [][]float32) {
	c.last = append(c.last[:0], samples[0]...)
}

func TestGainRamp(t *testing.T) {
	var g gainRamp
	g.set(1, 4)
	var got []float64
	for i := 0; i < 6; i++ {
		got = append(got, g.next())
	}
	want := []float64{0.25, 0.5, 0.75, 1, 1, 1}
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-9 {
			t.Fatalf("want %v, got %v", want, got)
		}
	}

	g.set(0, 0)
	if want, got := 0.0, g.next(); want != got {
		t.Errorf("want an immediate jump to %v, got %v", want, got)
	}
}

func TestDbToGain(t *testing.T) {
	tests := []struct {
		db   float64
		gain float64
	}{
		{math.Inf(-1), 0},
		{0, 1},
		{-20, 0.1},
		{-40, 0.01},
	}
	for _, test := range tests {
		if got := dbToGain(test.db); math.Abs(got-test.gain) > 1e-9 {
			t.Errorf("dbToGain(%v): want %v, got %v", test.db, test.gain, got)
		}
	}
}

func TestSinkMixesAndRetires(t *testing.T) {
	sink := NewSink()
	sink.SetVolumeDb(0, 0)
	a := &constSource{val: 0.25}
	b := &constSource{val: 0.5}
	sink.AddSource(a)
	sink.AddSource(b)
	listener := &captureListener{}
	sink.AddListener(listener)

	out := render(sink, 8)
	if want, got := float32(0.75), out[1][7]; want != got {
		t.Errorf("want mixed sample %v, got %v", want, got)
	}
	if want, got := float32(0.75), listener.last[0]; want != got {
		t.Errorf("want listener to see %v, got %v", want, got)
	}

	a.done = true
	render(sink, 8)
	if want, got := 1, sink.NumSources(); want != got {
		t.Errorf("want %d source after retirement, got %d", want, got)
	}

	b.done = true
	render(sink, 8)
	out = render(sink, 8)
	if want, got := float32(0), out[0][0]; want != got {
		t.Errorf("want silence with no sources, got %v", got)
	}
}

func TestSinkStartsSilent(t *testing.T) {
	sink := NewSink()
	sink.AddSource(&constSource{val: 1})
	out := render(sink, 4)
	if want, got := float32(0), out[0][3]; want != got {
		t.Errorf("want master gain to start at 0, got sample %v", got)
	}
	sink.SetVolumeDb(0, 4)
	out = render(sink, 4)
	if want, got := float32(1), out[0][3]; want != got {
		t.Errorf("want gain 1 at the end of the ramp, got %v", got)
	}
}
