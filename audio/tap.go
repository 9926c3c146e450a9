package audio

import (
	"math"
	"sync"
)

const tapSize = 1024

// Tap keeps the most recent master output samples for display.
type Tap struct {
	mu   sync.Mutex
	buf  [tapSize]float32
	pos  int
	full bool
}

func NewTap() *Tap {
	return &Tap{}
}

// Listen stores the mono mix of samples.
func (t *Tap) Listen(samples [][]float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for j := range samples[0] {
		var sum float32
		for i := range samples {
			sum += samples[i][j]
		}
		t.buf[t.pos] = sum / float32(len(samples))
		t.pos++
		if t.pos == tapSize {
			t.pos = 0
			t.full = true
		}
	}
}

// Waveform copies the latest samples into dst, oldest first, and returns
// how many were copied.
func (t *Tap) Waveform(dst []float32) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.pos
	if t.full {
		n = tapSize
	}
	if len(dst) < n {
		n = len(dst)
	}
	start := t.pos - n
	if start < 0 {
		start += tapSize
	}
	for i := 0; i < n; i++ {
		dst[i] = t.buf[(start+i)%tapSize]
	}
	return n
}

// Level returns the RMS of the buffered samples.
func (t *Tap) Level() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.pos
	if t.full {
		n = tapSize
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, s := range t.buf[:n] {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(n))
}
