package tilt

import (
	"math"
	"sync/atomic"
)

// RawFrequency maps a tilt angle in degrees onto [0, MaxFrequency] along a
// sine curve. A level device maps to MaxFrequency/2.
func RawFrequency(tilt float64) float64 {
	return (math.Sin(tilt*math.Pi/180)*MaxFrequency + MaxFrequency) / 2
}

// Snap returns the entry of table closest to freq. On a tie the first entry
// wins, which is the lower one for a sorted table. An empty table returns freq
// unchanged.
func Snap(freq float64, table []float64) float64 {
	if len(table) == 0 {
		return freq
	}
	best := table[0]
	bestDiff := math.Abs(best - freq)
	for _, f := range table[1:] {
		if d := math.Abs(f - freq); d < bestDiff {
			best, bestDiff = f, d
		}
	}
	return best
}

// MapTilt converts a tilt angle into a frequency, quantized to table when it
// is non-empty.
func MapTilt(tilt float64, table []float64) float64 {
	return Snap(RawFrequency(tilt), table)
}

// Mapper holds the latest tilt sample and the frequency table of the active
// scale. Both are published atomically, so the pitch can be read from the
// audio thread while the session goroutine updates them.
type Mapper struct {
	tilt  atomic.Uint64
	table atomic.Value
}

func NewMapper() *Mapper {
	m := &Mapper{}
	m.table.Store([]float64(nil))
	return m
}

func (m *Mapper) SetTilt(deg float64) { m.tilt.Store(math.Float64bits(deg)) }

func (m *Mapper) Tilt() float64 { return math.Float64frombits(m.tilt.Load()) }

// SetTable replaces the frequency table. The slice must not be modified
// afterwards.
func (m *Mapper) SetTable(table []float64) { m.table.Store(table) }

func (m *Mapper) Table() []float64 { return m.table.Load().([]float64) }

// Frequency maps the current tilt sample through the current table.
func (m *Mapper) Frequency() float64 {
	return MapTilt(m.Tilt(), m.Table())
}
