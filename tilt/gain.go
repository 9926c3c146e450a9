package tilt

import (
	"math"
	"time"
)

const (
	GainFloorDb = -40.0
	GainRamp    = 100 * time.Millisecond
)

// GainDb returns the master gain for the given number of sounding voices:
// silence for none, unity for one, and 1/n of linear gain beyond that,
// floored at GainFloorDb.
func GainDb(voices int) float64 {
	switch {
	case voices <= 0:
		return math.Inf(-1)
	case voices == 1:
		return 0
	}
	return math.Max(-20*math.Log10(float64(voices)), GainFloorDb)
}
