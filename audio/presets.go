package audio

import (
	"sort"

	"github.com/pkg/errors"
)

type preset map[string]interface{}

// Presets for the synth device that plays the looping layers.
var presets = map[string]preset{
	"pluck": {
		"env.attack":  0.002,
		"env.decay":   0.12,
		"env.sustain": 0.,
		"env.release": 0.08,
		"osc1.wave":   "saw",
		"osc2.wave":   "square",
		"osc2.detune": 5.,
		"cutoff":      1800.,
		"level":       -8.,
	},
	"bell": {
		"env.attack":  0.001,
		"env.decay":   0.6,
		"env.sustain": 0.1,
		"env.release": 0.5,
		"osc1.wave":   "sine",
		"osc2.wave":   "sine",
		"osc2.detune": 0.,
		"cutoff":      6000.,
		"level":       -4.,
	},
	"soft": {
		"env.attack":  0.04,
		"env.decay":   0.2,
		"env.sustain": 0.6,
		"env.release": 0.3,
		"osc1.wave":   "triangle",
		"osc2.wave":   "sine",
		"osc2.detune": 7.,
		"cutoff":      1200.,
		"level":       -6.,
	},
	"buzz": {
		"level":       -10.,
		"env.decay":   0.1,
		"env.sustain": 0.,
		"osc1.wave":   "saw",
		"osc2.wave":   "saw",
		"cutoff":      900.0,
	},
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return errors.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return errors.Wrapf(err, "preset %s", name)
		}
	}
	return nil
}

// PresetNames returns the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
