package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Tempo range accepted by the transport.
const (
	MinBPM = 20.
	MaxBPM = 500.
)

// Config holds the settings that survive between runs. Flags given on the
// command line take precedence over what is stored here.
type Config struct {
	BPM         float64 `json:"bpm"`
	Scale       string  `json:"scale"`
	MinOctave   int     `json:"minOctave"`
	MaxOctave   int     `json:"maxOctave"`
	LongPressMs int     `json:"longPressMs"`
	DoubleTapMs int     `json:"doubleTapMs"`
	Preset      string  `json:"preset,omitempty"`
	MIDIPort    string  `json:"midiPort,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		BPM:         120,
		Scale:       "Off",
		MinOctave:   3,
		MaxOctave:   6,
		LongPressMs: 500,
		DoubleTapMs: 300,
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return filepath.Join(home, ".config", "tilt"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config stored at path. Fields missing from the file keep
// their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.WithStack(err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithStack(err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(path, data, 0644))
}

func (c *Config) Validate() error {
	if c.BPM < MinBPM || c.BPM > MaxBPM {
		return errors.Errorf("bpm out of range %v-%v: %v", MinBPM, MaxBPM, c.BPM)
	}
	if c.MinOctave < 0 || c.MaxOctave > 9 || c.MinOctave > c.MaxOctave {
		return errors.Errorf("bad octave range %d-%d", c.MinOctave, c.MaxOctave)
	}
	if c.LongPressMs <= 0 || c.DoubleTapMs <= 0 {
		return errors.New("gesture thresholds must be positive")
	}
	return nil
}
