package synth

import (
	"github.com/pkg/errors"
)

const (
	numFilters    = 2
	numMacros     = 4
	midiTableSize = 256
)

// ErrInvalidConfig is the cause of every error returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the capacities an Engine is built with.
// They are fixed for the lifetime of the engine.
type Config struct {
	SampleRate    int
	Polyphony     int
	NumOsc        int
	NumEnv        int
	NumLfo        int
	OscTableSize  int
	LfoTableSize  int
	ModMatrixSize int
}

// DesktopConfig ...
func DesktopConfig() Config {
	return Config{
		SampleRate:    48000,
		Polyphony:     10,
		NumOsc:        3,
		NumEnv:        5,
		NumLfo:        4,
		OscTableSize:  1024,
		LfoTableSize:  128,
		ModMatrixSize: 256,
	}
}

// EmbeddedConfig ...
func EmbeddedConfig() Config {
	return Config{
		SampleRate:    48000,
		Polyphony:     1,
		NumOsc:        2,
		NumEnv:        2,
		NumLfo:        2,
		OscTableSize:  256,
		LfoTableSize:  64,
		ModMatrixSize: 16,
	}
}

// Validate ...
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"sample rate", c.SampleRate},
		{"polyphony", c.Polyphony},
		{"number of oscillators", c.NumOsc},
		{"number of envelopes", c.NumEnv},
		{"oscillator table size", c.OscTableSize},
		{"lfo table size", c.LfoTableSize},
		{"mod matrix size", c.ModMatrixSize},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "%s must be positive, got %d", p.name, p.value)
		}
	}
	if c.NumLfo < 0 {
		return errors.Wrapf(ErrInvalidConfig, "number of lfos must not be negative, got %d", c.NumLfo)
	}
	return nil
}
