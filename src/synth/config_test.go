package synth

import (
	"testing"
)

func TestProfilesAreValid(t *testing.T) {
	expectNoError(t, DesktopConfig().Validate())
	expectNoError(t, EmbeddedConfig().Validate())
}

func TestInvalidConfig(t *testing.T) {
	broken := []func(*Config){
		func(c *Config) { c.SampleRate = 0 },
		func(c *Config) { c.Polyphony = 0 },
		func(c *Config) { c.NumOsc = 0 },
		func(c *Config) { c.NumEnv = 0 },
		func(c *Config) { c.NumLfo = -1 },
		func(c *Config) { c.OscTableSize = -8 },
		func(c *Config) { c.LfoTableSize = 0 },
		func(c *Config) { c.ModMatrixSize = 0 },
	}
	for _, breakConfig := range broken {
		cfg := DesktopConfig()
		breakConfig(&cfg)
		expectErrorCause(t, cfg.Validate(), ErrInvalidConfig)
	}

	cfg := DesktopConfig()
	cfg.NumLfo = 0
	expectNoError(t, cfg.Validate())
}

func TestEngineWithoutLfos(t *testing.T) {
	cfg := testConfig()
	cfg.NumLfo = 0
	e, err := NewEngine(cfg)
	expectNoError(t, err)
	expectErrorCause(t, e.SetModItem(0, ModMatrixItem{Src: LfoSrc(0), Dest: SynthVolumeDest()}), ErrInvalidSrc)
	e.Play(60, 100)
	e.Render(make([]float32, 480))
}
