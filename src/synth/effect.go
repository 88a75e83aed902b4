package synth

import (
	"fmt"

	"github.com/pkg/errors"
)

// EffectKind ...
type EffectKind int

const (
	EffectChorus EffectKind = iota
	EffectReverb
)

func (k EffectKind) String() string {
	switch k {
	case EffectChorus:
		return "chorus"
	case EffectReverb:
		return "reverb"
	}
	return fmt.Sprintf("effect(%d)", int(k))
}

// ParseEffectKind ...
func ParseEffectKind(s string) (EffectKind, error) {
	switch s {
	case "chorus":
		return EffectChorus, nil
	case "reverb":
		return EffectReverb, nil
	}
	return 0, errors.Errorf("unknown effect %q", s)
}

// EffectSlot holds one instance of every effect and runs the selected one.
type EffectSlot struct {
	Kind    EffectKind
	Enabled bool
	Chorus  *Chorus
	Reverb  *Reverb
}

func newEffectSlot(sampleRate int) *EffectSlot {
	return &EffectSlot{
		Kind:   EffectChorus,
		Chorus: NewChorus(sampleRate),
		Reverb: NewReverb(sampleRate),
	}
}

// Process feeds the input to the selected effect and adds its output.
func (e *EffectSlot) Process(in float64) float64 {
	if !e.Enabled {
		return in
	}
	switch e.Kind {
	case EffectReverb:
		e.Reverb.TakeInput(in)
		return in + e.Reverb.GetSample()
	default:
		e.Chorus.TakeInput(in)
		return in + e.Chorus.GetSample()
	}
}

// Clear ...
func (e *EffectSlot) Clear() {
	e.Chorus.Clear()
	e.Reverb.Clear()
}

// SetParam sets an effect parameter by name.
func (e *EffectSlot) SetParam(name string, value float64) error {
	switch name {
	case "chorus_volume":
		e.Chorus.Volume = value
	case "chorus_speed":
		e.Chorus.SetSpeed(value)
	case "reverb_gain":
		e.Reverb.SetGain(value)
	case "reverb_decay":
		e.Reverb.SetDecay(value)
	case "reverb_damping":
		e.Reverb.SetDamping(value)
	case "reverb_cutoff":
		e.Reverb.SetCutoff(value)
	default:
		return errors.Errorf("unknown effect parameter %q", name)
	}
	return nil
}
