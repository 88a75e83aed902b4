package synth

import (
	"math"
)

const voiceAllpassFreq = 440.0

// Voice renders one note. Voices are built once and reused for every note.
type Voice struct {
	Oscs    []*Oscillator
	Envs    []*Envelope
	Lfos    []*LFO
	Filters [numFilters]*LowPass
	Effect  *EffectSlot
	Level   float64

	levelMod float64
	data     DataTable
	playing  bool
	note     uint8
	allpass  biquad
	rendered uint64
}

// defaultOscTargets spreads the oscillators over the buses by index.
var defaultOscTargets = []OscTarget{
	TargetFilter1,
	TargetFilter2,
	TargetFilter1And2,
	TargetEffects,
	TargetDirectOut,
}

func newVoice(cfg Config, oscTable WaveTable, lfoTable WaveTable) *Voice {
	sampleRate := float64(cfg.SampleRate)
	v := &Voice{
		Oscs:   make([]*Oscillator, cfg.NumOsc),
		Envs:   make([]*Envelope, cfg.NumEnv),
		Lfos:   make([]*LFO, cfg.NumLfo),
		Effect: newEffectSlot(cfg.SampleRate),
		Level:  1,
		data:   newDataTable(cfg),
	}
	for i := range v.Oscs {
		v.Oscs[i] = newOscillator(oscTable, sampleRate)
		if i < len(defaultOscTargets) {
			v.Oscs[i].Target = defaultOscTargets[i]
		}
	}
	v.Oscs[0].Enabled = true
	for i := range v.Envs {
		v.Envs[i] = newEnvelope(sampleRate)
	}
	for i := range v.Lfos {
		v.Lfos[i] = newLFO(lfoTable, sampleRate)
	}
	for i := range v.Filters {
		v.Filters[i] = newLowPass(sampleRate)
	}
	v.allpass.c = makeBiquadAllpass(voiceAllpassFreq/sampleRate, butterworthQ)
	return v
}

// Data returns the voice's modulation sources.
func (v *Voice) Data() *DataTable {
	return &v.data
}

// Playing returns the note the voice is playing, if any.
// A released voice keeps its note until its envelope has decayed.
func (v *Voice) Playing() (uint8, bool) {
	return v.note, v.playing
}

// Idle reports whether the voice can take a new note.
func (v *Voice) Idle() bool {
	return !v.playing && !v.Envs[0].Pressed() && v.data.Env[0] <= 0
}

// Held reports whether the voice is playing a note that has not been released.
func (v *Voice) Held() bool {
	return v.playing && v.Envs[0].Pressed()
}

// Rendered returns the number of samples that went through the signal path.
func (v *Voice) Rendered() uint64 {
	return v.rendered
}

// Press ...
func (v *Voice) Press(note uint8, velocity uint8) {
	v.playing = true
	v.note = note
	v.data.hasNote = true
	v.data.note = note
	v.data.velocity = velocity
	freq := MidiToFreq(float64(note))
	for _, o := range v.Oscs {
		if o.Enabled {
			o.Press(note)
		}
	}
	for _, e := range v.Envs {
		e.Press()
	}
	for _, l := range v.Lfos {
		l.Press()
	}
	for _, f := range v.Filters {
		if f.KeyTrack {
			f.SetNote(freq)
		}
	}
}

// Release lets the voice decay. It stays busy until envelope 0 reaches zero.
func (v *Voice) Release() {
	if !v.playing {
		return
	}
	v.data.hasNote = false
	for _, e := range v.Envs {
		e.Release()
	}
	for _, l := range v.Lfos {
		l.Release()
	}
}

// Bend applies the pitch wheel (-1 to 1) to every oscillator.
func (v *Voice) Bend(amount float64) {
	v.data.PitchBend = amount
	for _, o := range v.Oscs {
		if amount == 0 {
			o.Unbend()
		} else {
			o.Bend(amount)
		}
	}
}

// GetSample renders one sample. The matrix must have been built with the
// same Config as the voice.
func (v *Voice) GetSample(m *ModMatrix) float64 {
	env0 := v.Envs[0]
	if !v.playing && !env0.Pressed() && v.data.Env[0] <= 0 {
		return 0
	}
	v.rendered++

	v.resetMod()
	v.routeModMatrix(m)
	for i, e := range v.Envs {
		v.data.Env[i] = e.Step()
	}
	for i, l := range v.Lfos {
		v.data.Lfo[i] = l.GetSample()
	}
	if !env0.Pressed() && v.data.Env[0] <= 0 {
		v.free()
		return 0
	}

	var filter1, filter2, effects, output float64
	for _, o := range v.Oscs {
		if !o.Enabled {
			continue
		}
		o.ApplyDetune()
		s := o.GetSample()
		switch o.Target {
		case TargetFilter1:
			filter1 += s
		case TargetFilter2:
			filter2 += s
		case TargetFilter1And2:
			filter1 += s
			filter2 += s
		case TargetEffects:
			effects += s
		default:
			output += s
		}
	}
	effects += v.Filters[LP1].Process(filter1)
	effects += v.Filters[LP2].Process(filter2)
	output += v.Effect.Process(effects)

	out := output * v.data.Env[0] * calcModulation(v.Level, v.levelMod)
	out = v.allpass.process(out)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		v.clear()
		return 0
	}
	return out
}

func (v *Voice) routeModMatrix(m *ModMatrix) {
	for i := range m.items {
		if !m.used[i] {
			continue
		}
		item := &m.items[i]
		v.modulate(item.Dest, item.amount(v.data.value(item.Src)))
	}
}

func (v *Voice) modulate(dest ModDest, amount float64) {
	switch dest.Kind {
	case DestOsc:
		v.Oscs[dest.Index].Modulate(dest.Param, amount)
	case DestEnv:
		v.Envs[dest.Index].Modulate(dest.Param, amount)
	case DestLfo:
		v.Lfos[dest.Index].Modulate(dest.Param, amount)
	case DestLowPass:
		v.Filters[dest.Index].Modulate(dest.Param, amount)
	case DestSynthVolume:
		v.levelMod = amount
	}
}

func (v *Voice) resetMod() {
	v.levelMod = 0
	for _, o := range v.Oscs {
		o.ResetMod()
	}
	for _, e := range v.Envs {
		e.ResetMod()
	}
	for _, l := range v.Lfos {
		l.ResetMod()
	}
	for _, f := range v.Filters {
		f.ResetMod()
	}
}

// free returns the voice to the pool once envelope 0 has decayed.
func (v *Voice) free() {
	v.playing = false
	v.data.hasNote = false
	v.resetMod()
	v.clear()
}

// clear drops all signal history.
func (v *Voice) clear() {
	for _, f := range v.Filters {
		f.Clear()
	}
	if v.Effect.Enabled {
		v.Effect.Clear()
	}
	v.allpass.clear()
}
