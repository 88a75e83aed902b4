package synth

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// oscHeadroom keeps the sum of several full-scale oscillators from clipping.
const oscHeadroom = 0.9

// noteOffset places note 69 at 440Hz.
var noteOffset = 12*math.Log2(440) - 69

// MidiToFreq converts a (possibly fractional) MIDI note to Hz.
func MidiToFreq(note float64) float64 {
	return math.Pow(2, (note+noteOffset)/12)
}

// ----- Target ----- //

// OscTarget selects the bus an oscillator feeds.
type OscTarget int

const (
	TargetFilter1 OscTarget = iota
	TargetFilter2
	TargetFilter1And2
	TargetEffects
	TargetDirectOut
)

var oscTargetNames = []string{"filter1", "filter2", "filter1_2", "effects", "direct"}

func (t OscTarget) String() string {
	if t >= 0 && int(t) < len(oscTargetNames) {
		return oscTargetNames[t]
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// ParseOscTarget ...
func ParseOscTarget(s string) (OscTarget, error) {
	for i, name := range oscTargetNames {
		if name == s {
			return OscTarget(i), nil
		}
	}
	return 0, errors.Errorf("unknown oscillator target %q", s)
}

// ----- Wavetable Osc ----- //

// wavetableOsc reads a table by phase accumulation.
type wavetableOsc struct {
	table      WaveTable
	sampleRate float64
	index      float64
	increment  float64
}

func (w *wavetableOsc) setFrequency(freq float64) {
	w.increment = freq * float64(len(w.table)) / w.sampleRate
}

func (w *wavetableOsc) reset() {
	w.index = 0
}

func (w *wavetableOsc) next() float64 {
	value := w.table.at(w.index)
	w.index += w.increment
	if length := float64(len(w.table)); w.index >= length {
		w.index = math.Mod(w.index, length)
	}
	return value
}

// ----- Oscillator ----- //

// Oscillator ...
type Oscillator struct {
	Enabled bool
	Level   float64
	Detune  float64 // semitones
	Offset  int     // semitones added to the pressed note
	Target  OscTarget

	levelMod  float64
	detuneMod float64

	baseFrequency float64
	frequency     float64
	bendRatio     float64
	detune        float64 // last applied
	osc           wavetableOsc
}

func newOscillator(table WaveTable, sampleRate float64) *Oscillator {
	return &Oscillator{
		Level:     1,
		Target:    TargetFilter1,
		bendRatio: 1,
		osc:       wavetableOsc{table: table, sampleRate: sampleRate},
	}
}

// Press starts the oscillator at the note's pitch from the top of its table.
func (o *Oscillator) Press(note uint8) {
	o.baseFrequency = MidiToFreq(float64(int(note) + o.Offset))
	o.osc.reset()
	o.detune = 0
	o.updateFrequency()
	o.ApplyDetune()
}

// Frequency returns the current frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// BaseFrequency returns the frequency of the pressed note.
func (o *Oscillator) BaseFrequency() float64 {
	return o.baseFrequency
}

// GetSample ...
func (o *Oscillator) GetSample() float64 {
	return o.osc.next() * calcModulation(o.Level, o.levelMod) * oscHeadroom
}

// ApplyDetune retunes the oscillator from its modulated detune amount.
// Nothing is recomputed while the amount stays at zero.
func (o *Oscillator) ApplyDetune() {
	amount := calcModulation(o.Detune, o.detuneMod)
	if amount == 0 && o.detune == 0 {
		return
	}
	o.detune = amount
	o.updateFrequency()
}

// Bend shifts the pitch by up to 3 semitones at full bend (amount in [-1, 1]).
func (o *Oscillator) Bend(amount float64) {
	o.bendRatio = math.Pow(2, (amount*3)/12)
	o.updateFrequency()
}

// Unbend ...
func (o *Oscillator) Unbend() {
	o.bendRatio = 1
	o.updateFrequency()
}

func (o *Oscillator) updateFrequency() {
	freq := o.baseFrequency * o.bendRatio
	if o.detune != 0 {
		freq *= math.Pow(2, o.detune/12)
	}
	o.frequency = freq
	o.osc.setFrequency(freq)
}

// Modulate ...
func (o *Oscillator) Modulate(param int, amount float64) {
	switch param {
	case OscLevel:
		o.levelMod = amount
	case OscTune:
		o.detuneMod = amount
	}
}

// ResetMod ...
func (o *Oscillator) ResetMod() {
	o.levelMod = 0
	o.detuneMod = 0
}
