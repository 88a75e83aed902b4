package synth

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

const butterworthQ = 0.7071067811865476

// ----- Biquad ----- //

type biquadCoeffs struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// fc is normalized by the sample rate.
func makeBiquadLowpass(fc float64, q float64) biquadCoeffs {
	// from RBJ's cookbook
	w0 := 2 * math.Pi * fc
	cos := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	b0 := (1 - cos) / 2
	b1 := 1 - cos
	b2 := (1 - cos) / 2
	a0 := 1 + alpha
	a1 := -2 * cos
	a2 := 1 - alpha
	return biquadCoeffs{b0 / a0, b1 / a0, b2 / a0, a1 / a0, a2 / a0}
}

func makeBiquadAllpass(fc float64, q float64) biquadCoeffs {
	// from RBJ's cookbook
	w0 := 2 * math.Pi * fc
	cos := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	b0 := 1 - alpha
	b1 := -2 * cos
	b2 := 1 + alpha
	a0 := 1 + alpha
	a1 := -2 * cos
	a2 := 1 - alpha
	return biquadCoeffs{b0 / a0, b1 / a0, b2 / a0, a1 / a0, a2 / a0}
}

type biquad struct {
	c      biquadCoeffs
	x1, x2 float64
	y1, y2 float64
}

func (b *biquad) process(in float64) float64 {
	out := b.c.b0*in + b.c.b1*b.x1 + b.c.b2*b.x2 - b.c.a1*b.y1 - b.c.a2*b.y2
	b.x2 = b.x1
	b.x1 = in
	b.y2 = b.y1
	b.y1 = out
	return out
}

func (b *biquad) clear() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}

// ----- Low Pass ----- //

// FilterKind ...
type FilterKind int

const (
	FilterLadder FilterKind = iota
	FilterBiquad
)

func (k FilterKind) String() string {
	switch k {
	case FilterLadder:
		return "ladder"
	case FilterBiquad:
		return "biquad"
	}
	return fmt.Sprintf("filter(%d)", int(k))
}

// ParseFilterKind ...
func ParseFilterKind(s string) (FilterKind, error) {
	switch s {
	case "ladder":
		return FilterLadder, nil
	case "biquad":
		return FilterBiquad, nil
	}
	return 0, errors.Errorf("unknown filter kind %q", s)
}

const minCutoff = 10.0

// LowPass is a resonant low-pass filter.
//
// Cutoff is a knob value: the cutoff frequency is derived from the tracked
// note frequency f as f + f*16*cutoff.
type LowPass struct {
	Kind      FilterKind
	Cutoff    float64 // 0-1
	Resonance float64 // 0-1
	Mix       float64 // 0-1 (1 = dry)
	KeyTrack  bool

	cutoffMod float64
	resMod    float64
	mixMod    float64

	sampleRate float64
	note       float64
	ladder     moogLadder
	biquad     biquad
}

func newLowPass(sampleRate float64) *LowPass {
	return &LowPass{
		Kind:       FilterLadder,
		Cutoff:     0.5,
		Resonance:  0.25,
		Mix:        0,
		KeyTrack:   true,
		sampleRate: sampleRate,
		note:       MidiToFreq(60),
		ladder:     moogLadder{sampleRate: sampleRate, cutoff: -1},
	}
}

// SetNote feeds the key-tracking term.
func (f *LowPass) SetNote(freq float64) {
	f.note = freq
}

// CutoffFrequency returns the effective cutoff in Hz.
func (f *LowPass) CutoffFrequency() float64 {
	note := f.note
	if !f.KeyTrack {
		note = MidiToFreq(60)
	}
	cutoff := note + note*16*calcModulation(f.Cutoff, f.cutoffMod)
	if limit := f.sampleRate * 0.45; cutoff > limit {
		cutoff = limit
	}
	if cutoff < minCutoff {
		cutoff = minCutoff
	}
	return cutoff
}

// Process ...
func (f *LowPass) Process(in float64) float64 {
	cutoff := f.CutoffFrequency()
	res := clamp01(calcModulation(f.Resonance, f.resMod))
	mix := clamp01(calcModulation(f.Mix, f.mixMod))
	var out float64
	switch f.Kind {
	case FilterBiquad:
		f.biquad.c = makeBiquadLowpass(cutoff/f.sampleRate, butterworthQ+res*9)
		out = f.biquad.process(in)
	default:
		f.ladder.setParams(cutoff, res)
		out = f.ladder.process(in)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		f.Clear()
		return 0
	}
	return out*(1-mix) + in*mix
}

// Clear drops the filter's history.
func (f *LowPass) Clear() {
	f.ladder.clear()
	f.biquad.clear()
}

// Modulate ...
func (f *LowPass) Modulate(param int, amount float64) {
	switch param {
	case LowPassCutoff:
		f.cutoffMod = amount
	case LowPassRes:
		f.resMod = amount
	case LowPassMix:
		f.mixMod = amount
	}
}

// ResetMod ...
func (f *LowPass) ResetMod() {
	f.cutoffMod = 0
	f.resMod = 0
	f.mixMod = 0
}
