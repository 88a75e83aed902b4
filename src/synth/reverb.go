package synth

// Freeverb tuning, in samples at 44.1kHz.
var (
	combTunings    = [...]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTunings = [...]int{556, 441, 341, 225}
)

const (
	fixedGain  = 0.015
	scaleDamp  = 0.4
	scaleRoom  = 0.28
	offsetRoom = 0.7
)

// ----- Comb ----- //

type combFilter struct {
	past     []float64
	cursor   int
	feedback float64
	damp1    float64
	damp2    float64
	store    float64
}

func (c *combFilter) process(in float64) float64 {
	out := c.past[c.cursor]
	c.store = out*c.damp2 + c.store*c.damp1
	c.past[c.cursor] = in + c.store*c.feedback
	c.cursor++
	if c.cursor >= len(c.past) {
		c.cursor = 0
	}
	return out
}

// ----- Allpass ----- //

type allpassFilter struct {
	past     []float64
	cursor   int
	feedback float64
}

func (a *allpassFilter) process(in float64) float64 {
	delayed := a.past[a.cursor]
	out := delayed - in
	a.past[a.cursor] = in + delayed*a.feedback
	a.cursor++
	if a.cursor >= len(a.past) {
		a.cursor = 0
	}
	return out
}

// ----- Reverb ----- //

// Reverb is a mono Freeverb network: parallel damped combs into serial
// all-passes, behind a one-pole input filter.
type Reverb struct {
	gain    float64
	decay   float64
	damping float64
	cutoff  float64

	combs     [len(combTunings)]combFilter
	allpasses [len(allpassTunings)]allpassFilter
	lowpass   float64
	input     float64
}

// NewReverb ...
func NewReverb(sampleRate int) *Reverb {
	r := &Reverb{
		gain:    0.75,
		decay:   0.5,
		damping: 0,
		cutoff:  1,
	}
	scale := float64(sampleRate) / 44100
	for i, tuning := range combTunings {
		r.combs[i].past = make([]float64, delayLength(tuning, scale))
	}
	for i, tuning := range allpassTunings {
		r.allpasses[i].past = make([]float64, delayLength(tuning, scale))
		r.allpasses[i].feedback = 0.5
	}
	r.update()
	return r
}

func delayLength(tuning int, scale float64) int {
	n := int(float64(tuning) * scale)
	if n < 1 {
		return 1
	}
	return n
}

func (r *Reverb) update() {
	feedback := r.decay*scaleRoom + offsetRoom
	damp := r.damping * scaleDamp
	for i := range r.combs {
		r.combs[i].feedback = feedback
		r.combs[i].damp1 = damp
		r.combs[i].damp2 = 1 - damp
	}
}

// Gain ...
func (r *Reverb) Gain() float64 { return r.gain }

// Decay ...
func (r *Reverb) Decay() float64 { return r.decay }

// Damping ...
func (r *Reverb) Damping() float64 { return r.damping }

// Cutoff ...
func (r *Reverb) Cutoff() float64 { return r.cutoff }

// SetGain sets the level of the wet signal.
func (r *Reverb) SetGain(gain float64) {
	r.gain = gain
	r.update()
}

// SetDecay sets the room size in [0, 1].
func (r *Reverb) SetDecay(decay float64) {
	r.decay = clamp01(decay)
	r.update()
}

// SetDamping sets the high frequency damping in the tail in [0, 1].
func (r *Reverb) SetDamping(damping float64) {
	r.damping = clamp01(damping)
	r.update()
}

// SetCutoff sets the input bandwidth in [0, 1] (1 = unfiltered).
func (r *Reverb) SetCutoff(cutoff float64) {
	r.cutoff = clamp01(cutoff)
	r.update()
}

// TakeInput ...
func (r *Reverb) TakeInput(v float64) {
	r.lowpass += r.cutoff * (v - r.lowpass)
	r.input = r.lowpass * fixedGain
}

// GetSample ...
func (r *Reverb) GetSample() float64 {
	out := 0.0
	for i := range r.combs {
		out += r.combs[i].process(r.input)
	}
	for i := range r.allpasses {
		out = r.allpasses[i].process(out)
	}
	return out * r.gain
}

// Clear ...
func (r *Reverb) Clear() {
	for i := range r.combs {
		c := &r.combs[i]
		for j := range c.past {
			c.past[j] = 0
		}
		c.store = 0
	}
	for i := range r.allpasses {
		a := &r.allpasses[i]
		for j := range a.past {
			a.past[j] = 0
		}
	}
	r.lowpass = 0
	r.input = 0
}
