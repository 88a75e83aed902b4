package synth

import (
	"math"
)

// ----- Phase ----- //

const (
	PhaseUnpressed = iota
	PhaseAttack
	PhaseDecay
	PhaseSustain
	PhaseRelease
)

// levelEpsilon absorbs rounding when a slope lands exactly on its target.
const levelEpsilon = 1e-9

// ----- Envelope ----- //

/*
  1 +     x
    |    / \
    |   /   \
  s +  /     x------x
    | /              \
    |/                \
  0 +------+---+------+----+
    |a     |d  |      |r   |
*/

// Envelope is a linear ADSR. Times are in seconds, the sustain level in [0, 1].
type Envelope struct {
	AttackTime   float64
	DecayTime    float64
	SustainLevel float64
	ReleaseTime  float64

	attackMod  float64
	decayMod   float64
	sustainMod float64
	releaseMod float64

	sampleRate float64
	phase      int
	level      float64

	// effective values the slopes were computed from
	attack  float64
	decay   float64
	sustain float64
	release float64

	attackSlope  float64
	decaySlope   float64
	releaseSlope float64
	releaseLeft  float64
}

func newEnvelope(sampleRate float64) *Envelope {
	e := &Envelope{
		AttackTime:   0.1,
		DecayTime:    0.1,
		SustainLevel: 0.5,
		ReleaseTime:  0.1,
		sampleRate:   sampleRate,
		attack:       -1,
		decay:        -1,
		sustain:      -1,
		release:      -1,
	}
	e.updateSlopes()
	return e
}

// samplesFor converts seconds to a sample count of at least one.
func samplesFor(seconds float64, sampleRate float64) int {
	n := int(math.Round(seconds * sampleRate))
	if n < 1 {
		return 1
	}
	return n
}

func (e *Envelope) updateSlopes() {
	attack := calcModulation(e.AttackTime, e.attackMod)
	decay := calcModulation(e.DecayTime, e.decayMod)
	sustain := clamp01(calcModulation(e.SustainLevel, e.sustainMod))
	release := calcModulation(e.ReleaseTime, e.releaseMod)
	if attack != e.attack {
		e.attack = attack
		e.attackSlope = 1 / float64(samplesFor(attack, e.sampleRate))
	}
	if decay != e.decay || sustain != e.sustain {
		e.decay = decay
		e.sustain = sustain
		e.decaySlope = (sustain - 1) / float64(samplesFor(decay, e.sampleRate))
	}
	if release != e.release {
		if e.phase == PhaseRelease && e.releaseLeft > 0 {
			e.rescaleRelease(release)
		}
		e.release = release
	}
}

// startRelease heads for zero from the current level so that the release
// always lasts the release time, wherever it starts.
func (e *Envelope) startRelease() {
	e.releaseLeft = float64(samplesFor(e.release, e.sampleRate))
	e.releaseSlope = -e.level / e.releaseLeft
}

// rescaleRelease keeps the elapsed fraction of a running release when the
// release time changes.
func (e *Envelope) rescaleRelease(release float64) {
	from := float64(samplesFor(e.release, e.sampleRate))
	to := float64(samplesFor(release, e.sampleRate))
	e.releaseLeft *= to / from
	if e.releaseLeft < 1 {
		e.releaseLeft = 1
	}
	e.releaseSlope = -e.level / e.releaseLeft
}

// Press ...
func (e *Envelope) Press() {
	e.phase = PhaseAttack
	e.level = 0
}

// Release ...
func (e *Envelope) Release() {
	e.updateSlopes()
	e.phase = PhaseRelease
	e.startRelease()
}

// Pressed reports whether the key is still held down.
func (e *Envelope) Pressed() bool {
	return e.phase != PhaseUnpressed && e.phase != PhaseRelease
}

// Phase ...
func (e *Envelope) Phase() int {
	return e.phase
}

// Level ...
func (e *Envelope) Level() float64 {
	return e.level
}

// Step advances the envelope by one sample and returns the new level.
func (e *Envelope) Step() float64 {
	e.updateSlopes()
	switch e.phase {
	case PhaseAttack:
		e.level += e.attackSlope
		if e.level >= 1-levelEpsilon {
			e.level = 1
			e.phase = PhaseDecay
		}
	case PhaseDecay:
		e.level += e.decaySlope
		if e.level <= e.sustain+levelEpsilon {
			e.level = e.sustain
			e.phase = PhaseSustain
		}
	case PhaseSustain:
		e.level = e.sustain
	case PhaseRelease:
		if e.releaseLeft > 0 {
			e.releaseLeft--
			e.level += e.releaseSlope
			if e.releaseLeft <= levelEpsilon {
				e.releaseLeft = 0
				e.level = 0
			}
		}
	}
	if e.level <= 0 {
		e.level = 0
		e.phase = PhaseRelease
		e.releaseLeft = 0
	}
	return e.level
}

// Reset returns the envelope to its initial idle state.
func (e *Envelope) Reset() {
	e.ResetMod()
	e.phase = PhaseUnpressed
	e.level = 0
	e.releaseLeft = 0
}

// Modulate ...
func (e *Envelope) Modulate(param int, amount float64) {
	switch param {
	case EnvAttack:
		e.attackMod = amount
	case EnvDecay:
		e.decayMod = amount
	case EnvSustain:
		e.sustainMod = amount
	case EnvRelease:
		e.releaseMod = amount
	}
}

// ResetMod ...
func (e *Envelope) ResetMod() {
	e.attackMod = 0
	e.decayMod = 0
	e.sustainMod = 0
	e.releaseMod = 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
