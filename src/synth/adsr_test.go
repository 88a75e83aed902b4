package synth

import (
	"testing"
)

func newTestEnvelope(attack, decay, sustain, release float64) *Envelope {
	e := newEnvelope(48000)
	e.AttackTime = attack
	e.DecayTime = decay
	e.SustainLevel = sustain
	e.ReleaseTime = release
	return e
}

func TestEnvelopeShape(t *testing.T) {
	e := newTestEnvelope(0.01, 0.02, 0.5, 0.1)
	e.Press()
	expectEqual(t, e.Phase(), PhaseAttack)
	prev := 0.0
	for e.Phase() == PhaseAttack {
		level := e.Step()
		if level < prev {
			t.Fatalf("attack went down: %v -> %v", prev, level)
		}
		prev = level
	}
	expectEqual(t, e.Phase(), PhaseDecay)
	if prev < 0.999 {
		t.Fatalf("attack ended at %v", prev)
	}
	for e.Phase() == PhaseDecay {
		level := e.Step()
		if level > prev {
			t.Fatalf("decay went up: %v -> %v", prev, level)
		}
		prev = level
	}
	expectEqual(t, e.Phase(), PhaseSustain)
	expectNearlyEqual(t, prev, 0.5)
	for i := 0; i < 1000; i++ {
		e.Step()
	}
	expectNearlyEqual(t, e.Level(), 0.5)
	expectEqual(t, e.Pressed(), true)
}

func TestEnvelopeAttackLength(t *testing.T) {
	e := newTestEnvelope(0.01, 0.1, 0.5, 0.1)
	e.Press()
	n := 0
	for e.Phase() == PhaseAttack {
		e.Step()
		n++
	}
	if n < 480 || n > 481 {
		t.Errorf("expected attack of 480 samples, but got: %v", n)
	}
}

func TestEnvelopeReleaseTakesReleaseTime(t *testing.T) {
	// release from the middle of attack, decay and sustain
	for _, pressedSamples := range []int{10, 240, 700, 1500, 5000} {
		e := newTestEnvelope(0.01, 0.02, 0.5, 0.1)
		e.Press()
		for i := 0; i < pressedSamples; i++ {
			e.Step()
		}
		e.Release()
		expectEqual(t, e.Pressed(), false)
		n := 0
		for e.Level() > 0 {
			e.Step()
			n++
			if n > 10000 {
				t.Fatal("release never ended")
			}
		}
		if n < 4799 || n > 4801 {
			t.Errorf("released after %d samples: expected 4800 samples, but got: %v", pressedSamples, n)
		}
	}
}

func TestEnvelopeZeroTimes(t *testing.T) {
	e := newTestEnvelope(0, 0, 0.3, 0)
	e.Press()
	expectEqual(t, e.Step(), 1.0)
	expectEqual(t, e.Step(), 0.3)
	e.Release()
	expectEqual(t, e.Step(), 0.0)
}

func TestEnvelopeZeroSustainEndsNote(t *testing.T) {
	e := newTestEnvelope(0.001, 0.001, 0, 0.1)
	e.Press()
	for i := 0; i < 200; i++ {
		e.Step()
	}
	expectEqual(t, e.Level(), 0.0)
	expectEqual(t, e.Pressed(), false)
}

func TestEnvelopeUnpressed(t *testing.T) {
	e := newEnvelope(48000)
	expectEqual(t, e.Pressed(), false)
	expectEqual(t, e.Step(), 0.0)
	expectEqual(t, e.Pressed(), false)
}

func TestEnvelopeSustainModulation(t *testing.T) {
	e := newTestEnvelope(0, 0, 0.5, 0.1)
	e.Press()
	e.Step()
	e.Step()
	expectNearlyEqual(t, e.Level(), 0.5)
	e.Modulate(EnvSustain, -0.5)
	e.Step()
	expectNearlyEqual(t, e.Level(), 0.25)
	e.ResetMod()
	e.Step()
	expectNearlyEqual(t, e.Level(), 0.5)
}

func TestEnvelopeReleaseModulation(t *testing.T) {
	e := newTestEnvelope(0, 0, 1, 0.1)
	e.Press()
	e.Step()
	e.Modulate(EnvRelease, 1) // 0.2s
	e.Release()
	n := 0
	for e.Level() > 0 {
		e.Step()
		n++
	}
	expectEqual(t, n, 9600)
}

func TestEnvelopeReleaseTimeChangesWhileReleasing(t *testing.T) {
	e := newTestEnvelope(0, 0, 1, 0.1)
	e.Press()
	e.Step()
	e.Release()
	n := 0
	for e.Level() > 0 {
		// release time follows the falling level: 0.2s at the start, 0.1s at the end
		e.Modulate(EnvRelease, e.Level())
		e.Step()
		n++
		if n > 9600 {
			t.Fatalf("release still running after %d samples", n)
		}
	}
	// 4800 * (1 + 1/2)
	if n < 7150 || n > 7250 {
		t.Errorf("expected about 7200 samples, but got: %v", n)
	}
}

func TestEnvelopeReleaseTimeShortenedWhileReleasing(t *testing.T) {
	e := newTestEnvelope(0, 0, 1, 0.1)
	e.Press()
	e.Step()
	e.Release()
	for i := 0; i < 2400; i++ {
		e.Step()
	}
	expectNearlyEqual(t, e.Level(), 0.5)
	e.ReleaseTime = 0.05
	n := 0
	for e.Level() > 0 {
		e.Step()
		n++
	}
	expectEqual(t, n, 1200)
}
