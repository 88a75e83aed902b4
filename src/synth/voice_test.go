package synth

import (
	"math"
	"testing"
)

func newTestVoice() (*Voice, *ModMatrix) {
	cfg := testConfig()
	table := BuildWaveTable(cfg.OscTableSize, DefaultOvertones(defaultOvertones))
	return newVoice(cfg, table, BuildTriangleTable(cfg.LfoTableSize)), NewModMatrix(cfg)
}

func TestIdleVoiceIsSilent(t *testing.T) {
	v, m := newTestVoice()
	expectEqual(t, v.Idle(), true)
	for i := 0; i < 1000; i++ {
		expectEqual(t, v.GetSample(m), 0.0)
	}
	expectEqual(t, v.Rendered(), uint64(0))
}

func TestVoiceFreedAfterRelease(t *testing.T) {
	v, m := newTestVoice()
	env := v.Envs[0]
	env.AttackTime = 0.01
	env.DecayTime = 0.01
	env.SustainLevel = 0.5
	env.ReleaseTime = 0.1
	v.Press(60, 100)
	expectEqual(t, v.Idle(), false)
	expectEqual(t, v.Held(), true)
	nonzero := false
	for i := 0; i < 2000; i++ {
		if v.GetSample(m) != 0 {
			nonzero = true
		}
	}
	expectEqual(t, nonzero, true)

	v.Release()
	expectEqual(t, v.Held(), false)
	note, playing := v.Playing()
	expectEqual(t, playing, true) // still sounding
	expectEqual(t, note, uint8(60))
	n := 0
	for playing {
		v.GetSample(m)
		_, playing = v.Playing()
		n++
		if n > 48000 {
			t.Fatal("voice was never freed")
		}
	}
	if n < 4799 || n > 4801 {
		t.Errorf("expected the voice to be freed after 4800 samples, but got: %v", n)
	}
	expectEqual(t, v.Idle(), true)
	rendered := v.Rendered()
	for i := 0; i < 100; i++ {
		expectEqual(t, v.GetSample(m), 0.0)
	}
	expectEqual(t, v.Rendered(), rendered)
}

func TestLaterRoutesOverwriteEarlierOnes(t *testing.T) {
	v, m := newTestVoice()
	expectNoError(t, m.Set(0, ModMatrixItem{Src: MacroSrc(1), Dest: OscDest(0, OscLevel), Amt: 1}))
	expectNoError(t, m.Set(1, ModMatrixItem{Src: MacroSrc(2), Dest: OscDest(0, OscLevel), Amt: -1}))
	v.data.Macro[0] = 1
	v.data.Macro[1] = 1
	v.Press(69, 100)
	for i := 0; i < 100; i++ {
		expectEqual(t, v.GetSample(m), 0.0)
	}
	expectEqual(t, v.Oscs[0].levelMod, -1.0)

	expectNoError(t, m.Clear(1))
	v.GetSample(m)
	expectEqual(t, v.Oscs[0].levelMod, 1.0)
}

func TestBipolarRouteIsCentered(t *testing.T) {
	v, m := newTestVoice()
	expectNoError(t, m.Set(0, ModMatrixItem{Src: MacroSrc(1), Dest: LowPassDest(LP1, LowPassCutoff), Amt: 2, Bipolar: true}))
	v.Press(60, 100)
	v.data.Macro[0] = 0.5
	v.GetSample(m)
	expectEqual(t, v.Filters[LP1].cutoffMod, 0.0)
	v.data.Macro[0] = 0
	v.GetSample(m)
	expectEqual(t, v.Filters[LP1].cutoffMod, -1.0)
}

func TestVoiceSources(t *testing.T) {
	v, m := newTestVoice()
	expectNoError(t, m.Set(0, ModMatrixItem{Src: ModSrc{Kind: SrcVelocity}, Dest: SynthVolumeDest(), Amt: 1}))
	v.Press(60, 127)
	expectEqual(t, v.data.value(ModSrc{Kind: SrcVelocity}), 1.0)
	expectEqual(t, v.data.value(ModSrc{Kind: SrcGate}), 1.0)
	v.GetSample(m)
	expectEqual(t, v.levelMod, 1.0)

	v.Press(60, 0)
	expectEqual(t, v.data.value(ModSrc{Kind: SrcVelocity}), 0.0)
	v.Release()
	expectEqual(t, v.data.value(ModSrc{Kind: SrcGate}), 0.0)
	note, ok := v.Data().Note()
	expectEqual(t, ok, false)
	expectEqual(t, note, uint8(60))
}

func TestEveryEnvelopeAndLfoRuns(t *testing.T) {
	v, m := newTestVoice()
	v.Press(60, 100)
	for i := 0; i < 1000; i++ {
		v.GetSample(m)
	}
	for i, env := range v.Envs {
		if env.Level() <= 0 || v.data.Env[i] != env.Level() {
			t.Errorf("env%d did not run: %v", i, env.Level())
		}
	}
	for i := range v.Lfos {
		if v.data.Lfo[i] <= 0 {
			t.Errorf("lfo%d did not run: %v", i, v.data.Lfo[i])
		}
	}
}

func TestVoiceDefaultTargets(t *testing.T) {
	cfg := DesktopConfig()
	cfg.NumOsc = 6
	v := newVoice(cfg, BuildWaveTable(cfg.OscTableSize, SineOvertones()), BuildTriangleTable(cfg.LfoTableSize))
	expected := []OscTarget{TargetFilter1, TargetFilter2, TargetFilter1And2, TargetEffects, TargetDirectOut, TargetFilter1}
	for i, target := range expected {
		expectEqual(t, v.Oscs[i].Target, target)
	}
	expectEqual(t, v.Oscs[0].Enabled, true)
	expectEqual(t, v.Oscs[1].Enabled, false)
}

func TestVoiceTargets(t *testing.T) {
	v, m := newTestVoice()
	v.Filters[LP1].Mix = 1 // dry
	v.Oscs[0].Target = TargetDirectOut
	v.Press(60, 100)
	direct := 0.0
	for i := 0; i < 4800; i++ {
		direct = math.Max(direct, math.Abs(v.GetSample(m)))
	}
	if direct == 0 {
		t.Fatal("expected the direct output to sound")
	}

	v.Oscs[0].Enabled = false
	for i := 0; i < 4800; i++ {
		v.GetSample(m)
	}
	expectWithin(t, v.GetSample(m), 0, 0.000001)
}

func TestVoiceRecoversFromNaN(t *testing.T) {
	v, m := newTestVoice()
	v.Level = math.NaN()
	v.Press(60, 100)
	for i := 0; i < 1000; i++ {
		expectEqual(t, v.GetSample(m), 0.0)
	}
	v.Level = 1
	nonzero := false
	for i := 0; i < 1000; i++ {
		out := v.GetSample(m)
		if math.IsNaN(out) {
			t.Fatal("NaN leaked")
		}
		if out != 0 {
			nonzero = true
		}
	}
	expectEqual(t, nonzero, true)
}

func TestVoiceBend(t *testing.T) {
	v, _ := newTestVoice()
	v.Press(69, 100)
	v.Bend(1)
	expectWithin(t, v.Oscs[0].Frequency(), 440*math.Pow(2, 3.0/12), 0.01)
	expectEqual(t, v.data.value(ModSrc{Kind: SrcPitchWheel}), 1.0)
	v.Bend(0)
	expectWithin(t, v.Oscs[0].Frequency(), 440, 0.01)
}
