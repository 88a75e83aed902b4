package synth

import (
	"bytes"
	"math"
	"testing"
)

func TestSineTableStaysWithinHeadroom(t *testing.T) {
	table := BuildWaveTable(1024, SineOvertones())
	peak := 0.0
	for i, v := range table {
		if math.Abs(float64(v)) > 1.05 {
			t.Fatalf("table[%d] = %v exceeds headroom", i, v)
		}
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	expectNearlyEqual(t, peak, 1)
	expectNearlyEqual(t, float64(table[256]), 1)
	expectNearlyEqual(t, float64(table[768]), -1)

	o := newOscillator(table, 48000)
	o.Detune = 0.37 // between notes
	o.Press(70)
	for i := 0; i < 10000; i++ {
		v := o.GetSample()
		if math.Abs(v) > 1.05 {
			t.Fatalf("sample %d = %v exceeds headroom", i, v)
		}
	}
}

func TestSawTableIsNormalized(t *testing.T) {
	table := BuildWaveTable(2048, DefaultOvertones(32))
	peak := 0.0
	for _, v := range table {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	expectNearlyEqual(t, peak, 1)
}

func TestEmptyOvertonesBuildSilence(t *testing.T) {
	table := BuildWaveTable(64, []Overtone{{Ratio: 1, Amplitude: 0}})
	for _, v := range table {
		expectEqual(t, v, float32(0))
	}
}

func TestTriangleTable(t *testing.T) {
	table := BuildTriangleTable(128)
	expectEqual(t, table[0], float32(0))
	expectEqual(t, table[64], float32(1))
	for i := 1; i <= 64; i++ {
		if table[i] < table[i-1] {
			t.Fatalf("not rising at %d", i)
		}
	}
	for i := 65; i < 128; i++ {
		if table[i] > table[i-1] {
			t.Fatalf("not falling at %d", i)
		}
	}
}

func TestTableInterpolation(t *testing.T) {
	table := WaveTable{0, 1, 0, -1}
	expectNearlyEqual(t, table.at(0.5), 0.5)
	expectNearlyEqual(t, table.at(1.25), 0.75)
	expectNearlyEqual(t, table.at(3.5), -0.5) // wraps to table[0]
}

func TestWaveTableSaveLoad(t *testing.T) {
	table := BuildWaveTable(256, SquareOvertones(15))
	var buf bytes.Buffer
	expectNoError(t, table.Save(&buf))
	loaded, err := LoadWaveTable(&buf, 1024)
	expectNoError(t, err)
	expectEqual(t, len(loaded), len(table))
	for i := range table {
		expectEqual(t, loaded[i], table[i])
	}
}

func TestLoadWaveTableRejectsOversize(t *testing.T) {
	var buf bytes.Buffer
	expectNoError(t, BuildWaveTable(256, SineOvertones()).Save(&buf))
	_, err := LoadWaveTable(&buf, 128)
	if err == nil {
		t.Fatal("expected an error")
	}
}
