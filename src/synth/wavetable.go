package synth

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// WaveTable holds one period of a waveform.
// It is never written after it is built, so voices share it freely.
type WaveTable []float32

// Overtone is one sine partial of a table.
type Overtone struct {
	Ratio     float64
	Amplitude float64
}

// SineOvertones ...
func SineOvertones() []Overtone {
	return []Overtone{{Ratio: 1, Amplitude: 1}}
}

// DefaultOvertones returns n harmonics falling off as 1/k (a band-limited saw).
func DefaultOvertones(n int) []Overtone {
	overtones := make([]Overtone, n)
	for i := range overtones {
		k := float64(i + 1)
		overtones[i] = Overtone{Ratio: k, Amplitude: 1 / k}
	}
	return overtones
}

// SquareOvertones returns the odd harmonics of the first n (a band-limited square).
func SquareOvertones(n int) []Overtone {
	overtones := make([]Overtone, 0, (n+1)/2)
	for k := 1; k <= n; k += 2 {
		overtones = append(overtones, Overtone{Ratio: float64(k), Amplitude: 1 / float64(k)})
	}
	return overtones
}

// BuildWaveTable sums the overtones into a table of the given size.
// The result is normalized so that its peak is exactly 1.
func BuildWaveTable(size int, overtones []Overtone) WaveTable {
	table := make(WaveTable, size)
	nonzero := 0
	for _, o := range overtones {
		if o.Amplitude != 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		return table
	}
	bias := 1 / (float64(nonzero) * 0.5)
	for i := range table {
		value := 0.0
		for _, o := range overtones {
			if o.Amplitude == 0 {
				continue
			}
			value += o.Amplitude * math.Sin(2*math.Pi*float64(i)*o.Ratio/float64(size))
		}
		table[i] = float32(value * bias)
	}
	table.normalize()
	return table
}

// BuildTriangleTable builds a unipolar triangle: a ramp from 0 up to 1 and back.
func BuildTriangleTable(size int) WaveTable {
	table := make(WaveTable, size)
	half := float32(size) / 2
	for i := range table {
		x := float32(i)
		if x <= half {
			table[i] = x / half
		} else {
			table[i] = (float32(size) - x) / half
		}
	}
	return table
}

func (t WaveTable) normalize() {
	var peak float32
	for _, v := range t {
		peak = math32.Max(peak, math32.Abs(v))
	}
	if peak == 0 {
		return
	}
	for i := range t {
		t[i] /= peak
	}
}

// at reads the table at a fractional index in [0, len).
func (t WaveTable) at(index float64) float64 {
	i := int(index)
	if i >= len(t) {
		i = 0
	}
	next := i + 1
	if next >= len(t) {
		next = 0
	}
	frac := index - math.Floor(index)
	return float64(t[i])*(1-frac) + float64(t[next])*frac
}

// IO
//   table = { number_of_samples int32, samples []float32 }

// Save ...
func (t WaveTable) Save(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(t))); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, []float32(t))
}

// LoadWaveTable reads a table written by Save.
func LoadWaveTable(r io.Reader, maxSize int) (WaveTable, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, errors.Wrap(err, "failed to read table length")
	}
	if n <= 0 || int(n) > maxSize {
		return nil, errors.Errorf("table length %d out of range (max %d)", n, maxSize)
	}
	table := make(WaveTable, n)
	if err := binary.Read(r, binary.BigEndian, []float32(table)); err != nil {
		return nil, errors.Wrap(err, "failed to read table samples")
	}
	return table, nil
}

// SaveWaveTableFile ...
func SaveWaveTableFile(path string, t WaveTable) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Save(file); err != nil {
		file.Close()
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return file.Close()
}

// LoadWaveTableFile ...
func LoadWaveTableFile(path string, maxSize int) (WaveTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	table, err := LoadWaveTable(file, maxSize)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return table, nil
}
