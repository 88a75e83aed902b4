package audio

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

var fft = NewFFT(fftSize, false)

// FFT is a radix-2 transform of a fixed length.
type FFT struct {
	bitReverseTable []int
	wTable          []complex128
	inverse         bool
	work            []complex128
}

// NewFFT ...
func NewFFT(length int, inverse bool) *FFT {
	return &FFT{
		bitReverseTable: makeBitReverseTable(length),
		wTable:          makeWTable(length),
		inverse:         inverse,
		work:            make([]complex128, length),
	}
}
func makeBitReverseTable(n int) []int {
	array := make([]int, n)
	for i := 0; i < n; i++ {
		array[i] = bitReverse(i, n)
	}
	return array
}
func bitReverse(k, n int) int {
	m := 0
	for ; n > 1; n = n >> 1 {
		m = m<<1 + k&1
		k = k >> 1
	}
	return m
}
func makeWTable(n int) []complex128 {
	array := make([]complex128, n)
	w := -2.0 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		array[i] = cmplx.Exp(complex(0, w*float64(i)))
	}
	return array
}

// Len ...
func (fft *FFT) Len() int {
	return len(fft.bitReverseTable)
}

// Calc transforms x in place.
func (fft *FFT) Calc(x []complex128) error {
	n := len(x)
	if n != fft.Len() {
		return errors.Errorf("length should be %v, but got %v", fft.Len(), n)
	}
	for i := 0; i < n; i++ {
		rev := fft.bitReverseTable[i]
		if i < rev {
			x[i], x[rev] = x[rev], x[i]
		}
	}
	for m := 1; m < n; m = m << 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			idx := n / step * k
			if fft.inverse && idx > 0 {
				idx = n - idx
			}
			w := fft.wTable[idx]
			for i := k; i < n; i += step {
				j := i + m
				tmp := x[j] * w
				x[j] = x[i] - tmp
				x[i] = x[i] + tmp
			}
		}
	}
	if fft.inverse {
		for i := 0; i < n; i++ {
			x[i] /= complex(float64(n), 0)
		}
	}
	return nil
}

func (fft *FFT) load(x []float64) error {
	if len(x) != fft.Len() {
		return errors.Errorf("length should be %v, but got %v", fft.Len(), len(x))
	}
	for i, value := range x {
		fft.work[i] = complex(value, 0)
	}
	return fft.Calc(fft.work)
}

// CalcReal replaces x with the real part of its transform.
func (fft *FFT) CalcReal(x []float64) error {
	if err := fft.load(x); err != nil {
		return err
	}
	for i := range x {
		x[i] = real(fft.work[i])
	}
	return nil
}

// CalcAbs replaces x with the magnitude of its transform.
func (fft *FFT) CalcAbs(x []float64) error {
	if err := fft.load(x); err != nil {
		return err
	}
	for i := range x {
		x[i] = cmplx.Abs(fft.work[i])
	}
	return nil
}

// PeakFrequency returns the frequency of the loudest bin of a spectrum
// holding the first half of an FFT of the given sample rate.
func PeakFrequency(spectrum []float64, sampleRate int) float64 {
	peak := 0
	for i, value := range spectrum {
		if value > spectrum[peak] {
			peak = i
		}
	}
	return float64(peak) * float64(sampleRate) / float64(len(spectrum)*2)
}
