package audio

import (
	"math"

	"github.com/pkg/errors"
)

// Han ...
func Han(data []float64) {
	cosineWindow(data, 0.5, 0.5, 0)
}

// Blackman ...
func Blackman(data []float64) {
	cosineWindow(data, 0.42, 0.5, 0.08)
}

// Hamming ...
func Hamming(data []float64) {
	cosineWindow(data, 0.54, 0.46, 0)
}

// cosineWindow multiplies data by a0 - a1*cos(2πx) + a2*cos(4πx).
func cosineWindow(data []float64, a0, a1, a2 float64) {
	n := len(data)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		w := a0 - a1*math.Cos(2.0*math.Pi*x) + a2*math.Cos(4.0*math.Pi*x)
		data[i] = data[i] * w
	}
}

// WindowByName returns the window function for "han", "hamming" or "blackman".
func WindowByName(name string) (func([]float64), error) {
	switch name {
	case "han", "hann":
		return Han, nil
	case "hamming":
		return Hamming, nil
	case "blackman":
		return Blackman, nil
	}
	return nil, errors.Errorf("unknown window %q", name)
}
