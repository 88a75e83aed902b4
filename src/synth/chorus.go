package synth

import (
	"github.com/chewxy/math32"
)

// Chorus mixes the input with a buffer of the last second of input read at
// a jumping position, then saturates the sum.
type Chorus struct {
	Volume float64

	speed  float64 // seconds
	buf    []float32
	insert int
	get    int
	step   int
	input  float32
}

// NewChorus ...
func NewChorus(sampleRate int) *Chorus {
	c := &Chorus{
		Volume: 0.75,
		buf:    make([]float32, sampleRate),
	}
	c.SetSpeed(0.25)
	return c
}

// Speed ...
func (c *Chorus) Speed() float64 {
	return c.speed
}

// SetSpeed sets how far the read position moves each sample, in seconds.
func (c *Chorus) SetSpeed(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	c.speed = seconds
	c.step = int(float64(len(c.buf))*seconds*0.5) % len(c.buf)
}

// TakeInput ...
func (c *Chorus) TakeInput(v float64) {
	c.input = float32(v * c.Volume)
	c.buf[c.insert] = c.input
	c.insert++
	if c.insert >= len(c.buf) {
		c.insert = 0
	}
}

// GetSample ...
func (c *Chorus) GetSample() float64 {
	out := math32.Tanh(c.buf[c.get] + c.input)
	c.get = (c.get + c.step) % len(c.buf)
	return float64(out)
}

// Clear ...
func (c *Chorus) Clear() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.input = 0
}
