package synth

// LFO is a free-running low frequency oscillator that only sounds while its
// voice is pressed. Its output is in [0, 1].
type LFO struct {
	Frequency float64 // Hz

	speedMod  float64
	frequency float64 // last applied
	playing   bool
	osc       wavetableOsc
}

func newLFO(table WaveTable, sampleRate float64) *LFO {
	l := &LFO{
		frequency: -1,
		osc:       wavetableOsc{table: table, sampleRate: sampleRate},
	}
	l.SetFrequency(1)
	return l
}

// SetFrequency ...
func (l *LFO) SetFrequency(freq float64) {
	l.Frequency = freq
	l.updateFrequency()
}

func (l *LFO) updateFrequency() {
	freq := calcModulation(l.Frequency, l.speedMod)
	if freq < 0 {
		freq = 0
	}
	if freq != l.frequency {
		l.frequency = freq
		l.osc.setFrequency(freq)
	}
}

// Press ...
func (l *LFO) Press() {
	l.playing = true
	l.osc.reset()
}

// Release ...
func (l *LFO) Release() {
	l.playing = false
}

// Playing ...
func (l *LFO) Playing() bool {
	return l.playing
}

// GetSample ...
func (l *LFO) GetSample() float64 {
	if !l.playing {
		return 0
	}
	l.updateFrequency()
	return l.osc.next()
}

// Modulate ...
func (l *LFO) Modulate(param int, amount float64) {
	if param == LfoSpeed {
		l.speedMod = amount
	}
}

// ResetMod ...
func (l *LFO) ResetMod() {
	l.speedMod = 0
}
