package synth

import "math"

const thermal = 0.000025

// moogLadder is Huovilainen's model of the Moog ladder filter, run at twice
// the sample rate. Coefficients are only recomputed when cutoff or
// resonance change.
type moogLadder struct {
	sampleRate float64
	cutoff     float64 // Hz
	resonance  float64
	tune       float64
	resQuad    float64
	stage      [4]float64
	stageTanh  [3]float64
	delay      [6]float64
}

func (m *moogLadder) setParams(cutoff float64, resonance float64) {
	if cutoff == m.cutoff && resonance == m.resonance {
		return
	}
	m.cutoff = cutoff
	m.resonance = resonance

	fc := cutoff / m.sampleRate
	f := fc * 0.5 // oversampled
	fc2 := fc * fc
	fc3 := fc2 * fc
	fcr := 1.8730*fc3 + 0.4955*fc2 - 0.6490*fc + 0.9988
	acr := -3.9364*fc2 + 1.8409*fc + 0.9968
	m.tune = (1 - math.Exp(-(2*math.Pi)*f*fcr)) / thermal
	m.resQuad = 4 * resonance * acr
}

func (m *moogLadder) process(in float64) float64 {
	for j := 0; j < 2; j++ {
		input := in - m.resQuad*m.delay[5]
		m.stage[0] = m.delay[0] + m.tune*(math.Tanh(input*thermal)-m.stageTanh[0])
		m.delay[0] = m.stage[0]
		for k := 1; k < 4; k++ {
			input = m.stage[k-1]
			m.stageTanh[k-1] = math.Tanh(input * thermal)
			var next float64
			if k != 3 {
				next = m.stageTanh[k]
			} else {
				next = math.Tanh(m.delay[k] * thermal)
			}
			m.stage[k] = m.delay[k] + m.tune*(m.stageTanh[k-1]-next)
			m.delay[k] = m.stage[k]
		}
		// half sample delay for phase compensation
		m.delay[5] = (m.stage[3] + m.delay[4]) * 0.5
		m.delay[4] = m.stage[3]
	}
	return m.delay[5]
}

func (m *moogLadder) clear() {
	m.stage = [4]float64{}
	m.stageTanh = [3]float64{}
	m.delay = [6]float64{}
}
