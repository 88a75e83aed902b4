package synth

// DataTable holds the values a voice's routes can read this sample.
type DataTable struct {
	hasNote   bool
	note      uint8
	velocity  uint8
	PitchBend float64 // -1 to 1
	ModWheel  float64 // 0 to 1
	Env       []float64
	Lfo       []float64
	Macro     [numMacros]float64
}

func newDataTable(cfg Config) DataTable {
	return DataTable{
		Env: make([]float64, cfg.NumEnv),
		Lfo: make([]float64, cfg.NumLfo),
	}
}

// Note returns the held note, if any.
func (d *DataTable) Note() (uint8, bool) {
	return d.note, d.hasNote
}

// Velocity ...
func (d *DataTable) Velocity() uint8 {
	return d.velocity
}

func (d *DataTable) value(src ModSrc) float64 {
	switch src.Kind {
	case SrcVelocity:
		return float64(d.velocity) / 127
	case SrcGate:
		if d.hasNote {
			return 1
		}
		return 0
	case SrcPitchWheel:
		return d.PitchBend
	case SrcModWheel:
		return d.ModWheel
	case SrcEnv:
		return d.Env[src.Index]
	case SrcLfo:
		return d.Lfo[src.Index]
	case SrcMacro1, SrcMacro2, SrcMacro3, SrcMacro4:
		return d.Macro[src.Kind-SrcMacro1]
	}
	return 0
}
