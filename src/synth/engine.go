package synth

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

const (
	defaultOvertones  = 32
	engineAllpassFreq = 10010.0
	engineInputGain   = 0.75
	engineOutputGain  = 0.5
	maxEnvSeconds     = 5.0
	maxTuneSemitones  = 12.0
)

// Stats ...
type Stats struct {
	ActiveVoices int
	DroppedNotes uint64
	Rendered     uint64
}

// Engine owns the voice pool and everything shared between voices.
//
// An Engine is not safe for concurrent use: one goroutine renders and
// applies commands between buffers.
type Engine struct {
	cfg       Config
	voices    []*Voice
	modMatrix *ModMatrix
	midiTable [midiTableSize]ModDest
	midiBound [midiTableSize]bool
	learning  bool
	learnDest ModDest
	allpass   biquad
	oscTable  WaveTable
	lfoTable  WaveTable
	dropped   uint64
}

// NewEngine builds an engine with the default saw table.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewEngineWithTable(cfg, BuildWaveTable(cfg.OscTableSize, DefaultOvertones(defaultOvertones)))
}

// NewEngineWithTable builds an engine whose oscillators read the given table.
func NewEngineWithTable(cfg Config, oscTable WaveTable) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(oscTable) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "oscillator table is empty")
	}
	e := &Engine{
		cfg:       cfg,
		voices:    make([]*Voice, cfg.Polyphony),
		modMatrix: NewModMatrix(cfg),
		oscTable:  oscTable,
		lfoTable:  BuildTriangleTable(cfg.LfoTableSize),
	}
	for i := range e.voices {
		e.voices[i] = newVoice(cfg, e.oscTable, e.lfoTable)
	}
	e.allpass.c = makeBiquadAllpass(engineAllpassFreq/float64(cfg.SampleRate), butterworthQ)
	return e, nil
}

// Config ...
func (e *Engine) Config() Config {
	return e.cfg
}

// Voices ...
func (e *Engine) Voices() []*Voice {
	return e.voices
}

// ModMatrix ...
func (e *Engine) ModMatrix() *ModMatrix {
	return e.modMatrix
}

// Stats ...
func (e *Engine) Stats() Stats {
	s := Stats{DroppedNotes: e.dropped}
	for _, v := range e.voices {
		if !v.Idle() {
			s.ActiveVoices++
		}
		s.Rendered += v.Rendered()
	}
	return s
}

// ----- Notes ----- //

// Play gives the note to the first idle voice. When every voice is busy the
// note is dropped and false is returned.
func (e *Engine) Play(note uint8, velocity uint8) bool {
	for _, v := range e.voices {
		if v.Idle() {
			v.Press(note, velocity)
			return true
		}
	}
	e.dropped++
	return false
}

// Stop releases the first voice still holding the note.
func (e *Engine) Stop(note uint8) bool {
	for _, v := range e.voices {
		if n, ok := v.Playing(); ok && n == note && v.Held() {
			v.Release()
			return true
		}
	}
	return false
}

// AllNotesOff releases every held voice.
func (e *Engine) AllNotesOff() {
	for _, v := range e.voices {
		if v.Held() {
			v.Release()
		}
	}
}

// MidiInput handles one event.
func (e *Engine) MidiInput(ev Event) {
	switch ev.Kind {
	case EventNoteOn:
		if ev.Velocity == 0 {
			e.Stop(ev.Note)
		} else {
			e.Play(ev.Note, ev.Velocity)
		}
	case EventNoteOff:
		e.Stop(ev.Note)
	case EventControlChange:
		e.controlChange(ev.Controller, ev.Value)
	case EventPitchBend:
		e.Bend(ev.BendAmount())
	}
}

// Bend sends the pitch wheel to every voice.
func (e *Engine) Bend(amount float64) {
	for _, v := range e.voices {
		v.Bend(amount)
	}
}

func (e *Engine) controlChange(cc uint8, value uint8) {
	if e.learning {
		e.midiTable[cc] = e.learnDest
		e.midiBound[cc] = true
		e.learning = false
	}
	x := float64(value) / 127
	switch {
	case cc == ccModWheel:
		for _, v := range e.voices {
			v.data.ModWheel = x
		}
	case cc >= ccMacro1 && cc < ccMacro1+numMacros:
		e.SetMacro(int(cc-ccMacro1)+1, x)
	}
	if e.midiBound[cc] {
		dest := e.midiTable[cc]
		e.SetParam(dest, ccToParam(dest, x))
	}
}

// ccToParam maps a controller position in [0, 1] onto the range of dest.
func ccToParam(dest ModDest, x float64) float64 {
	switch dest.Kind {
	case DestOsc:
		if dest.Param == OscTune {
			return (x*2 - 1) * maxTuneSemitones
		}
	case DestEnv:
		if dest.Param != EnvSustain {
			return x * x * maxEnvSeconds
		}
	case DestLfo:
		return 0.1 * math.Pow(2, x*8)
	}
	return x
}

// ----- Control ----- //

// Learn binds dest to the next control change received.
func (e *Engine) Learn(dest ModDest) error {
	if err := e.validateParamDest(dest); err != nil {
		return err
	}
	e.learning = true
	e.learnDest = dest
	return nil
}

// BindCC ...
func (e *Engine) BindCC(cc uint8, dest ModDest) error {
	if err := e.validateParamDest(dest); err != nil {
		return err
	}
	e.midiTable[cc] = dest
	e.midiBound[cc] = true
	return nil
}

// UnbindCC ...
func (e *Engine) UnbindCC(cc uint8) {
	e.midiTable[cc] = ModDest{}
	e.midiBound[cc] = false
}

// BoundCC returns the destination bound to cc, if any.
func (e *Engine) BoundCC(cc uint8) (ModDest, bool) {
	return e.midiTable[cc], e.midiBound[cc]
}

// SetMacro sets macro n (1-4) on every voice.
func (e *Engine) SetMacro(n int, value float64) error {
	if n < 1 || n > numMacros {
		return errors.Errorf("macro %d out of range", n)
	}
	for _, v := range e.voices {
		v.data.Macro[n-1] = value
	}
	return nil
}

// SetModItem ...
func (e *Engine) SetModItem(slot int, item ModMatrixItem) error {
	return e.modMatrix.Set(slot, item)
}

// ClearModItem ...
func (e *Engine) ClearModItem(slot int) error {
	return e.modMatrix.Clear(slot)
}

func (e *Engine) validateParamDest(dest ModDest) error {
	if dest.Kind == DestModAmt {
		return errors.Wrapf(ErrReservedDest, "%v", dest)
	}
	return validateDest(e.cfg, dest)
}

// SetParam writes the base value addressed by dest on every voice.
func (e *Engine) SetParam(dest ModDest, value float64) error {
	if err := e.validateParamDest(dest); err != nil {
		return err
	}
	for _, v := range e.voices {
		switch dest.Kind {
		case DestOsc:
			o := v.Oscs[dest.Index]
			switch dest.Param {
			case OscLevel:
				o.Level = value
			case OscTune:
				o.Detune = value
			}
		case DestEnv:
			env := v.Envs[dest.Index]
			switch dest.Param {
			case EnvAttack:
				env.AttackTime = value
			case EnvDecay:
				env.DecayTime = value
			case EnvSustain:
				env.SustainLevel = value
			case EnvRelease:
				env.ReleaseTime = value
			}
		case DestLfo:
			v.Lfos[dest.Index].SetFrequency(value)
		case DestLowPass:
			f := v.Filters[dest.Index]
			switch dest.Param {
			case LowPassCutoff:
				f.Cutoff = value
			case LowPassRes:
				f.Resonance = value
			case LowPassMix:
				f.Mix = value
			}
		case DestSynthVolume:
			v.Level = value
		}
	}
	return nil
}

// Param reads the base value addressed by dest.
func (e *Engine) Param(dest ModDest) (float64, error) {
	if err := e.validateParamDest(dest); err != nil {
		return 0, err
	}
	v := e.voices[0]
	switch dest.Kind {
	case DestOsc:
		o := v.Oscs[dest.Index]
		if dest.Param == OscTune {
			return o.Detune, nil
		}
		return o.Level, nil
	case DestEnv:
		env := v.Envs[dest.Index]
		switch dest.Param {
		case EnvAttack:
			return env.AttackTime, nil
		case EnvDecay:
			return env.DecayTime, nil
		case EnvSustain:
			return env.SustainLevel, nil
		}
		return env.ReleaseTime, nil
	case DestLfo:
		return v.Lfos[dest.Index].Frequency, nil
	case DestLowPass:
		f := v.Filters[dest.Index]
		switch dest.Param {
		case LowPassCutoff:
			return f.Cutoff, nil
		case LowPassRes:
			return f.Resonance, nil
		}
		return f.Mix, nil
	}
	return v.Level, nil
}

func (e *Engine) checkOsc(index int) error {
	if index < 0 || index >= e.cfg.NumOsc {
		return errors.Errorf("oscillator %d out of range", index)
	}
	return nil
}

func (e *Engine) checkFilter(id int) error {
	if id < 0 || id >= numFilters {
		return errors.Errorf("filter %d out of range", id)
	}
	return nil
}

// SetOscEnabled ...
func (e *Engine) SetOscEnabled(index int, enabled bool) error {
	if err := e.checkOsc(index); err != nil {
		return err
	}
	for _, v := range e.voices {
		v.Oscs[index].Enabled = enabled
	}
	return nil
}

// SetOscTarget ...
func (e *Engine) SetOscTarget(index int, target OscTarget) error {
	if err := e.checkOsc(index); err != nil {
		return err
	}
	if target < TargetFilter1 || target > TargetDirectOut {
		return errors.Errorf("invalid oscillator target %d", int(target))
	}
	for _, v := range e.voices {
		v.Oscs[index].Target = target
	}
	return nil
}

// SetOscOffset sets the transposition in semitones applied on the next press.
func (e *Engine) SetOscOffset(index int, semitones int) error {
	if err := e.checkOsc(index); err != nil {
		return err
	}
	for _, v := range e.voices {
		v.Oscs[index].Offset = semitones
	}
	return nil
}

// SetFilterKind ...
func (e *Engine) SetFilterKind(id int, kind FilterKind) error {
	if err := e.checkFilter(id); err != nil {
		return err
	}
	if kind != FilterLadder && kind != FilterBiquad {
		return errors.Errorf("invalid filter kind %d", int(kind))
	}
	for _, v := range e.voices {
		f := v.Filters[id]
		if f.Kind != kind {
			f.Kind = kind
			f.Clear()
		}
	}
	return nil
}

// SetFilterKeyTrack ...
func (e *Engine) SetFilterKeyTrack(id int, on bool) error {
	if err := e.checkFilter(id); err != nil {
		return err
	}
	for _, v := range e.voices {
		v.Filters[id].KeyTrack = on
	}
	return nil
}

// SetEffectKind ...
func (e *Engine) SetEffectKind(kind EffectKind) error {
	if kind != EffectChorus && kind != EffectReverb {
		return errors.Errorf("invalid effect kind %d", int(kind))
	}
	for _, v := range e.voices {
		v.Effect.Kind = kind
	}
	return nil
}

// SetEffectEnabled ...
func (e *Engine) SetEffectEnabled(enabled bool) {
	for _, v := range e.voices {
		v.Effect.Enabled = enabled
	}
}

// SetEffectParam ...
func (e *Engine) SetEffectParam(name string, value float64) error {
	for _, v := range e.voices {
		if err := v.Effect.SetParam(name, value); err != nil {
			return err
		}
	}
	return nil
}

// ----- Render ----- //

// GetSample renders one output sample.
func (e *Engine) GetSample() float32 {
	sum := 0.0
	for _, v := range e.voices {
		sum += v.GetSample(e.modMatrix)
	}
	out := float32(e.allpass.process(sum*engineInputGain) * engineOutputGain)
	if math32.IsNaN(out) || math32.IsInf(out, 0) {
		e.allpass.clear()
		return 0
	}
	return math32.Tanh(out)
}

// Render fills buf with consecutive samples.
func (e *Engine) Render(buf []float32) {
	for i := range buf {
		buf[i] = e.GetSample()
	}
}
