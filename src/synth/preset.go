package synth

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"
)

// ----- Preset JSON ----- //

type configJSON struct {
	Profile       string `json:"profile"`
	SampleRate    *int   `json:"sampleRate"`
	Polyphony     *int   `json:"polyphony"`
	NumOsc        *int   `json:"numOsc"`
	NumEnv        *int   `json:"numEnv"`
	NumLfo        *int   `json:"numLfo"`
	OscTableSize  *int   `json:"oscTableSize"`
	LfoTableSize  *int   `json:"lfoTableSize"`
	ModMatrixSize *int   `json:"modMatrixSize"`
}

type wavetableJSON struct {
	Shape     string `json:"shape"`
	Overtones int    `json:"overtones"`
	File      string `json:"file"`
}

type oscJSON struct {
	Enabled *bool    `json:"enabled"`
	Level   *float64 `json:"level"`
	Detune  *float64 `json:"detune"`
	Offset  *int     `json:"offset"`
	Target  string   `json:"target"`
}

type envJSON struct {
	Attack  *float64 `json:"attack"`
	Decay   *float64 `json:"decay"`
	Sustain *float64 `json:"sustain"`
	Release *float64 `json:"release"`
}

type lfoJSON struct {
	Frequency *float64 `json:"frequency"`
}

type filterJSON struct {
	Kind      string   `json:"kind"`
	Cutoff    *float64 `json:"cutoff"`
	Resonance *float64 `json:"resonance"`
	Mix       *float64 `json:"mix"`
	KeyTrack  *bool    `json:"keyTrack"`
}

type effectJSON struct {
	Kind    string             `json:"kind"`
	Enabled *bool              `json:"enabled"`
	Params  map[string]float64 `json:"params"`
}

type modItemJSON struct {
	Slot    *int    `json:"slot"`
	Src     ModSrc  `json:"src"`
	Dest    ModDest `json:"dest"`
	Amt     float64 `json:"amt"`
	Bipolar bool    `json:"bipolar"`
}

type ccJSON struct {
	CC   uint8   `json:"cc"`
	Dest ModDest `json:"dest"`
}

type presetJSON struct {
	Name      string        `json:"name"`
	Config    configJSON    `json:"config"`
	Wavetable wavetableJSON `json:"wavetable"`
	Volume    *float64      `json:"volume"`
	Oscs      []oscJSON     `json:"oscs"`
	Envs      []envJSON     `json:"envs"`
	Lfos      []lfoJSON     `json:"lfos"`
	Filters   []filterJSON  `json:"filters"`
	Effect    effectJSON    `json:"effect"`
	ModMatrix []modItemJSON `json:"modMatrix"`
	MidiTable []ccJSON      `json:"midiTable"`
}

func (j *configJSON) toConfig() (Config, error) {
	var cfg Config
	switch j.Profile {
	case "", "desktop":
		cfg = DesktopConfig()
	case "embedded":
		cfg = EmbeddedConfig()
	default:
		return cfg, errors.Wrapf(ErrInvalidConfig, "unknown profile %q", j.Profile)
	}
	override := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	override(&cfg.SampleRate, j.SampleRate)
	override(&cfg.Polyphony, j.Polyphony)
	override(&cfg.NumOsc, j.NumOsc)
	override(&cfg.NumEnv, j.NumEnv)
	override(&cfg.NumLfo, j.NumLfo)
	override(&cfg.OscTableSize, j.OscTableSize)
	override(&cfg.LfoTableSize, j.LfoTableSize)
	override(&cfg.ModMatrixSize, j.ModMatrixSize)
	return cfg, cfg.Validate()
}

func (j *wavetableJSON) build(cfg Config, dir string) (WaveTable, error) {
	if j.File != "" {
		path := j.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return LoadWaveTableFile(path, 1<<20)
	}
	n := j.Overtones
	if n <= 0 {
		n = defaultOvertones
	}
	switch j.Shape {
	case "", "saw":
		return BuildWaveTable(cfg.OscTableSize, DefaultOvertones(n)), nil
	case "square":
		return BuildWaveTable(cfg.OscTableSize, SquareOvertones(n)), nil
	case "sine":
		return BuildWaveTable(cfg.OscTableSize, SineOvertones()), nil
	}
	return nil, errors.Errorf("unknown wavetable shape %q", j.Shape)
}

// ----- Preset ----- //

// Preset is an engine configuration with its initial parameters and routes.
type Preset struct {
	Name   string
	Config Config
	Table  WaveTable
	data   presetJSON
}

// LoadPreset reads a preset file. Wavetable files are resolved relative to it.
func LoadPreset(path string) (*Preset, error) {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParsePreset(bytes, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load preset %s", path)
	}
	return p, nil
}

// ParsePreset ...
func ParsePreset(data []byte, dir string) (*Preset, error) {
	var j presetJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, errors.Wrap(err, "failed to parse preset")
	}
	cfg, err := j.Config.toConfig()
	if err != nil {
		return nil, err
	}
	table, err := j.Wavetable.build(cfg, dir)
	if err != nil {
		return nil, err
	}
	return &Preset{
		Name:   j.Name,
		Config: cfg,
		Table:  table,
		data:   j,
	}, nil
}

// DefaultPreset ...
func DefaultPreset(cfg Config) (*Preset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Preset{
		Name:   "default",
		Config: cfg,
		Table:  BuildWaveTable(cfg.OscTableSize, DefaultOvertones(defaultOvertones)),
	}, nil
}

// NewEngine builds an engine and applies the preset to it.
func (p *Preset) NewEngine() (*Engine, error) {
	e, err := NewEngineWithTable(p.Config, p.Table)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Apply writes the preset's parameters, routes and CC bindings to the engine.
func (p *Preset) Apply(e *Engine) error {
	j := &p.data
	set := func(dest ModDest, value *float64) error {
		if value == nil {
			return nil
		}
		return e.SetParam(dest, *value)
	}
	if err := set(SynthVolumeDest(), j.Volume); err != nil {
		return err
	}
	for i, o := range j.Oscs {
		if err := e.checkOsc(i); err != nil {
			return errors.Wrap(err, "oscs")
		}
		if o.Enabled != nil {
			e.SetOscEnabled(i, *o.Enabled)
		}
		if o.Offset != nil {
			e.SetOscOffset(i, *o.Offset)
		}
		if o.Target != "" {
			target, err := ParseOscTarget(o.Target)
			if err != nil {
				return err
			}
			e.SetOscTarget(i, target)
		}
		if err := set(OscDest(i, OscLevel), o.Level); err != nil {
			return err
		}
		if err := set(OscDest(i, OscTune), o.Detune); err != nil {
			return err
		}
	}
	for i, env := range j.Envs {
		for param, value := range []*float64{env.Attack, env.Decay, env.Sustain, env.Release} {
			if err := set(EnvDest(i, param), value); err != nil {
				return errors.Wrap(err, "envs")
			}
		}
	}
	for i, l := range j.Lfos {
		if err := set(LfoDest(i, LfoSpeed), l.Frequency); err != nil {
			return errors.Wrap(err, "lfos")
		}
	}
	for i, f := range j.Filters {
		if err := e.checkFilter(i); err != nil {
			return errors.Wrap(err, "filters")
		}
		if f.Kind != "" {
			kind, err := ParseFilterKind(f.Kind)
			if err != nil {
				return err
			}
			e.SetFilterKind(i, kind)
		}
		if f.KeyTrack != nil {
			e.SetFilterKeyTrack(i, *f.KeyTrack)
		}
		for param, value := range []*float64{f.Cutoff, f.Resonance, f.Mix} {
			if err := set(LowPassDest(i, param), value); err != nil {
				return err
			}
		}
	}
	if j.Effect.Kind != "" {
		kind, err := ParseEffectKind(j.Effect.Kind)
		if err != nil {
			return err
		}
		e.SetEffectKind(kind)
	}
	if j.Effect.Enabled != nil {
		e.SetEffectEnabled(*j.Effect.Enabled)
	}
	for name, value := range j.Effect.Params {
		if err := e.SetEffectParam(name, value); err != nil {
			return err
		}
	}
	for _, m := range j.ModMatrix {
		item := ModMatrixItem{Src: m.Src, Dest: m.Dest, Amt: m.Amt, Bipolar: m.Bipolar}
		var err error
		if m.Slot != nil {
			err = e.SetModItem(*m.Slot, item)
		} else {
			_, err = e.modMatrix.Add(item)
		}
		if err != nil {
			return errors.Wrap(err, "modMatrix")
		}
	}
	for _, c := range j.MidiTable {
		if err := e.BindCC(c.CC, c.Dest); err != nil {
			return errors.Wrapf(err, "midiTable cc %d", c.CC)
		}
	}
	return nil
}
