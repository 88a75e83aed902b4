package synth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ----- Source ----- //

// ModSrcKind ...
type ModSrcKind int

const (
	SrcVelocity ModSrcKind = iota
	SrcGate
	SrcPitchWheel
	SrcModWheel
	SrcEnv
	SrcLfo
	SrcMacro1
	SrcMacro2
	SrcMacro3
	SrcMacro4
)

// ModSrc names a value read from a voice's DataTable.
// Index is only meaningful for SrcEnv and SrcLfo.
type ModSrc struct {
	Kind  ModSrcKind
	Index int
}

// EnvSrc ...
func EnvSrc(index int) ModSrc {
	return ModSrc{Kind: SrcEnv, Index: index}
}

// LfoSrc ...
func LfoSrc(index int) ModSrc {
	return ModSrc{Kind: SrcLfo, Index: index}
}

// MacroSrc returns the source for macro n (1-4).
func MacroSrc(n int) ModSrc {
	return ModSrc{Kind: SrcMacro1 + ModSrcKind(n-1)}
}

func (s ModSrc) String() string {
	switch s.Kind {
	case SrcVelocity:
		return "velocity"
	case SrcGate:
		return "gate"
	case SrcPitchWheel:
		return "pitch_wheel"
	case SrcModWheel:
		return "mod_wheel"
	case SrcEnv:
		return "env" + strconv.Itoa(s.Index)
	case SrcLfo:
		return "lfo" + strconv.Itoa(s.Index)
	case SrcMacro1, SrcMacro2, SrcMacro3, SrcMacro4:
		return "macro" + strconv.Itoa(int(s.Kind-SrcMacro1)+1)
	}
	return fmt.Sprintf("src(%d)", int(s.Kind))
}

// ParseModSrc is the inverse of ModSrc.String.
func ParseModSrc(s string) (ModSrc, error) {
	switch s {
	case "velocity":
		return ModSrc{Kind: SrcVelocity}, nil
	case "gate":
		return ModSrc{Kind: SrcGate}, nil
	case "pitch_wheel":
		return ModSrc{Kind: SrcPitchWheel}, nil
	case "mod_wheel":
		return ModSrc{Kind: SrcModWheel}, nil
	}
	if n, ok := indexAfter(s, "macro"); ok && n >= 1 && n <= numMacros {
		return MacroSrc(n), nil
	}
	if n, ok := indexAfter(s, "env"); ok {
		return EnvSrc(n), nil
	}
	if n, ok := indexAfter(s, "lfo"); ok {
		return LfoSrc(n), nil
	}
	return ModSrc{}, errors.Wrapf(ErrInvalidSrc, "unknown source %q", s)
}

// MarshalText ...
func (s ModSrc) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText ...
func (s *ModSrc) UnmarshalText(text []byte) error {
	src, err := ParseModSrc(string(text))
	if err != nil {
		return err
	}
	*s = src
	return nil
}

// ----- Destination ----- //

// ModDestKind ...
type ModDestKind int

const (
	DestOsc ModDestKind = iota
	DestEnv
	DestLfo
	DestLowPass
	DestSynthVolume
	DestModAmt
)

const (
	OscLevel = iota
	OscTune
)

const (
	EnvAttack = iota
	EnvDecay
	EnvSustain
	EnvRelease
)

const (
	LfoSpeed = iota
)

const (
	LowPassCutoff = iota
	LowPassRes
	LowPassMix
)

const (
	LP1 = iota
	LP2
)

var oscParamNames = []string{"level", "tune"}
var envParamNames = []string{"attack", "decay", "sustain", "release"}
var lfoParamNames = []string{"speed"}
var lowPassParamNames = []string{"cutoff", "res", "mix"}

// ModDest names one parameter of one module instance.
// Index selects the oscillator, envelope, lfo, filter (LP1/LP2) or
// matrix slot; Param selects the parameter within that module.
type ModDest struct {
	Kind  ModDestKind
	Index int
	Param int
}

// OscDest ...
func OscDest(index int, param int) ModDest {
	return ModDest{Kind: DestOsc, Index: index, Param: param}
}

// EnvDest ...
func EnvDest(index int, param int) ModDest {
	return ModDest{Kind: DestEnv, Index: index, Param: param}
}

// LfoDest ...
func LfoDest(index int, param int) ModDest {
	return ModDest{Kind: DestLfo, Index: index, Param: param}
}

// LowPassDest ...
func LowPassDest(id int, param int) ModDest {
	return ModDest{Kind: DestLowPass, Index: id, Param: param}
}

// SynthVolumeDest ...
func SynthVolumeDest() ModDest {
	return ModDest{Kind: DestSynthVolume}
}

// ModAmtDest ...
func ModAmtDest(slot int) ModDest {
	return ModDest{Kind: DestModAmt, Index: slot}
}

func paramName(names []string, param int) string {
	if param >= 0 && param < len(names) {
		return names[param]
	}
	return strconv.Itoa(param)
}

func (d ModDest) String() string {
	switch d.Kind {
	case DestOsc:
		return fmt.Sprintf("osc%d.%s", d.Index, paramName(oscParamNames, d.Param))
	case DestEnv:
		return fmt.Sprintf("env%d.%s", d.Index, paramName(envParamNames, d.Param))
	case DestLfo:
		return fmt.Sprintf("lfo%d.%s", d.Index, paramName(lfoParamNames, d.Param))
	case DestLowPass:
		return fmt.Sprintf("lp%d.%s", d.Index+1, paramName(lowPassParamNames, d.Param))
	case DestSynthVolume:
		return "volume"
	case DestModAmt:
		return "mod_amt" + strconv.Itoa(d.Index)
	}
	return fmt.Sprintf("dest(%d)", int(d.Kind))
}

// ParseModDest is the inverse of ModDest.String.
func ParseModDest(s string) (ModDest, error) {
	if s == "volume" {
		return SynthVolumeDest(), nil
	}
	if n, ok := indexAfter(s, "mod_amt"); ok {
		return ModAmtDest(n), nil
	}
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return ModDest{}, errors.Wrapf(ErrInvalidDest, "unknown destination %q", s)
	}
	module, param := parts[0], parts[1]
	lookup := func(names []string) (int, error) {
		for i, name := range names {
			if name == param {
				return i, nil
			}
		}
		return 0, errors.Wrapf(ErrInvalidDest, "unknown parameter %q in %q", param, s)
	}
	var kind ModDestKind
	var names []string
	index := -1
	if n, ok := indexAfter(module, "osc"); ok {
		kind, names, index = DestOsc, oscParamNames, n
	} else if n, ok := indexAfter(module, "env"); ok {
		kind, names, index = DestEnv, envParamNames, n
	} else if n, ok := indexAfter(module, "lfo"); ok {
		kind, names, index = DestLfo, lfoParamNames, n
	} else if n, ok := indexAfter(module, "lp"); ok && (n == 1 || n == 2) {
		kind, names, index = DestLowPass, lowPassParamNames, n-1
	} else {
		return ModDest{}, errors.Wrapf(ErrInvalidDest, "unknown module %q", module)
	}
	p, err := lookup(names)
	if err != nil {
		return ModDest{}, err
	}
	return ModDest{Kind: kind, Index: index, Param: p}, nil
}

// MarshalText ...
func (d ModDest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText ...
func (d *ModDest) UnmarshalText(text []byte) error {
	dest, err := ParseModDest(string(text))
	if err != nil {
		return err
	}
	*d = dest
	return nil
}

// indexAfter parses strings like "env3" into 3.
func indexAfter(s string, prefix string) (int, bool) {
	if !strings.HasPrefix(s, prefix) || len(s) == len(prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(s[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
