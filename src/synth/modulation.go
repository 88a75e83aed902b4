package synth

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidSrc    = errors.New("invalid modulation source")
	ErrInvalidDest   = errors.New("invalid modulation destination")
	ErrReservedDest  = errors.New("modulation destination is reserved")
	ErrSlotRange     = errors.New("mod matrix slot out of range")
	ErrModMatrixFull = errors.New("mod matrix is full")
)

// calcModulation applies a modulation amount to a base value.
// An amount of 0 leaves the value unchanged, 1 doubles it.
func calcModulation(base float64, amount float64) float64 {
	return base + base*amount
}

// ----- Mod Matrix Item ----- //

// ModMatrixItem routes a source to a destination.
type ModMatrixItem struct {
	Src     ModSrc
	Dest    ModDest
	Amt     float64
	Bipolar bool
}

// amount converts a source value into the amount passed to the destination.
// Bipolar routes swing around the base value instead of only upward.
func (m *ModMatrixItem) amount(src float64) float64 {
	amt := src * m.Amt
	if m.Bipolar {
		amt -= m.Amt / 2
	}
	return amt
}

// ----- Mod Matrix ----- //

// ModMatrix is a fixed number of optional routes, evaluated in slot order.
// Routes are validated when written so that the render path never has to.
type ModMatrix struct {
	cfg   Config
	items []ModMatrixItem
	used  []bool
}

// NewModMatrix ...
func NewModMatrix(cfg Config) *ModMatrix {
	return &ModMatrix{
		cfg:   cfg,
		items: make([]ModMatrixItem, cfg.ModMatrixSize),
		used:  make([]bool, cfg.ModMatrixSize),
	}
}

// Len returns the number of slots.
func (m *ModMatrix) Len() int {
	return len(m.items)
}

// Get ...
func (m *ModMatrix) Get(slot int) (ModMatrixItem, bool) {
	if slot < 0 || slot >= len(m.items) || !m.used[slot] {
		return ModMatrixItem{}, false
	}
	return m.items[slot], true
}

// Set validates the item and stores it in the slot.
func (m *ModMatrix) Set(slot int, item ModMatrixItem) error {
	if slot < 0 || slot >= len(m.items) {
		return errors.Wrapf(ErrSlotRange, "slot %d (size %d)", slot, len(m.items))
	}
	if err := m.validate(item); err != nil {
		return errors.Wrapf(err, "slot %d", slot)
	}
	m.items[slot] = item
	m.used[slot] = true
	return nil
}

// Add stores the item in the first empty slot and returns it.
func (m *ModMatrix) Add(item ModMatrixItem) (int, error) {
	for i, used := range m.used {
		if !used {
			return i, m.Set(i, item)
		}
	}
	return -1, ErrModMatrixFull
}

// Clear empties the slot.
func (m *ModMatrix) Clear(slot int) error {
	if slot < 0 || slot >= len(m.items) {
		return errors.Wrapf(ErrSlotRange, "slot %d (size %d)", slot, len(m.items))
	}
	m.items[slot] = ModMatrixItem{}
	m.used[slot] = false
	return nil
}

// ClearAll ...
func (m *ModMatrix) ClearAll() {
	for i := range m.items {
		m.items[i] = ModMatrixItem{}
		m.used[i] = false
	}
}

func (m *ModMatrix) validate(item ModMatrixItem) error {
	if err := validateSrc(m.cfg, item.Src); err != nil {
		return err
	}
	if item.Dest.Kind == DestModAmt {
		return errors.Wrapf(ErrReservedDest, "%v", item.Dest)
	}
	return validateDest(m.cfg, item.Dest)
}

func validateSrc(cfg Config, src ModSrc) error {
	switch src.Kind {
	case SrcVelocity, SrcGate, SrcPitchWheel, SrcModWheel,
		SrcMacro1, SrcMacro2, SrcMacro3, SrcMacro4:
		return nil
	case SrcEnv:
		if src.Index >= 0 && src.Index < cfg.NumEnv {
			return nil
		}
	case SrcLfo:
		if src.Index >= 0 && src.Index < cfg.NumLfo {
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidSrc, "%v", src)
}

func validateDest(cfg Config, dest ModDest) error {
	inRange := func(index int, n int, param int, numParams int) bool {
		return index >= 0 && index < n && param >= 0 && param < numParams
	}
	ok := false
	switch dest.Kind {
	case DestOsc:
		ok = inRange(dest.Index, cfg.NumOsc, dest.Param, len(oscParamNames))
	case DestEnv:
		ok = inRange(dest.Index, cfg.NumEnv, dest.Param, len(envParamNames))
	case DestLfo:
		ok = inRange(dest.Index, cfg.NumLfo, dest.Param, len(lfoParamNames))
	case DestLowPass:
		ok = inRange(dest.Index, numFilters, dest.Param, len(lowPassParamNames))
	case DestSynthVolume:
		ok = true
	case DestModAmt:
		ok = dest.Index >= 0 && dest.Index < cfg.ModMatrixSize
	}
	if !ok {
		return errors.Wrapf(ErrInvalidDest, "%v", dest)
	}
	return nil
}
