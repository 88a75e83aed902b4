package synth

import (
	"github.com/pkg/errors"
)

// CommandKind ...
type CommandKind int

const (
	CmdMIDI CommandKind = iota
	CmdSetParam
	CmdSetModItem
	CmdClearModItem
	CmdSetOscEnabled
	CmdSetOscTarget
	CmdSetOscOffset
	CmdSetFilterKind
	CmdSetFilterKeyTrack
	CmdSetEffectKind
	CmdSetEffectEnabled
	CmdSetEffectParam
	CmdLearn
	CmdSetMacro
	CmdAllNotesOff
)

// Command is a change to an Engine made from outside the render loop.
// Commands are plain values so they can be queued without allocating.
type Command struct {
	Kind  CommandKind
	Event Event
	Dest  ModDest
	Item  ModMatrixItem
	Index int
	Int   int
	Flag  bool
	Value float64
	Name  string
}

// MIDICommand ...
func MIDICommand(ev Event) Command {
	return Command{Kind: CmdMIDI, Event: ev}
}

// Apply runs the command against the engine.
func (e *Engine) Apply(cmd Command) error {
	switch cmd.Kind {
	case CmdMIDI:
		e.MidiInput(cmd.Event)
	case CmdSetParam:
		return e.SetParam(cmd.Dest, cmd.Value)
	case CmdSetModItem:
		return e.SetModItem(cmd.Index, cmd.Item)
	case CmdClearModItem:
		return e.ClearModItem(cmd.Index)
	case CmdSetOscEnabled:
		return e.SetOscEnabled(cmd.Index, cmd.Flag)
	case CmdSetOscTarget:
		return e.SetOscTarget(cmd.Index, OscTarget(cmd.Int))
	case CmdSetOscOffset:
		return e.SetOscOffset(cmd.Index, cmd.Int)
	case CmdSetFilterKind:
		return e.SetFilterKind(cmd.Index, FilterKind(cmd.Int))
	case CmdSetFilterKeyTrack:
		return e.SetFilterKeyTrack(cmd.Index, cmd.Flag)
	case CmdSetEffectKind:
		return e.SetEffectKind(EffectKind(cmd.Int))
	case CmdSetEffectEnabled:
		e.SetEffectEnabled(cmd.Flag)
	case CmdSetEffectParam:
		return e.SetEffectParam(cmd.Name, cmd.Value)
	case CmdLearn:
		return e.Learn(cmd.Dest)
	case CmdSetMacro:
		return e.SetMacro(cmd.Index, cmd.Value)
	case CmdAllNotesOff:
		e.AllNotesOff()
	default:
		return errors.Errorf("unknown command %d", int(cmd.Kind))
	}
	return nil
}
