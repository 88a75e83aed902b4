package audio

import (
	"strconv"

	"github.com/jinjor/wavetable-synth/src/synth"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/midimessage/channel"
)

// ErrBadCommand is the cause of every error returned by ParseCommand.
var ErrBadCommand = errors.New("bad command")

func badCommand(command []string, format string, args ...interface{}) error {
	return errors.Wrapf(ErrBadCommand, "%v: "+format, append([]interface{}{command}, args...)...)
}

func expectArgs(command []string, n int) error {
	if len(command) != n {
		return badCommand(command, "expected %d argument(s)", n-1)
	}
	return nil
}

func parseUint7(command []string, s string) (uint8, error) {
	value, err := strconv.ParseUint(s, 10, 8)
	if err != nil || value > 127 {
		return 0, badCommand(command, "%q is not in 0-127", s)
	}
	return uint8(value), nil
}

func parseInt(command []string, s string) (int, error) {
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0, badCommand(command, "%q is not an integer", s)
	}
	return value, nil
}

func parseFloat(command []string, s string) (float64, error) {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, badCommand(command, "%q is not a number", s)
	}
	return value, nil
}

func parseBool(command []string, s string) (bool, error) {
	switch s {
	case "true", "on":
		return true, nil
	case "false", "off":
		return false, nil
	}
	return false, badCommand(command, "%q is not a boolean", s)
}

func midiCommand(command []string, raw []byte) (synth.Command, error) {
	ev, ok := synth.DecodeMIDI(raw)
	if !ok {
		return synth.Command{}, badCommand(command, "not a channel message")
	}
	return synth.MIDICommand(ev), nil
}

// ParseCommand turns one line of the control protocol into an engine command.
//
//   note_on <note> <velocity>
//   note_off <note>
//   cc <controller> <value>
//   bend <-8192..8191>
//   set <dest> <value>
//   osc <index> on|off
//   osc <index> target|offset <value>
//   filter lp1|lp2 kind|key_track <value>
//   effect kind|enabled|<param> <value>
//   mod set <slot> <src> <dest> <amount> [bipolar]
//   mod clear <slot>
//   learn <dest>
//   macro <1-4> <value>
//   all_notes_off
func ParseCommand(command []string) (synth.Command, error) {
	if len(command) == 0 {
		return synth.Command{}, badCommand(command, "empty")
	}
	switch command[0] {
	case "note_on":
		if err := expectArgs(command, 3); err != nil {
			return synth.Command{}, err
		}
		note, err := parseUint7(command, command[1])
		if err != nil {
			return synth.Command{}, err
		}
		velocity, err := parseUint7(command, command[2])
		if err != nil {
			return synth.Command{}, err
		}
		return midiCommand(command, channel.Channel0.NoteOn(note, velocity).Raw())
	case "note_off":
		if err := expectArgs(command, 2); err != nil {
			return synth.Command{}, err
		}
		note, err := parseUint7(command, command[1])
		if err != nil {
			return synth.Command{}, err
		}
		return midiCommand(command, channel.Channel0.NoteOff(note).Raw())
	case "cc":
		if err := expectArgs(command, 3); err != nil {
			return synth.Command{}, err
		}
		controller, err := parseUint7(command, command[1])
		if err != nil {
			return synth.Command{}, err
		}
		value, err := parseUint7(command, command[2])
		if err != nil {
			return synth.Command{}, err
		}
		return midiCommand(command, channel.Channel0.ControlChange(controller, value).Raw())
	case "bend":
		if err := expectArgs(command, 2); err != nil {
			return synth.Command{}, err
		}
		bend, err := parseInt(command, command[1])
		if err != nil {
			return synth.Command{}, err
		}
		if bend < -8192 || bend > 8191 {
			return synth.Command{}, badCommand(command, "bend out of range")
		}
		return synth.MIDICommand(synth.PitchBendEvent(int16(bend))), nil
	case "set":
		if err := expectArgs(command, 3); err != nil {
			return synth.Command{}, err
		}
		dest, err := synth.ParseModDest(command[1])
		if err != nil {
			return synth.Command{}, err
		}
		value, err := parseFloat(command, command[2])
		if err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdSetParam, Dest: dest, Value: value}, nil
	case "osc":
		return parseOscCommand(command)
	case "filter":
		return parseFilterCommand(command)
	case "effect":
		return parseEffectCommand(command)
	case "mod":
		return parseModCommand(command)
	case "learn":
		if err := expectArgs(command, 2); err != nil {
			return synth.Command{}, err
		}
		dest, err := synth.ParseModDest(command[1])
		if err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdLearn, Dest: dest}, nil
	case "macro":
		if err := expectArgs(command, 3); err != nil {
			return synth.Command{}, err
		}
		n, err := parseInt(command, command[1])
		if err != nil {
			return synth.Command{}, err
		}
		value, err := parseFloat(command, command[2])
		if err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdSetMacro, Index: n, Value: value}, nil
	case "all_notes_off":
		return synth.Command{Kind: synth.CmdAllNotesOff}, nil
	}
	return synth.Command{}, badCommand(command, "unknown command")
}

func parseOscCommand(command []string) (synth.Command, error) {
	if len(command) < 3 {
		return synth.Command{}, badCommand(command, "too few arguments")
	}
	index, err := parseInt(command, command[1])
	if err != nil {
		return synth.Command{}, err
	}
	switch command[2] {
	case "on", "off":
		if err := expectArgs(command, 3); err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdSetOscEnabled, Index: index, Flag: command[2] == "on"}, nil
	case "target":
		if err := expectArgs(command, 4); err != nil {
			return synth.Command{}, err
		}
		target, err := synth.ParseOscTarget(command[3])
		if err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdSetOscTarget, Index: index, Int: int(target)}, nil
	case "offset":
		if err := expectArgs(command, 4); err != nil {
			return synth.Command{}, err
		}
		offset, err := parseInt(command, command[3])
		if err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdSetOscOffset, Index: index, Int: offset}, nil
	}
	return synth.Command{}, badCommand(command, "unknown oscillator setting %q", command[2])
}

func parseFilterCommand(command []string) (synth.Command, error) {
	if err := expectArgs(command, 4); err != nil {
		return synth.Command{}, err
	}
	var id int
	switch command[1] {
	case "lp1":
		id = synth.LP1
	case "lp2":
		id = synth.LP2
	default:
		return synth.Command{}, badCommand(command, "unknown filter %q", command[1])
	}
	switch command[2] {
	case "kind":
		kind, err := synth.ParseFilterKind(command[3])
		if err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdSetFilterKind, Index: id, Int: int(kind)}, nil
	case "key_track":
		on, err := parseBool(command, command[3])
		if err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdSetFilterKeyTrack, Index: id, Flag: on}, nil
	}
	return synth.Command{}, badCommand(command, "unknown filter setting %q", command[2])
}

func parseEffectCommand(command []string) (synth.Command, error) {
	if err := expectArgs(command, 3); err != nil {
		return synth.Command{}, err
	}
	switch command[1] {
	case "kind":
		kind, err := synth.ParseEffectKind(command[2])
		if err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdSetEffectKind, Int: int(kind)}, nil
	case "enabled":
		on, err := parseBool(command, command[2])
		if err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdSetEffectEnabled, Flag: on}, nil
	}
	value, err := parseFloat(command, command[2])
	if err != nil {
		return synth.Command{}, err
	}
	return synth.Command{Kind: synth.CmdSetEffectParam, Name: command[1], Value: value}, nil
}

func parseModCommand(command []string) (synth.Command, error) {
	if len(command) < 3 {
		return synth.Command{}, badCommand(command, "too few arguments")
	}
	slot, err := parseInt(command, command[2])
	if err != nil {
		return synth.Command{}, err
	}
	switch command[1] {
	case "clear":
		if err := expectArgs(command, 3); err != nil {
			return synth.Command{}, err
		}
		return synth.Command{Kind: synth.CmdClearModItem, Index: slot}, nil
	case "set":
		if len(command) != 6 && len(command) != 7 {
			return synth.Command{}, badCommand(command, "expected 4 or 5 arguments")
		}
		src, err := synth.ParseModSrc(command[3])
		if err != nil {
			return synth.Command{}, err
		}
		dest, err := synth.ParseModDest(command[4])
		if err != nil {
			return synth.Command{}, err
		}
		amt, err := parseFloat(command, command[5])
		if err != nil {
			return synth.Command{}, err
		}
		bipolar := false
		if len(command) == 7 {
			if command[6] != "bipolar" {
				return synth.Command{}, badCommand(command, "expected \"bipolar\"")
			}
			bipolar = true
		}
		item := synth.ModMatrixItem{Src: src, Dest: dest, Amt: amt, Bipolar: bipolar}
		return synth.Command{Kind: synth.CmdSetModItem, Index: slot, Item: item}, nil
	}
	return synth.Command{}, badCommand(command, "unknown mod command %q", command[1])
}
