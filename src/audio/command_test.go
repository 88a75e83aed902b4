package audio

import (
	"strings"
	"testing"

	"github.com/jinjor/wavetable-synth/src/synth"
	"github.com/pkg/errors"
)

func parse(t *testing.T, line string) synth.Command {
	t.Helper()
	cmd, err := ParseCommand(strings.Split(line, " "))
	expectNoError(t, err)
	return cmd
}

func TestParseMidiCommands(t *testing.T) {
	expectEqual(t, parse(t, "note_on 60 100"), synth.MIDICommand(synth.NoteOnEvent(60, 100)))
	expectEqual(t, parse(t, "note_off 60"), synth.MIDICommand(synth.NoteOffEvent(60)))
	expectEqual(t, parse(t, "note_on 60 0").Event.Kind, synth.EventNoteOff)
	expectEqual(t, parse(t, "cc 74 12"), synth.MIDICommand(synth.ControlChangeEvent(74, 12)))
	expectEqual(t, parse(t, "bend -8192"), synth.MIDICommand(synth.PitchBendEvent(-8192)))
	expectEqual(t, parse(t, "all_notes_off").Kind, synth.CmdAllNotesOff)
}

func TestParseEditCommands(t *testing.T) {
	cmd := parse(t, "set lp1.cutoff 0.3")
	expectEqual(t, cmd.Kind, synth.CmdSetParam)
	expectEqual(t, cmd.Dest, synth.LowPassDest(synth.LP1, synth.LowPassCutoff))
	expectEqual(t, cmd.Value, 0.3)

	cmd = parse(t, "osc 1 on")
	expectEqual(t, cmd.Kind, synth.CmdSetOscEnabled)
	expectEqual(t, cmd.Index, 1)
	expectEqual(t, cmd.Flag, true)
	expectEqual(t, parse(t, "osc 2 off").Flag, false)
	expectEqual(t, parse(t, "osc 1 target effects").Int, int(synth.TargetEffects))
	expectEqual(t, parse(t, "osc 1 offset -12").Int, -12)

	cmd = parse(t, "filter lp2 kind biquad")
	expectEqual(t, cmd.Kind, synth.CmdSetFilterKind)
	expectEqual(t, cmd.Index, synth.LP2)
	expectEqual(t, cmd.Int, int(synth.FilterBiquad))
	expectEqual(t, parse(t, "filter lp1 key_track false").Flag, false)

	expectEqual(t, parse(t, "effect kind reverb").Int, int(synth.EffectReverb))
	expectEqual(t, parse(t, "effect enabled true").Flag, true)
	cmd = parse(t, "effect reverb_decay 0.7")
	expectEqual(t, cmd.Kind, synth.CmdSetEffectParam)
	expectEqual(t, cmd.Name, "reverb_decay")
	expectEqual(t, cmd.Value, 0.7)

	cmd = parse(t, "mod set 4 lfo0 osc0.tune 0.25 bipolar")
	expectEqual(t, cmd.Kind, synth.CmdSetModItem)
	expectEqual(t, cmd.Index, 4)
	expectEqual(t, cmd.Item, synth.ModMatrixItem{
		Src: synth.LfoSrc(0), Dest: synth.OscDest(0, synth.OscTune), Amt: 0.25, Bipolar: true,
	})
	expectEqual(t, parse(t, "mod set 4 velocity volume 1").Item.Bipolar, false)
	cmd = parse(t, "mod clear 4")
	expectEqual(t, cmd.Kind, synth.CmdClearModItem)
	expectEqual(t, cmd.Index, 4)

	cmd = parse(t, "learn env0.attack")
	expectEqual(t, cmd.Kind, synth.CmdLearn)
	expectEqual(t, cmd.Dest, synth.EnvDest(0, synth.EnvAttack))
	cmd = parse(t, "macro 3 0.5")
	expectEqual(t, cmd.Kind, synth.CmdSetMacro)
	expectEqual(t, cmd.Index, 3)
	expectEqual(t, cmd.Value, 0.5)
}

func TestParseCommandErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"play 60",
		"note_on 60",
		"note_on 128 100",
		"note_on x 100",
		"cc 1",
		"bend 9000",
		"osc 1",
		"osc x on",
		"osc 1 target nowhere",
		"osc 1 wave saw",
		"filter lp3 kind ladder",
		"filter lp1 kind comb",
		"filter lp1 key_track maybe",
		"effect kind delay",
		"effect reverb_decay lots",
		"mod set 1 gate volume",
		"mod set 1 gate volume 1 both",
		"mod drop 1",
		"macro 1",
	} {
		_, err := ParseCommand(strings.Split(line, " "))
		if err == nil {
			t.Errorf("%q: expected an error", line)
		}
	}
	_, err := ParseCommand([]string{"set", "osc0.width", "1"})
	expectEqual(t, errors.Cause(err), synth.ErrInvalidDest)
	_, err = ParseCommand([]string{"mod", "set", "0", "aftertouch", "volume", "1"})
	expectEqual(t, errors.Cause(err), synth.ErrInvalidSrc)
	_, err = ParseCommand([]string{"note_on", "60"})
	expectEqual(t, errors.Cause(err), ErrBadCommand)
}

func TestParsedCommandsApply(t *testing.T) {
	engine, err := synth.NewEngine(synth.DesktopConfig())
	expectNoError(t, err)
	for _, line := range []string{
		"osc 1 on",
		"osc 1 target direct",
		"filter lp1 kind biquad",
		"effect enabled true",
		"mod set 0 mod_wheel lp1.cutoff 1",
		"set volume 0.5",
		"note_on 60 100",
		"cc 1 127",
	} {
		expectNoError(t, engine.Apply(parse(t, line)))
	}
	v := engine.Voices()[0]
	expectEqual(t, v.Oscs[1].Enabled, true)
	expectEqual(t, v.Oscs[1].Target, synth.TargetDirectOut)
	expectEqual(t, v.Filters[synth.LP1].Kind, synth.FilterBiquad)
	expectEqual(t, v.Level, 0.5)
	expectEqual(t, v.Held(), true)
	expectEqual(t, v.Data().ModWheel, 1.0)
}
