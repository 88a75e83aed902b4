package synth

import (
	"testing"
)

func TestApplyCommands(t *testing.T) {
	e := newTestEngine(t)
	expectNoError(t, e.Apply(MIDICommand(NoteOnEvent(60, 100))))
	expectEqual(t, e.Stats().ActiveVoices, 1)

	expectNoError(t, e.Apply(Command{Kind: CmdSetParam, Dest: OscDest(0, OscTune), Value: 7}))
	tune, _ := e.Param(OscDest(0, OscTune))
	expectEqual(t, tune, 7.0)

	item := ModMatrixItem{Src: LfoSrc(0), Dest: LowPassDest(LP1, LowPassCutoff), Amt: 0.5}
	expectNoError(t, e.Apply(Command{Kind: CmdSetModItem, Index: 3, Item: item}))
	got, ok := e.ModMatrix().Get(3)
	expectEqual(t, ok, true)
	expectEqual(t, got, item)
	expectNoError(t, e.Apply(Command{Kind: CmdClearModItem, Index: 3}))
	_, ok = e.ModMatrix().Get(3)
	expectEqual(t, ok, false)

	expectNoError(t, e.Apply(Command{Kind: CmdSetOscEnabled, Index: 1, Flag: true}))
	expectNoError(t, e.Apply(Command{Kind: CmdSetOscTarget, Index: 1, Int: int(TargetDirectOut)}))
	expectNoError(t, e.Apply(Command{Kind: CmdSetOscOffset, Index: 1, Int: 7}))
	expectNoError(t, e.Apply(Command{Kind: CmdSetFilterKind, Index: LP1, Int: int(FilterBiquad)}))
	expectNoError(t, e.Apply(Command{Kind: CmdSetFilterKeyTrack, Index: LP1, Flag: false}))
	expectNoError(t, e.Apply(Command{Kind: CmdSetEffectKind, Int: int(EffectReverb)}))
	expectNoError(t, e.Apply(Command{Kind: CmdSetEffectEnabled, Flag: true}))
	expectNoError(t, e.Apply(Command{Kind: CmdSetEffectParam, Name: "reverb_decay", Value: 0.9}))
	expectNoError(t, e.Apply(Command{Kind: CmdSetMacro, Index: 2, Value: 0.5}))
	v := e.Voices()[2]
	expectEqual(t, v.Oscs[1].Enabled, true)
	expectEqual(t, v.Oscs[1].Target, TargetDirectOut)
	expectEqual(t, v.Oscs[1].Offset, 7)
	expectEqual(t, v.Filters[LP1].Kind, FilterBiquad)
	expectEqual(t, v.Filters[LP1].KeyTrack, false)
	expectEqual(t, v.Effect.Kind, EffectReverb)
	expectEqual(t, v.Effect.Enabled, true)
	expectEqual(t, v.Effect.Reverb.Decay(), 0.9)
	expectEqual(t, v.Data().Macro[1], 0.5)

	expectNoError(t, e.Apply(Command{Kind: CmdLearn, Dest: SynthVolumeDest()}))
	expectNoError(t, e.Apply(MIDICommand(ControlChangeEvent(7, 0))))
	volume, _ := e.Param(SynthVolumeDest())
	expectEqual(t, volume, 0.0)

	expectNoError(t, e.Apply(Command{Kind: CmdAllNotesOff}))
	expectEqual(t, e.Voices()[0].Held(), false)
}

func TestApplyCommandErrors(t *testing.T) {
	e := newTestEngine(t)
	expectErrorCause(t, e.Apply(Command{Kind: CmdSetParam, Dest: ModAmtDest(1), Value: 1}), ErrReservedDest)
	expectErrorCause(t, e.Apply(Command{Kind: CmdSetModItem, Index: -1}), ErrSlotRange)
	expectErrorCause(t, e.Apply(Command{Kind: CmdLearn, Dest: LfoDest(9, LfoSpeed)}), ErrInvalidDest)
	if err := e.Apply(Command{Kind: CommandKind(-1)}); err == nil {
		t.Error("expected an error")
	}
}
