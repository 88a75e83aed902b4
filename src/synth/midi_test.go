package synth

import (
	"testing"

	"gitlab.com/gomidi/midi/midimessage/channel"
)

func TestDecodeMIDI(t *testing.T) {
	ev, ok := DecodeMIDI(channel.Channel0.NoteOn(60, 100).Raw())
	expectEqual(t, ok, true)
	expectEqual(t, ev, NoteOnEvent(60, 100))

	ev, ok = DecodeMIDI(channel.Channel3.NoteOn(61, 0).Raw())
	expectEqual(t, ok, true)
	expectEqual(t, ev.Kind, EventNoteOff)
	expectEqual(t, ev.Note, uint8(61))
	expectEqual(t, ev.Channel, uint8(3))

	ev, ok = DecodeMIDI(channel.Channel0.NoteOff(62).Raw())
	expectEqual(t, ok, true)
	expectEqual(t, ev, NoteOffEvent(62))

	ev, ok = DecodeMIDI(channel.Channel0.ControlChange(74, 127).Raw())
	expectEqual(t, ok, true)
	expectEqual(t, ev, ControlChangeEvent(74, 127))

	for _, bend := range []int16{-8191, -1, 0, 1, 8191} {
		ev, ok = DecodeMIDI(channel.Channel0.Pitchbend(bend).Raw())
		expectEqual(t, ok, true)
		expectEqual(t, ev, PitchBendEvent(bend))
	}
}

func TestDecodeMIDIIgnoresOtherMessages(t *testing.T) {
	_, ok := DecodeMIDI(channel.Channel0.ProgramChange(3).Raw())
	expectEqual(t, ok, false)
	_, ok = DecodeMIDI([]byte{0xa0, 60, 10}) // polyphonic aftertouch
	expectEqual(t, ok, false)
	_, ok = DecodeMIDI([]byte{0x90, 60})
	expectEqual(t, ok, false)
	_, ok = DecodeMIDI(nil)
	expectEqual(t, ok, false)
}

func TestBendAmount(t *testing.T) {
	expectEqual(t, PitchBendEvent(-8192).BendAmount(), -1.0)
	expectEqual(t, PitchBendEvent(0).BendAmount(), 0.0)
	expectNearlyEqual(t, PitchBendEvent(8191).BendAmount(), 1)
	expectEqual(t, PitchBendEvent(4096).String(), "bend(4096)")
}

func TestDecodeRawPitchBend(t *testing.T) {
	ev, ok := DecodeMIDI([]byte{0xe2, 0x00, 0x00})
	expectEqual(t, ok, true)
	expectEqual(t, ev.Bend, int16(-8192))
	expectEqual(t, ev.Channel, uint8(2))
	ev, _ = DecodeMIDI([]byte{0xe0, 0x7f, 0x7f})
	expectEqual(t, ev.Bend, int16(8191))
}
