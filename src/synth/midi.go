package synth

import "fmt"

// ----- MIDI Event ----- //

// EventKind ...
type EventKind int

const (
	EventNoteOn EventKind = iota
	EventNoteOff
	EventControlChange
	EventPitchBend
)

const (
	ccModWheel = 1
	ccMacro1   = 20 // macros 1-4 are CC 20-23
)

// Event is a decoded channel message.
type Event struct {
	Kind       EventKind
	Channel    uint8
	Note       uint8
	Velocity   uint8
	Controller uint8
	Value      uint8
	Bend       int16 // -8192 to 8191
}

// NoteOnEvent ...
func NoteOnEvent(note uint8, velocity uint8) Event {
	return Event{Kind: EventNoteOn, Note: note, Velocity: velocity}
}

// NoteOffEvent ...
func NoteOffEvent(note uint8) Event {
	return Event{Kind: EventNoteOff, Note: note}
}

// ControlChangeEvent ...
func ControlChangeEvent(controller uint8, value uint8) Event {
	return Event{Kind: EventControlChange, Controller: controller, Value: value}
}

// PitchBendEvent ...
func PitchBendEvent(bend int16) Event {
	return Event{Kind: EventPitchBend, Bend: bend}
}

// BendAmount returns the bend scaled to [-1, 1).
func (e Event) BendAmount() float64 {
	return float64(e.Bend) / 8192
}

func (e Event) String() string {
	switch e.Kind {
	case EventNoteOn:
		return fmt.Sprintf("note-on(%d, %d)", e.Note, e.Velocity)
	case EventNoteOff:
		return fmt.Sprintf("note-off(%d)", e.Note)
	case EventControlChange:
		return fmt.Sprintf("cc(%d, %d)", e.Controller, e.Value)
	case EventPitchBend:
		return fmt.Sprintf("bend(%d)", e.Bend)
	}
	return fmt.Sprintf("event(%d)", int(e.Kind))
}

// DecodeMIDI decodes a raw channel message. Anything other than note,
// control change and pitch bend messages is ignored.
func DecodeMIDI(data []byte) (Event, bool) {
	if len(data) < 3 {
		return Event{}, false
	}
	channel := data[0] & 0x0f
	switch data[0] >> 4 {
	case 0x8:
		return Event{Kind: EventNoteOff, Channel: channel, Note: data[1], Velocity: data[2]}, true
	case 0x9:
		if data[2] == 0 {
			return Event{Kind: EventNoteOff, Channel: channel, Note: data[1]}, true
		}
		return Event{Kind: EventNoteOn, Channel: channel, Note: data[1], Velocity: data[2]}, true
	case 0xb:
		return Event{Kind: EventControlChange, Channel: channel, Controller: data[1], Value: data[2]}, true
	case 0xe:
		value := int(data[1]&0x7f) | int(data[2]&0x7f)<<7
		return Event{Kind: EventPitchBend, Channel: channel, Bend: int16(value - 8192)}, true
	}
	return Event{}, false
}
