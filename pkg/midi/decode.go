package midi

// Decode interprets one raw MIDI message (status byte plus up to two data
// bytes) and returns the corresponding Event. ok is false for real-time
// status bytes (0xF8..0xFF), which are skipped by default, and for
// unrecognized status nibbles.
//
// Running-status convention: a NoteOn with velocity 0 decodes as a
// NoteOffEvent, matching how most MIDI controllers signal note release.
func Decode(status, d1, d2 byte) (event Event, ok bool) {
	if status >= 0xF8 {
		return nil, false
	}

	channel := status & 0x0F
	base := BaseEvent{EventChannel: channel}

	switch status & 0xF0 {
	case 0x80:
		return NoteOffEvent{BaseEvent: base, NoteNumber: d1, Velocity: d2}, true
	case 0x90:
		if d2 == 0 {
			return NoteOffEvent{BaseEvent: base, NoteNumber: d1, Velocity: 0}, true
		}
		return NoteOnEvent{BaseEvent: base, NoteNumber: d1, Velocity: d2}, true
	case 0xA0:
		return PolyPressureEvent{BaseEvent: base, NoteNumber: d1, Pressure: d2}, true
	case 0xB0:
		return ControlChangeEvent{BaseEvent: base, Controller: d1, Value: d2}, true
	case 0xC0:
		return ProgramChangeEvent{BaseEvent: base, Program: d1}, true
	case 0xD0:
		return ChannelPressureEvent{BaseEvent: base, Pressure: d1}, true
	case 0xE0:
		raw := int16(uint16(d1) | uint16(d2)<<7)
		return PitchBendEvent{BaseEvent: base, Value: raw - 8192}, true
	default:
		return nil, false
	}
}

// ToNoteEvent narrows a decoded Event down to the NoteEvent shape the SPSC
// queue carries, discarding everything the core doesn't consume (control
// changes, pitch bend, aftertouch, program change). ok is false for any
// event type other than note-on/note-off.
func ToNoteEvent(event Event) (ne NoteEvent, ok bool) {
	switch e := event.(type) {
	case NoteOnEvent:
		return NoteEvent{Type: NoteOn, MidiNote: e.NoteNumber, Velocity: e.Velocity}, true
	case NoteOffEvent:
		return NoteEvent{Type: NoteOff, MidiNote: e.NoteNumber, Velocity: e.Velocity}, true
	default:
		return NoteEvent{}, false
	}
}
