package midi

import "testing"

func TestDecodeNoteOn(t *testing.T) {
	ev, ok := Decode(0x90, 60, 100)
	if !ok {
		t.Fatal("Decode(0x90,...) returned ok=false")
	}
	on, isOn := ev.(NoteOnEvent)
	if !isOn || on.NoteNumber != 60 || on.Velocity != 100 {
		t.Fatalf("Decode(0x90,60,100) = %#v, want NoteOnEvent{60,100}", ev)
	}
}

func TestDecodeNoteOnZeroVelocityIsNoteOff(t *testing.T) {
	ev, ok := Decode(0x91, 64, 0)
	if !ok {
		t.Fatal("Decode returned ok=false")
	}
	off, isOff := ev.(NoteOffEvent)
	if !isOff || off.NoteNumber != 64 {
		t.Fatalf("Decode(0x91,64,0) = %#v, want NoteOffEvent{64}", ev)
	}
	if off.Channel() != 1 {
		t.Fatalf("channel = %d, want 1", off.Channel())
	}
}

func TestDecodeNoteOff(t *testing.T) {
	ev, ok := Decode(0x80, 60, 64)
	if !ok {
		t.Fatal("Decode returned ok=false")
	}
	if _, isOff := ev.(NoteOffEvent); !isOff {
		t.Fatalf("Decode(0x80,...) = %#v, want NoteOffEvent", ev)
	}
}

func TestDecodePitchBendCentered(t *testing.T) {
	ev, ok := Decode(0xE0, 0, 0x40) // 0x40<<7 | 0 = 8192, centered -> 0
	if !ok {
		t.Fatal("Decode returned ok=false")
	}
	pb, isPB := ev.(PitchBendEvent)
	if !isPB || pb.Value != 0 {
		t.Fatalf("Decode(0xE0,0,0x40) = %#v, want centered PitchBendEvent{0}", ev)
	}
}

func TestDecodeRealtimeMessagesSkipped(t *testing.T) {
	for status := byte(0xF8); status != 0x00; status++ {
		if _, ok := Decode(status, 0, 0); ok {
			t.Fatalf("Decode(0x%02X,...) should be skipped", status)
		}
	}
}

func TestDecodeControlChange(t *testing.T) {
	ev, ok := Decode(0xB0, CCSustain, 127)
	if !ok {
		t.Fatal("Decode returned ok=false")
	}
	cc, isCC := ev.(ControlChangeEvent)
	if !isCC || cc.Controller != CCSustain || cc.Value != 127 {
		t.Fatalf("Decode(0xB0,...) = %#v, want ControlChangeEvent", ev)
	}
}

func TestToNoteEventNarrowsOnlyNoteEvents(t *testing.T) {
	on, _ := Decode(0x90, 60, 100)
	if _, ok := ToNoteEvent(on); !ok {
		t.Fatal("ToNoteEvent should accept a NoteOnEvent")
	}
	cc, _ := Decode(0xB0, 1, 1)
	if _, ok := ToNoteEvent(cc); ok {
		t.Fatal("ToNoteEvent should reject a ControlChangeEvent")
	}
}
