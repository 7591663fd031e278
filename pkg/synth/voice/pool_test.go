package voice

import "testing"

func TestNoteOnTakesFreeVoiceFirst(t *testing.T) {
	p := New(4)
	slot := p.NoteOn(60, 100)
	if slot < 0 || slot >= 4 {
		t.Fatalf("NoteOn returned out-of-range slot %d", slot)
	}
	st := p.State(slot)
	if !st.Active || st.MidiNote != 60 || st.Velocity != 100 {
		t.Fatalf("voice state after NoteOn = %+v, want active note 60 vel 100", st)
	}
}

func TestNoteOnRetriggersExistingActiveVoice(t *testing.T) {
	p := New(4)
	first := p.NoteOn(60, 100)
	second := p.NoteOn(60, 80)
	if first != second {
		t.Fatalf("NoteOn on same active note should retrigger the same slot, got %d then %d", first, second)
	}
	if p.State(second).Velocity != 80 {
		t.Fatal("retrigger should update velocity")
	}
}

func TestNoteOnDoesNotRetriggerReleasingVoice(t *testing.T) {
	p := New(1)
	slot := p.NoteOn(60, 100)
	p.NoteOff(60, nil)
	if !p.State(slot).Releasing {
		t.Fatal("expected voice to be releasing after NoteOff")
	}
	// Only one voice exists; a new NoteOn for the same note must steal it
	// (not silently reuse without going through allocate/steal), since the
	// voice is releasing, not idle.
	again := p.NoteOn(60, 50)
	if again != slot {
		t.Fatalf("expected steal of the sole releasing voice, got slot %d want %d", again, slot)
	}
	if p.State(again).Releasing {
		t.Fatal("stolen voice should no longer be marked releasing")
	}
}

func TestNoteOnStealsOldestReleasingBeforeOldestActive(t *testing.T) {
	p := New(2)
	a := p.NoteOn(60, 100)
	b := p.NoteOn(61, 100)
	p.NoteOff(60, nil) // a becomes releasing, is older

	stolen := p.NoteOn(62, 100)
	if stolen != a {
		t.Fatalf("expected steal of releasing voice %d, got %d (other=%d)", a, stolen, b)
	}
}

func TestNoteOnStealsOldestActiveWhenNoneReleasing(t *testing.T) {
	p := New(2)
	a := p.NoteOn(60, 100)
	p.NoteOn(61, 100)

	stolen := p.NoteOn(62, 100)
	if stolen != a {
		t.Fatalf("expected steal of oldest active voice %d, got %d", a, stolen)
	}
}

func TestNoteOffReleasesAllMatchingVoices(t *testing.T) {
	p := New(4)
	p.NoteOn(60, 100)
	released := p.NoteOff(60, nil)
	if len(released) != 1 {
		t.Fatalf("NoteOff released %d voices, want 1", len(released))
	}
	if !p.State(released[0]).Releasing {
		t.Fatal("released voice should be marked Releasing")
	}
}

func TestNoteOffOnUnknownNoteReleasesNothing(t *testing.T) {
	p := New(4)
	p.NoteOn(60, 100)
	released := p.NoteOff(99, nil)
	if len(released) != 0 {
		t.Fatalf("NoteOff on unplayed note released %d voices, want 0", len(released))
	}
}

func TestFreeMakesSlotAvailableAgain(t *testing.T) {
	p := New(1)
	slot := p.NoteOn(60, 100)
	p.NoteOff(60, nil)
	p.Free(slot)
	if p.State(slot).Active {
		t.Fatal("Free should clear Active")
	}
	next := p.NoteOn(61, 90)
	if next != slot {
		t.Fatalf("expected freed slot %d to be reused, got %d", slot, next)
	}
}

func TestResetClearsAllVoices(t *testing.T) {
	p := New(2)
	p.NoteOn(60, 100)
	p.NoteOn(61, 100)
	p.Reset()
	for i := 0; i < p.Len(); i++ {
		if p.State(i).Active {
			t.Fatalf("voice %d still active after Reset", i)
		}
	}
}
