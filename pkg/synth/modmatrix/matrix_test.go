package modmatrix

import "testing"

func TestAddRouteFailsAtCapacity(t *testing.T) {
	m := New(1)
	for i := 0; i < MaxRoutes; i++ {
		if !m.AddRoute(LFO1, FilterCutoff, 0.1) {
			t.Fatalf("AddRoute failed early at %d", i)
		}
	}
	if m.AddRoute(LFO1, FilterCutoff, 0.1) {
		t.Fatal("AddRoute should fail once at capacity")
	}
}

func TestRemoveRouteSwapWithLast(t *testing.T) {
	m := New(1)
	m.AddRoute(LFO1, FilterCutoff, 1)
	m.AddRoute(LFO2, AmpLevel, 2)
	m.AddRoute(Env1, Osc1Pitch, 3)

	if !m.RemoveRoute(0) {
		t.Fatal("RemoveRoute(0) failed")
	}
	if m.RouteCount() != 2 {
		t.Fatalf("RouteCount() = %d, want 2", m.RouteCount())
	}
	// The last route should now occupy slot 0 (swap-with-last).
	if m.routes[0].Dest != Osc1Pitch {
		t.Fatalf("expected swap-with-last, got dest %v at index 0", m.routes[0].Dest)
	}
}

func TestRemoveRouteOutOfRangeFails(t *testing.T) {
	m := New(1)
	if m.RemoveRoute(0) {
		t.Fatal("RemoveRoute on empty matrix should fail")
	}
}

func TestClearRoutes(t *testing.T) {
	m := New(1)
	m.AddRoute(LFO1, FilterCutoff, 1)
	m.AddRoute(LFO2, AmpLevel, 2)
	m.ClearRoutes()
	if m.RouteCount() != 0 {
		t.Fatalf("RouteCount() after clear = %d, want 0", m.RouteCount())
	}
}

func TestUpdateBlockSumsMatchingRoutesOnly(t *testing.T) {
	m := New(1)
	m.AddRoute(LFO1, FilterCutoff, 0.5)
	m.AddRoute(Env1, FilterCutoff, 0.5)
	m.AddRoute(LFO2, AmpLevel, 1.0) // different destination

	var sv SourceValues
	sv[LFO1] = 1.0
	sv[Env1] = 1.0
	sv[LFO2] = 0.3

	m.UpdateBlock(0, sv, 64)

	// The ramp starts at the previous block's value (0) and reaches the new
	// sum at frame blockFrames.
	got := m.Value(0, FilterCutoff, 64)
	want := float32(0.5*1.0 + 0.5*1.0)
	if got != want {
		t.Fatalf("Value(FilterCutoff, 64) = %v, want %v", got, want)
	}

	gotAmp := m.Value(0, AmpLevel, 64)
	if gotAmp != 0.3 {
		t.Fatalf("Value(AmpLevel, 64) = %v, want 0.3", gotAmp)
	}
}

func TestValueInterpolatesAcrossBlock(t *testing.T) {
	m := New(1)
	m.AddRoute(ModWheel, FilterResonance, 1.0)

	var sv1 SourceValues
	sv1[ModWheel] = 0.0
	m.UpdateBlock(0, sv1, 4)
	if v := m.Value(0, FilterResonance, 0); v != 0 {
		t.Fatalf("initial value = %v, want 0", v)
	}

	var sv2 SourceValues
	sv2[ModWheel] = 1.0
	m.UpdateBlock(0, sv2, 4)

	got0 := m.Value(0, FilterResonance, 0)
	got4 := m.Value(0, FilterResonance, 4)
	if got0 != 0 {
		t.Fatalf("Value(dest, 0) = %v, want 0 (ramp starts at previous)", got0)
	}
	if got4 <= got0 {
		t.Fatalf("Value(dest, 4) = %v, should exceed Value(dest, 0) = %v", got4, got0)
	}
}

func TestUnroutedDestinationStaysZero(t *testing.T) {
	m := New(1)
	m.AddRoute(LFO1, FilterCutoff, 1)
	var sv SourceValues
	sv[LFO1] = 1
	m.UpdateBlock(0, sv, 32)
	if v := m.Value(0, Osc1FM, 16); v != 0 {
		t.Fatalf("Value(Osc1FM, 16) = %v, want 0", v)
	}
}

func TestResetClearsRamps(t *testing.T) {
	m := New(1)
	m.AddRoute(LFO1, FilterCutoff, 1)
	var sv SourceValues
	sv[LFO1] = 1
	m.UpdateBlock(0, sv, 8)
	m.Reset()
	if v := m.Value(0, FilterCutoff, 0); v != 0 {
		t.Fatalf("Value after Reset = %v, want 0", v)
	}
}

func TestUpdateBlockIsIndependentPerVoice(t *testing.T) {
	m := New(2)
	m.AddRoute(Velocity, FilterCutoff, 1.0)

	var svLow, svHigh SourceValues
	svLow[Velocity] = 0.2
	svHigh[Velocity] = 0.9

	// Prime voice 0 with a low target over several blocks so its ramp
	// settles, then update voice 1 with a different target. Voice 0's
	// ramp must be untouched by voice 1's UpdateBlock call.
	m.UpdateBlock(0, svLow, 4)
	m.UpdateBlock(0, svLow, 4)
	voice0Before := m.Value(0, FilterCutoff, 0)

	m.UpdateBlock(1, svHigh, 4)

	voice0After := m.Value(0, FilterCutoff, 0)
	if voice0After != voice0Before {
		t.Fatalf("voice 0 ramp changed after voice 1 UpdateBlock: before=%v after=%v", voice0Before, voice0After)
	}

	voice1 := m.Value(1, FilterCutoff, 0)
	if voice1 != 0 {
		t.Fatalf("voice 1 first-block Value(0) = %v, want 0 (ramp starts at its own previous)", voice1)
	}
	voice1End := m.Value(1, FilterCutoff, 4)
	if voice1End <= voice0After {
		t.Fatalf("voice 1 ramp end = %v, want it to reach toward its own higher target above voice 0's %v", voice1End, voice0After)
	}
}

func TestResetVoiceOnlyClearsThatVoice(t *testing.T) {
	m := New(2)
	m.AddRoute(LFO1, FilterCutoff, 1)
	var sv SourceValues
	sv[LFO1] = 1
	m.UpdateBlock(0, sv, 8)
	m.UpdateBlock(1, sv, 8)

	m.ResetVoice(0)

	if v := m.Value(0, FilterCutoff, 8); v != 0 {
		t.Fatalf("voice 0 Value after ResetVoice = %v, want 0", v)
	}
	if v := m.Value(1, FilterCutoff, 8); v == 0 {
		t.Fatalf("voice 1 Value after voice 0's ResetVoice = %v, want unaffected nonzero ramp", v)
	}
}
