package envelope

import "testing"

func TestADSRZeroDurationFirstSampleIsSustain(t *testing.T) {
	e := New(48000)
	e.SetADSR(0, 0, 0.6, 0)
	e.Trigger()
	got := e.Next()
	if got != 0.6 {
		t.Fatalf("first sample with all-zero durations = %v, want sustain 0.6", got)
	}
}

func TestADSRZeroReleaseGoesIdleWithinOneSample(t *testing.T) {
	e := New(48000)
	e.SetADSR(0, 0, 0.6, 0)
	e.Trigger()
	e.Next()
	e.Release()
	got := e.Next()
	if got != 0 {
		t.Fatalf("first sample after noteOff with zero release = %v, want 0", got)
	}
	if e.GetStage() != StageIdle {
		t.Fatalf("stage after zero-length release = %v, want Idle", e.GetStage())
	}
}

func TestADSRAttackRampsLinearly(t *testing.T) {
	e := New(48000)
	e.SetADSR(10, 100, 0.5, 100) // 10ms attack = 480 samples at 48kHz
	e.Trigger()
	first := e.Next()
	if first <= 0 || first >= 1 {
		t.Fatalf("first attack sample = %v, want in (0,1)", first)
	}
	var last float32
	for i := 0; i < 479; i++ {
		last = e.Next()
	}
	if last < 0.99 {
		t.Fatalf("attack sample at boundary = %v, want ~1.0", last)
	}
	if e.GetStage() != StageDecay {
		t.Fatalf("stage after attack completes = %v, want Decay", e.GetStage())
	}
}

func TestADSRDecayReachesSustain(t *testing.T) {
	e := New(48000)
	e.SetADSR(0, 10, 0.3, 100) // 10ms decay = 480 samples
	e.Trigger()
	e.Next() // cascades attack(0) -> decay first sample
	var last float32
	for i := 0; i < 480; i++ {
		last = e.Next()
	}
	if last != 0.3 {
		t.Fatalf("value after decay completes = %v, want sustain 0.3", last)
	}
	if e.GetStage() != StageSustain {
		t.Fatalf("stage after decay completes = %v, want Sustain", e.GetStage())
	}
}

func TestADSRReleaseFallsFromSnapshot(t *testing.T) {
	e := New(48000)
	e.SetADSR(0, 0, 0.8, 10) // release 10ms = 480 samples
	e.Trigger()
	e.Next() // settles at sustain 0.8
	e.Release()
	first := e.Next()
	if first <= 0 || first >= 0.8 {
		t.Fatalf("first release sample = %v, want strictly between 0 and 0.8", first)
	}
	var last float32
	for i := 0; i < 479; i++ {
		last = e.Next()
	}
	if last != 0 {
		t.Fatalf("value after release completes = %v, want 0", last)
	}
	if e.GetStage() != StageIdle {
		t.Fatalf("stage after release completes = %v, want Idle", e.GetStage())
	}
}

func TestADSRRetriggerRestartsAttack(t *testing.T) {
	e := New(48000)
	e.SetADSR(10, 10, 0.5, 500)
	e.Trigger()
	for i := 0; i < 960; i++ {
		e.Next()
	}
	if e.GetStage() != StageSustain {
		t.Fatalf("expected Sustain before retrigger, got %v", e.GetStage())
	}
	e.Release()
	e.Next()
	if e.GetStage() != StageRelease {
		t.Fatalf("expected Release before retrigger, got %v", e.GetStage())
	}
	e.Trigger()
	if e.GetStage() != StageAttack {
		t.Fatalf("stage after retrigger = %v, want Attack", e.GetStage())
	}
}

func TestADSRSettersClampInsteadOfRejecting(t *testing.T) {
	e := New(48000)
	e.SetAttack(-5)
	e.SetSustain(2)
	if e.attackMs != 0 {
		t.Fatalf("negative attack should clamp to 0, got %v", e.attackMs)
	}
	if e.sustain != 1 {
		t.Fatalf("sustain > 1 should clamp to 1, got %v", e.sustain)
	}
}

func TestADSRIsActiveAndReset(t *testing.T) {
	e := New(48000)
	if e.IsActive() {
		t.Fatal("fresh envelope should not be active")
	}
	e.Trigger()
	if !e.IsActive() {
		t.Fatal("triggered envelope should be active")
	}
	e.Reset()
	if e.IsActive() {
		t.Fatal("reset envelope should not be active")
	}
}
