package synth

import (
	"testing"

	"github.com/nverant/wavecore/pkg/midi"
)

func TestBindingDenormalizesIntoRange(t *testing.T) {
	e := New(48000, 4, 128)
	b := NewBindings()

	b.Apply(e, midi.ParamEvent{ID: ParamFilterCutoff, Value: 0.5})
	// min=20, max=20000: 0.5 -> 20 + 0.5*19980 = 10010
	want := float32(20 + 0.5*19980)
	if e.filterCutoff != want {
		t.Fatalf("filterCutoff = %v, want %v", e.filterCutoff, want)
	}
}

func TestBindingUnknownIDIsIgnored(t *testing.T) {
	e := New(48000, 4, 128)
	b := NewBindings()
	before := e.masterGain

	b.Apply(e, midi.ParamEvent{ID: midi.ParamID(9999), Value: 1})

	if e.masterGain != before {
		t.Fatal("Apply with an unknown id should not modify engine state")
	}
}

func TestFilterTypeBindingSwitchesTopology(t *testing.T) {
	e := New(48000, 4, 128)
	b := NewBindings()

	b.Apply(e, midi.ParamEvent{ID: ParamFilterType, Value: 1})
	if e.filterType != FilterLadder {
		t.Fatalf("filterType = %v, want FilterLadder", e.filterType)
	}

	b.Apply(e, midi.ParamEvent{ID: ParamFilterType, Value: 0})
	if e.filterType != FilterSVF {
		t.Fatalf("filterType = %v, want FilterSVF", e.filterType)
	}
}

func TestOscillatorEnabledBindingRoundTrips(t *testing.T) {
	e := New(48000, 4, 128)
	b := NewBindings()

	b.Apply(e, midi.ParamEvent{ID: ParamOsc2Enabled, Value: 1})
	if !e.osc[oscSlot2].Config().Enabled {
		t.Fatal("osc2 should be enabled after binding apply")
	}

	b.Apply(e, midi.ParamEvent{ID: ParamOsc2Enabled, Value: 0})
	if e.osc[oscSlot2].Config().Enabled {
		t.Fatal("osc2 should be disabled after binding apply")
	}
}

func TestSubOscillatorHasNoScanBinding(t *testing.T) {
	b := NewBindings()
	if _, ok := b.table[noScanBinding]; ok {
		t.Fatal("noScanBinding sentinel should never be a real table entry")
	}
}

func TestAttackBindingAppliesToEveryVoiceEnvelope(t *testing.T) {
	e := New(48000, 4, 128)
	b := NewBindings()
	b.Apply(e, midi.ParamEvent{ID: ParamAttack, Value: 1}) // denormalizes to 5000ms

	for i := range e.envelopes {
		e.envelopes[i].Trigger()
		v := e.envelopes[i].Next()
		if v <= 0 || v >= 1 {
			t.Fatalf("voice %d: attack sample = %v, want a slow ramp strictly between 0 and 1", i, v)
		}
	}
}
