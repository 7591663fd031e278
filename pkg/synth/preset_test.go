package synth

import (
	"bytes"
	"testing"

	"github.com/nverant/wavecore/pkg/midi"
)

func TestPresetManagerRoundTripsTrackedValues(t *testing.T) {
	bindings := NewBindings()
	pm := NewPresetManager(bindings)

	pm.Track(midi.ParamEvent{ID: ParamMasterGain, Value: 0.75})
	pm.Track(midi.ParamEvent{ID: ParamFilterCutoff, Value: 0.4})

	var buf bytes.Buffer
	if err := pm.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := NewPresetManager(bindings)
	events, err := loaded.Load(&buf)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	values := make(map[midi.ParamID]float32, len(events))
	for _, ev := range events {
		values[ev.ID] = ev.Value
	}

	if got := values[ParamMasterGain]; got != 0.75 {
		t.Fatalf("ParamMasterGain = %v, want 0.75", got)
	}
	if got := values[ParamFilterCutoff]; got != 0.4 {
		t.Fatalf("ParamFilterCutoff = %v, want 0.4", got)
	}
}

func TestPresetManagerLoadRejectsBadHeader(t *testing.T) {
	bindings := NewBindings()
	pm := NewPresetManager(bindings)

	_, err := pm.Load(bytes.NewReader([]byte("not a preset file")))
	if err == nil {
		t.Fatal("expected an error loading a malformed preset")
	}
}

func TestPresetManagerAppliesLoadedEventsThroughBindings(t *testing.T) {
	bindings := NewBindings()
	pm := NewPresetManager(bindings)
	pm.Track(midi.ParamEvent{ID: ParamMasterGain, Value: 0.5})

	var buf bytes.Buffer
	if err := pm.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	engine := New(48000, 8, 512)
	events, err := pm.Load(&buf)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, ev := range events {
		bindings.Apply(engine, ev)
	}

	want := float32(0 + 0.5*(2-0))
	if engine.masterGain != want {
		t.Fatalf("masterGain = %v, want %v", engine.masterGain, want)
	}
}
