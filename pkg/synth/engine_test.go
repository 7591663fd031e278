package synth

import (
	"math"
	"testing"

	"github.com/nverant/wavecore/pkg/dsp/oscillator"
	"github.com/nverant/wavecore/pkg/dsp/wavetable"
	"github.com/nverant/wavecore/pkg/midi"
)

func testEngineWithSineOsc1(t *testing.T) *Engine {
	t.Helper()
	e := New(48000, 8, 512)
	bank, err := wavetable.Create(1, "sine", wavetable.Sine)
	if err != nil {
		t.Fatalf("wavetable.Create failed: %v", err)
	}
	SetWavetableBank(e, oscSlot1, bank)
	e.SetOscillatorConfig(oscSlot1, oscillator.WavetableConfig{
		Bank:     bank,
		MixLevel: 1.0,
		Enabled:  true,
	})
	e.SetADSR(0, 0, 1.0, 0) // instant attack, full sustain, no decay/release
	return e
}

func TestProcessAudioBlockSilentWithNoVoices(t *testing.T) {
	e := New(48000, 8, 256)
	out := make([]float32, 2*128)
	noteQ := midi.NewNoteQueue()
	paramQ := midi.NewParamQueue()
	bindings := NewBindings()

	e.ProcessAudioBlock(out, 2, 128, noteQ, paramQ, bindings)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("out[%d] = %v, want 0 with no active voices", i, s)
		}
	}
}

func TestProcessAudioBlockProducesToneOnNoteOn(t *testing.T) {
	e := testEngineWithSineOsc1(t)
	noteQ := midi.NewNoteQueue()
	paramQ := midi.NewParamQueue()
	bindings := NewBindings()

	noteQ.Push(midi.NoteEvent{Type: midi.NoteOn, MidiNote: 69, Velocity: 100})

	const frames = 512
	out := make([]float32, frames)
	e.ProcessAudioBlock(out, 1, frames, noteQ, paramQ, bindings)

	var peak float32
	for _, s := range out {
		if s > peak {
			peak = s
		}
		if s < -peak {
			peak = -s
		}
	}
	if peak < 0.1 {
		t.Fatalf("peak output = %v, want an audible tone", peak)
	}
}

func TestProcessAudioBlockBroadcastsMonoToAllChannels(t *testing.T) {
	e := testEngineWithSineOsc1(t)
	noteQ := midi.NewNoteQueue()
	paramQ := midi.NewParamQueue()
	bindings := NewBindings()
	noteQ.Push(midi.NoteEvent{Type: midi.NoteOn, MidiNote: 60, Velocity: 100})

	const frames = 64
	const channels = 2
	out := make([]float32, channels*frames)
	e.ProcessAudioBlock(out, channels, frames, noteQ, paramQ, bindings)

	for i := 0; i < frames; i++ {
		l := out[0*frames+i]
		r := out[1*frames+i]
		if l != r {
			t.Fatalf("frame %d: left=%v right=%v, want identical mono broadcast", i, l, r)
		}
	}
}

func TestNoteOffReleasesVoiceEventually(t *testing.T) {
	e := testEngineWithSineOsc1(t)
	e.SetADSR(0, 0, 1.0, 5) // short release so the test completes quickly
	noteQ := midi.NewNoteQueue()
	paramQ := midi.NewParamQueue()
	bindings := NewBindings()

	noteQ.Push(midi.NoteEvent{Type: midi.NoteOn, MidiNote: 60, Velocity: 100})
	out := make([]float32, 32)
	e.ProcessAudioBlock(out, 1, 32, noteQ, paramQ, bindings)

	if !e.pool.State(0).Active {
		t.Fatal("voice should be active after note-on")
	}

	noteQ.Push(midi.NoteEvent{Type: midi.NoteOff, MidiNote: 60})
	// A release of 5ms at 48kHz is 240 samples; drive enough blocks to
	// exhaust it.
	for i := 0; i < 20; i++ {
		e.ProcessAudioBlock(out, 1, 32, noteQ, paramQ, bindings)
	}

	if e.pool.State(0).Active {
		t.Fatal("voice should have been freed once its envelope reached Idle")
	}
}

func TestParamEventUpdatesMasterGain(t *testing.T) {
	e := testEngineWithSineOsc1(t)
	noteQ := midi.NewNoteQueue()
	paramQ := midi.NewParamQueue()
	bindings := NewBindings()

	noteQ.Push(midi.NoteEvent{Type: midi.NoteOn, MidiNote: 69, Velocity: 100})
	paramQ.Push(midi.ParamEvent{ID: ParamMasterGain, Value: 0}) // denormalizes to 0

	out := make([]float32, 256)
	e.ProcessAudioBlock(out, 1, 256, noteQ, paramQ, bindings)

	for i, s := range out {
		if s != 0 {
			t.Fatalf("out[%d] = %v, want 0 with master gain forced to 0", i, s)
		}
	}
}

func TestFMOffsetFromSampleClampsToInt32Range(t *testing.T) {
	off := fmOffsetFromSample(1.0, 100.0) // wildly oversized depth
	if off != math.MaxInt32 {
		t.Fatalf("fmOffsetFromSample overflow = %v, want clamped to MaxInt32", off)
	}
	off = fmOffsetFromSample(-1.0, 100.0)
	if off != math.MinInt32 {
		t.Fatalf("fmOffsetFromSample underflow = %v, want clamped to MinInt32", off)
	}
}
