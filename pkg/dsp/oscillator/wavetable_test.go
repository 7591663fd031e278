package oscillator

import (
	"math"
	"testing"

	"github.com/nverant/wavecore/pkg/dsp/fixedpoint"
	"github.com/nverant/wavecore/pkg/dsp/wavetable"
)

func TestWavetableOscillatorDisabledReturnsZeroAndDoesNotAdvance(t *testing.T) {
	bank, _ := wavetable.Create(1, "sine", wavetable.Sine)
	osc := NewWavetableOscillator(1)
	osc.SetConfig(WavetableConfig{Bank: bank, MixLevel: 1, Enabled: false})

	for i := 0; i < 10; i++ {
		if s := osc.Read(0, 10, 0); s != 0 {
			t.Fatalf("disabled oscillator returned %v, want 0", s)
		}
	}
	if osc.phase[0] != 0 {
		t.Fatalf("disabled oscillator advanced phase to %v, want 0", osc.phase[0])
	}
}

func TestWavetableOscillatorPureTone(t *testing.T) {
	bank, err := wavetable.Create(1, "sine", wavetable.Sine)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	osc := NewWavetableOscillator(1)
	osc.SetConfig(WavetableConfig{Bank: bank, MixLevel: 0.5, Enabled: true, ScanPosition: 0})

	const sampleRate = 48000.0
	freq := NoteFrequency(69, 0, 0, 440.0)
	if math.Abs(freq-440) > 1e-6 {
		t.Fatalf("NoteFrequency(69) = %v, want 440", freq)
	}
	inc := TablePositionsPerSample(freq, sampleRate)

	maxErr := 0.0
	for i := 0; i < 4800; i++ {
		got := osc.Read(0, inc, 0)
		want := 0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
		if d := math.Abs(float64(got) - want); d > maxErr {
			maxErr = d
		}
	}
	if maxErr > 0.02 {
		t.Fatalf("max error against reference sine = %v, want <= 0.02", maxErr)
	}
}

func TestWavetableOscillatorFMOffsetDoesNotAffectAdvance(t *testing.T) {
	bank, _ := wavetable.Create(1, "saw", wavetable.Saw)
	osc := NewWavetableOscillator(1)
	osc.SetConfig(WavetableConfig{Bank: bank, MixLevel: 1, Enabled: true})

	before := osc.phase[0]
	osc.Read(0, 10, 1<<20)
	after := osc.phase[0]
	// The advance amount must equal the fixed-point increment for
	// tablePositionsPerSample=10 regardless of the FM offset used to read.
	if want := fixedpoint.ToPhaseInc(10); after-before != want {
		t.Fatalf("phase advanced by %v, want %v", after-before, want)
	}
}

func TestNoteFrequencyOctaveAndDetune(t *testing.T) {
	base := NoteFrequency(69, 0, 0, 440)
	up := NoteFrequency(69, 1, 0, 440)
	// octaveOffset is added to the semitone count, so +1 raises by one semitone.
	if want := base * math.Pow(2, 1.0/12); math.Abs(up-want) > 1e-6 {
		t.Fatalf("octaveOffset=1 frequency = %v, want %v", up, want)
	}
}
