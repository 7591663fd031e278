package filter

import (
	"math"
	"testing"
)

func TestSVFDisabledPassesThrough(t *testing.T) {
	s := NewSVF(48000)
	s.SetEnabled(false)
	var state SVFState
	out := s.ProcessSample(0.5, &state, nil)
	if out != 0.5 {
		t.Fatalf("disabled SVF output = %v, want 0.5 (pass-through)", out)
	}
	if state.Lowpass != 0 || state.Bandpass != 0 || state.Highpass != 0 {
		t.Fatal("disabled SVF must not touch state")
	}
}

func TestSVFCutoffAboveNyquistBudgetIsClamped(t *testing.T) {
	sampleRate := 48000.0
	f, _ := computeSVFCoefficients(float32(sampleRate), 0, sampleRate)
	maxF, _ := computeSVFCoefficients(float32(sampleRate*0.45), 0, sampleRate)
	if f != maxF {
		t.Fatalf("coefficient for cutoff above budget = %v, want clamped %v", f, maxF)
	}
}

func TestSVFRemainsStableForBoundedInput(t *testing.T) {
	s := NewSVF(48000)
	s.SetCutoffResonance(48000, 0.99) // pushed to the stability edge
	s.SetMode(SVFLowpass)
	var state SVFState
	for i := 0; i < 48000; i++ {
		in := float32(math.Sin(2 * math.Pi * 1000 * float64(i) / 48000))
		out := s.ProcessSample(in, &state, nil)
		if math.IsNaN(float64(out)) || math.Abs(float64(out)) > 100 {
			t.Fatalf("SVF output diverged at sample %d: %v", i, out)
		}
	}
}

func TestSVFModesDeriveFromSharedState(t *testing.T) {
	sLP := NewSVF(48000)
	sLP.SetCutoffResonance(1000, 0.2)
	sHP := NewSVF(48000)
	sHP.SetCutoffResonance(1000, 0.2)
	sHP.SetMode(SVFHighpass)

	var stateLP, stateHP SVFState
	for i := 0; i < 100; i++ {
		in := float32(math.Sin(2 * math.Pi * 200 * float64(i) / 48000))
		lp := sLP.ProcessSample(in, &stateLP, nil)
		hp := sHP.ProcessSample(in, &stateHP, nil)
		if lp == 0 && hp == 0 && i > 10 {
			t.Fatal("both LP and HP output stayed at zero unexpectedly")
		}
	}
}

func TestSVFModulationRecomputesLocallyWithoutMutatingCache(t *testing.T) {
	s := NewSVF(48000)
	s.SetCutoffResonance(500, 0.1)
	cachedF, cachedQ := s.f, s.q

	var state SVFState
	s.ProcessSample(0.1, &state, &Modulation{Cutoff: 5000, Resonance: 0.8})

	if s.f != cachedF || s.q != cachedQ {
		t.Fatal("modulated ProcessSample must not mutate cached coefficients")
	}
}
