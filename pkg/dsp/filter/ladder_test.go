package filter

import (
	"math"
	"testing"
)

func TestLadderDisabledPassesThrough(t *testing.T) {
	l := NewLadder(48000)
	l.SetEnabled(false)
	var state LadderState
	if out := l.ProcessSample(0.7, &state, nil); out != 0.7 {
		t.Fatalf("disabled ladder output = %v, want 0.7", out)
	}
}

func TestLadderLinearVsNonlinearDrive(t *testing.T) {
	l := NewLadder(48000)
	l.SetCutoffResonance(2000, 0.5)
	l.SetDrive(1.0)
	var stateLinear LadderState
	var outLinear float32
	for i := 0; i < 200; i++ {
		outLinear = l.ProcessSample(0.9, &stateLinear, nil)
	}

	l.SetDrive(5.0)
	var stateNonlinear LadderState
	var outNonlinear float32
	for i := 0; i < 200; i++ {
		outNonlinear = l.ProcessSample(0.9, &stateNonlinear, nil)
	}

	if math.Abs(float64(outLinear-outNonlinear)) < 1e-6 {
		t.Fatal("linear and heavily-driven nonlinear ladder outputs should differ")
	}
}

func TestLadderRemainsStableForBoundedInput(t *testing.T) {
	l := NewLadder(48000)
	l.SetCutoffResonance(8000, 1.0) // max resonance
	l.SetDrive(3.0)
	var state LadderState
	for i := 0; i < 48000; i++ {
		in := float32(math.Sin(2 * math.Pi * 500 * float64(i) / 48000))
		out := l.ProcessSample(in, &state, nil)
		if math.IsNaN(float64(out)) || math.Abs(float64(out)) > 10 {
			t.Fatalf("ladder output diverged at sample %d: %v", i, out)
		}
	}
}

func TestLadderModulationDoesNotMutateCache(t *testing.T) {
	l := NewLadder(48000)
	l.SetCutoffResonance(1000, 0.3)
	cachedCoeff, cachedRes := l.coeff, l.resAmount

	var state LadderState
	l.ProcessSample(0.2, &state, &Modulation{Cutoff: 9000, Resonance: 0.9})

	if l.coeff != cachedCoeff || l.resAmount != cachedRes {
		t.Fatal("modulated ProcessSample must not mutate cached coefficients")
	}
}
