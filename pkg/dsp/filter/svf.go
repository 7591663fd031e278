// Package filter provides the state-variable and ladder filters driving the
// synth voice signal path.
package filter

import "math"

// SVFMode selects which coupled-integrator output an SVF instance exposes.
type SVFMode int

const (
	SVFLowpass SVFMode = iota
	SVFHighpass
	SVFBandpass
	SVFNotch
)

// SVFState holds the three coupled-integrator values for one voice. The
// zero value is the correct initial state.
type SVFState struct {
	Lowpass, Bandpass, Highpass float32
}

// SVF is a Chamberlin-topology state-variable filter. Coefficients are
// cached and shared across every voice; each voice supplies its own
// SVFState. This mirrors the filter-dispatch design note: a single
// ProcessSample function takes an optional per-call modulated
// cutoff/resonance instead of overloading on whether modulation is present.
type SVF struct {
	sampleRate float64
	cutoff     float32
	resonance  float32
	mode       SVFMode
	enabled    bool

	f, q float32 // cached coefficients
}

// NewSVF creates a state-variable filter for the given sample rate, enabled
// by default in lowpass mode with a 1 kHz cutoff.
func NewSVF(sampleRate float64) *SVF {
	s := &SVF{
		sampleRate: sampleRate,
		cutoff:     1000,
		resonance:  0,
		mode:       SVFLowpass,
		enabled:    true,
	}
	s.updateCoefficients()
	return s
}

// SetMode selects which of LP/HP/BP/Notch ProcessSample returns.
func (s *SVF) SetMode(mode SVFMode) { s.mode = mode }

// SetEnabled toggles bypass; when disabled, ProcessSample returns its input
// unchanged and state is left untouched.
func (s *SVF) SetEnabled(enabled bool) { s.enabled = enabled }

// SetCutoffResonance sets the cached cutoff (Hz) and resonance ([0,1]) and
// recomputes the shared coefficients. cutoff is clamped to
// [20, 0.45*sampleRate], resonance to [0, 0.99].
func (s *SVF) SetCutoffResonance(cutoffHz, resonance float32) {
	s.cutoff = cutoffHz
	s.resonance = resonance
	s.updateCoefficients()
}

func (s *SVF) updateCoefficients() {
	f, q := computeSVFCoefficients(s.cutoff, s.resonance, s.sampleRate)
	s.f, s.q = f, q
}

// computeSVFCoefficients clamps cutoff/resonance to the stable range and
// returns f = 2*sin(pi*cutoff/sampleRate), q = 1-resonance.
func computeSVFCoefficients(cutoffHz, resonance float32, sampleRate float64) (f, q float32) {
	maxCutoff := float32(sampleRate * 0.45)
	if cutoffHz < 20 {
		cutoffHz = 20
	}
	if cutoffHz > maxCutoff {
		cutoffHz = maxCutoff
	}
	if resonance < 0 {
		resonance = 0
	}
	if resonance > 0.99 {
		resonance = 0.99
	}
	f = 2 * float32(math.Sin(math.Pi*float64(cutoffHz)/sampleRate))
	q = 1 - resonance
	return f, q
}

// coefficientsDiffer reports whether a modulated (cutoff, resonance) pair
// has drifted from the cached values by more than the recompute threshold.
func coefficientsDiffer(cachedCutoff, cachedResonance, modCutoff, modResonance float32) bool {
	const threshold = 0.001
	return absF32(cachedCutoff-modCutoff) > threshold || absF32(cachedResonance-modResonance) > threshold
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Modulation is an optional per-sample cutoff/resonance override, passed by
// pointer so the common no-modulation path costs a single nil check.
type Modulation struct {
	Cutoff, Resonance float32
}

// ProcessSample runs one sample through the filter using state, returning
// the output selected by mode. mod, when non-nil, supplies a per-sample
// modulated cutoff/resonance; coefficients are recomputed locally into a
// pair of locals without touching the cached (f, q) whenever the modulated
// values differ from the cache by more than 0.001 — the no-mod path never
// takes that branch. If the filter is disabled, input passes through
// unchanged and state is untouched.
func (s *SVF) ProcessSample(input float32, state *SVFState, mod *Modulation) float32 {
	if !s.enabled {
		return input
	}

	f, q := s.f, s.q
	if mod != nil && coefficientsDiffer(s.cutoff, s.resonance, mod.Cutoff, mod.Resonance) {
		f, q = computeSVFCoefficients(mod.Cutoff, mod.Resonance, s.sampleRate)
	}

	state.Lowpass += f * state.Bandpass
	state.Highpass = input - state.Lowpass - q*state.Bandpass
	state.Bandpass += f * state.Highpass

	switch s.mode {
	case SVFHighpass:
		return state.Highpass
	case SVFBandpass:
		return state.Bandpass
	case SVFNotch:
		return state.Lowpass + state.Highpass
	default:
		return state.Lowpass
	}
}

// Reset zeroes the filter state (does not affect cached coefficients).
func (s *SVFState) Reset() {
	s.Lowpass, s.Bandpass, s.Highpass = 0, 0, 0
}
