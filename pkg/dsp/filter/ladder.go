package filter

import "math"

// LadderState holds the four cascaded one-pole stage outputs for one voice.
// The zero value is the correct initial state.
type LadderState struct {
	Stage [4]float32
}

// Reset zeroes the ladder state.
func (s *LadderState) Reset() {
	s.Stage = [4]float32{}
}

// Ladder is a 4-pole (24dB/octave) low-pass ladder filter in the style of
// the classic Moog transistor ladder: four cascaded one-pole stages with
// resonance fed back from the last stage into the first, and an optional
// tanh saturation stage for a nonlinear drive character. Coefficients are
// cached and shared across voices; each voice supplies its own LadderState.
type Ladder struct {
	sampleRate float64
	cutoff     float32
	resonance  float32 // [0,1] as configured; mapped internally to [0,4]
	drive      float32
	enabled    bool

	coeff      float32 // cached
	resAmount  float32 // cached, resonance mapped to [0,4]
}

// NewLadder creates a ladder filter for the given sample rate, enabled by
// default with no resonance and unity (linear) drive.
func NewLadder(sampleRate float64) *Ladder {
	l := &Ladder{
		sampleRate: sampleRate,
		cutoff:     1000,
		resonance:  0,
		drive:      1.0,
		enabled:    true,
	}
	l.updateCoefficients()
	return l
}

// SetEnabled toggles bypass.
func (l *Ladder) SetEnabled(enabled bool) { l.enabled = enabled }

// SetDrive sets the input drive; drive > 1.001 engages the nonlinear tanh
// saturation stage, otherwise the filter stays linear.
func (l *Ladder) SetDrive(drive float32) { l.drive = drive }

// SetCutoffResonance sets the cached cutoff (Hz) and resonance ([0,1]) and
// recomputes the shared coefficients.
func (l *Ladder) SetCutoffResonance(cutoffHz, resonance float32) {
	l.cutoff = cutoffHz
	l.resonance = resonance
	l.updateCoefficients()
}

func (l *Ladder) updateCoefficients() {
	coeff, res := computeLadderCoefficients(l.cutoff, l.resonance, l.sampleRate)
	l.coeff, l.resAmount = coeff, res
}

// computeLadderCoefficients clamps cutoff/resonance to the stable range and
// returns coeff = 2*sin(pi*cutoff/sampleRate) and resonance mapped [0,1] to
// [0,4].
func computeLadderCoefficients(cutoffHz, resonance float32, sampleRate float64) (coeff, resAmount float32) {
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
	if resonance > 1 {
		resonance = 1
	}
	coeff = 2 * float32(math.Sin(math.Pi*float64(cutoffHz)/sampleRate))
	resAmount = resonance * 4
	return coeff, resAmount
}

// ProcessSample runs one sample through the ladder using state. mod, when
// non-nil, supplies a per-sample modulated cutoff/resonance; as with SVF,
// coefficients differing from the cache by more than 0.001 are recomputed
// into locals without touching the cached values. If disabled, input passes
// through unchanged.
func (l *Ladder) ProcessSample(input float32, state *LadderState, mod *Modulation) float32 {
	if !l.enabled {
		return input
	}

	coeff, res := l.coeff, l.resAmount
	if mod != nil && coefficientsDiffer(l.cutoff, l.resonance, mod.Cutoff, mod.Resonance) {
		coeff, res = computeLadderCoefficients(mod.Cutoff, mod.Resonance, l.sampleRate)
	}

	feedback := res * state.Stage[3]
	x := input - feedback

	nonlinear := l.drive > 1.001
	for i := 0; i < 4; i++ {
		target := x
		if nonlinear {
			target = float32(math.Tanh(float64(x * l.drive)))
		}
		state.Stage[i] += coeff * (target - state.Stage[i])
		x = state.Stage[i]
	}
	return state.Stage[3]
}
