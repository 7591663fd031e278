// Package envelope provides envelope generators for audio synthesis
package envelope

import "math"

// Stage represents the current envelope stage
type Stage int

const (
	// StageIdle represents envelope idle state
	StageIdle Stage = iota
	// StageAttack represents envelope attack phase
	StageAttack
	// StageDecay represents envelope decay phase
	StageDecay
	// StageSustain represents envelope sustain phase
	StageSustain
	// StageRelease represents envelope release phase
	StageRelease
)

// ADSR implements a sample-accurate, linear Attack-Decay-Sustain-Release
// envelope generator. Every stage ramps linearly in time rather than
// exponentially: attack rises 0->1, decay falls 1->sustain, release falls
// releaseStartLevel->0, each proportional to elapsed samples in the stage.
type ADSR struct {
	sampleRate float64

	// Parameters: attack/decay/release in milliseconds, sustain in [0,1].
	attackMs  float64
	decayMs   float64
	sustain   float64
	releaseMs float64

	// Stage lengths in samples, recomputed whenever a time parameter or the
	// sample rate changes.
	attackSamples  int
	decaySamples   int
	releaseSamples int

	// State
	stage           Stage
	samplesInStage  int
	value           float64
	releaseStartLvl float64
}

// New creates a new ADSR envelope with the donor framework's original
// default parameters.
func New(sampleRate float64) *ADSR {
	env := &ADSR{sampleRate: sampleRate}
	env.SetADSR(10, 100, 0.7, 300)
	return env
}

// SetAttack sets the attack time in milliseconds (>=0; clamped, never
// rejected — the audio thread never calls setters directly).
func (e *ADSR) SetAttack(ms float64) {
	e.attackMs = math.Max(0, ms)
	e.updateStageLengths()
}

// SetDecay sets the decay time in milliseconds (>=0).
func (e *ADSR) SetDecay(ms float64) {
	e.decayMs = math.Max(0, ms)
	e.updateStageLengths()
}

// SetSustain sets the sustain level, clamped to [0,1].
func (e *ADSR) SetSustain(level float64) {
	e.sustain = math.Max(0.0, math.Min(1.0, level))
}

// SetRelease sets the release time in milliseconds (>=0).
func (e *ADSR) SetRelease(ms float64) {
	e.releaseMs = math.Max(0, ms)
	e.updateStageLengths()
}

// SetADSR sets all four parameters at once (attack/decay/release in
// milliseconds, sustain in [0,1]).
func (e *ADSR) SetADSR(attackMs, decayMs, sustain, releaseMs float64) {
	e.attackMs = math.Max(0, attackMs)
	e.decayMs = math.Max(0, decayMs)
	e.sustain = math.Max(0.0, math.Min(1.0, sustain))
	e.releaseMs = math.Max(0, releaseMs)
	e.updateStageLengths()
}

// SetSampleRate updates the sample rate and recomputes stage lengths.
func (e *ADSR) SetSampleRate(sampleRate float64) {
	e.sampleRate = sampleRate
	e.updateStageLengths()
}

// updateStageLengths converts each millisecond parameter to a sample count:
// samples = round(ms * sampleRate / 1000).
func (e *ADSR) updateStageLengths() {
	e.attackSamples = msToSamples(e.attackMs, e.sampleRate)
	e.decaySamples = msToSamples(e.decayMs, e.sampleRate)
	e.releaseSamples = msToSamples(e.releaseMs, e.sampleRate)
}

func msToSamples(ms, sampleRate float64) int {
	return int(math.Round(ms * sampleRate / 1000.0))
}

// Trigger starts the envelope from Attack (note on): resets samples-in-stage
// to 0 regardless of the prior stage, so a retrigger restarts the shape.
func (e *ADSR) Trigger() {
	e.stage = StageAttack
	e.samplesInStage = 0
}

// Release starts the release stage (note off), snapshotting the current
// amplitude as the level the release ramp falls from.
func (e *ADSR) Release() {
	if e.stage != StageIdle {
		e.releaseStartLvl = e.value
		e.stage = StageRelease
		e.samplesInStage = 0
	}
}

// Reset immediately returns the envelope to idle.
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.value = 0.0
	e.samplesInStage = 0
}

// IsActive returns true if the envelope is generating output.
func (e *ADSR) IsActive() bool {
	return e.stage != StageIdle
}

// GetStage returns the current envelope stage.
func (e *ADSR) GetStage() Stage {
	return e.stage
}

// Value returns the envelope's current amplitude without advancing state,
// used to snapshot a modulation-matrix source value at the start of a
// block.
func (e *ADSR) Value() float32 {
	return float32(e.value)
}

// Next generates the next envelope value. A zero-length stage completes in
// the same sample it is entered, cascading into the following stage until a
// stage with positive length (or Sustain/Idle) is reached — this is why an
// all-zero-duration envelope's first sample after Trigger is the sustain
// level rather than 1.
func (e *ADSR) Next() float32 {
	for {
		switch e.stage {
		case StageIdle:
			e.value = 0.0
			return float32(e.value)

		case StageAttack:
			if e.attackSamples <= 0 {
				e.value = 1.0
				e.stage = StageDecay
				e.samplesInStage = 0
				continue
			}
			e.samplesInStage++
			progress := float64(e.samplesInStage) / float64(e.attackSamples)
			if progress >= 1.0 {
				e.value = 1.0
				e.stage = StageDecay
				e.samplesInStage = 0
				continue
			}
			e.value = progress
			return float32(e.value)

		case StageDecay:
			if e.decaySamples <= 0 {
				e.value = e.sustain
				e.stage = StageSustain
				continue
			}
			e.samplesInStage++
			progress := float64(e.samplesInStage) / float64(e.decaySamples)
			if progress >= 1.0 {
				e.value = e.sustain
				e.stage = StageSustain
				continue
			}
			e.value = 1.0 - progress*(1.0-e.sustain)
			return float32(e.value)

		case StageSustain:
			e.value = e.sustain
			return float32(e.value)

		case StageRelease:
			if e.releaseSamples <= 0 {
				e.value = 0.0
				e.stage = StageIdle
				continue
			}
			e.samplesInStage++
			progress := float64(e.samplesInStage) / float64(e.releaseSamples)
			if progress >= 1.0 {
				e.value = 0.0
				e.stage = StageIdle
				continue
			}
			e.value = e.releaseStartLvl * (1.0 - progress)
			return float32(e.value)
		}
	}
}

// Process fills buffer with envelope values - no allocations
func (e *ADSR) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = e.Next()
	}
}

// ProcessMultiply multiplies buffer by envelope - no allocations
func (e *ADSR) ProcessMultiply(buffer []float32) {
	for i := range buffer {
		buffer[i] *= e.Next()
	}
}

