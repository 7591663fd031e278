package oscillator

import (
	"math"

	"github.com/nverant/wavecore/pkg/dsp/fixedpoint"
	"github.com/nverant/wavecore/pkg/dsp/wavetable"
)

// FMSource enumerates which oscillator (if any) modulates another's phase.
type FMSource int

const (
	FMNone FMSource = iota
	FMOsc1
	FMOsc2
	FMOsc3
	FMSub
)

// WavetableConfig holds the recognized configuration options for a
// wavetable oscillator: bank reference, scan position, mix level, FM depth
// and source, octave offset, and detune.
type WavetableConfig struct {
	Bank         *wavetable.Bank
	ScanPosition float32 // [0,1]
	MixLevel     float32 // [0,1]
	FMDepth      float32
	FMSource     FMSource
	OctaveOffset int8
	DetuneCents  float64
	Enabled      bool
}

// WavetableOscillator holds engine-wide configuration and per-voice phase
// state for one oscillator slot. Phase/increment ownership follows the
// structure-of-arrays voice model: the oscillator owns one phase entry per
// voice index, and the voice is only ever referred to by that index. No
// oscillator object lives inside a per-voice struct.
type WavetableOscillator struct {
	cfg   WavetableConfig
	phase []fixedpoint.Phase
}

// NewWavetableOscillator allocates the per-voice phase array for maxVoices
// voices, all initialized to phase 0.
func NewWavetableOscillator(maxVoices int) *WavetableOscillator {
	return &WavetableOscillator{
		phase: make([]fixedpoint.Phase, maxVoices),
	}
}

// SetConfig replaces the oscillator's configuration. Safe to call from the
// audio thread; it touches no per-voice state.
func (w *WavetableOscillator) SetConfig(cfg WavetableConfig) {
	w.cfg = cfg
}

// Config returns the oscillator's current configuration.
func (w *WavetableOscillator) Config() WavetableConfig { return w.cfg }

// ResetPhase sets voice's phase to 0, called at note-on.
func (w *WavetableOscillator) ResetPhase(voice int) {
	w.phase[voice] = 0
}

// NoteFrequency computes the note frequency for a wavetable oscillator:
// A4 * 2^((midiNote-69+octaveOffset+detune/1200)/12).
func NoteFrequency(midiNote uint8, octaveOffset int8, detuneCents, a4 float64) float64 {
	semitones := float64(int(midiNote)-69+int(octaveOffset)) + detuneCents/1200
	return a4 * math.Pow(2, semitones/12)
}

// TablePositionsPerSample converts a frequency in Hz into the wavetable
// phase-increment convention: TableSize * f / sampleRate.
func TablePositionsPerSample(freq, sampleRate float64) float64 {
	return float64(fixedpoint.TableSize) * freq / sampleRate
}

// Read produces one sample for voice, given the current phase increment in
// table positions per sample (computed by the caller from the voice's note
// frequency and any active pitch modulation) and a fixed-point FM phase
// offset (0 when no FM source is active). It performs mip selection,
// dual-mip and dual-frame bilinear interpolation, advances the voice's
// phase, and returns the blended sample scaled by MixLevel. A disabled
// oscillator or a missing bank returns 0 without advancing phase.
func (w *WavetableOscillator) Read(voice int, tablePositionsPerSample float64, fmPhaseOffset int32) float32 {
	if !w.cfg.Enabled || w.cfg.Bank == nil {
		return 0
	}
	bank := w.cfg.Bank
	frameCount := bank.NumFrames()
	if frameCount == 0 {
		return 0
	}

	incFixed := fixedpoint.ToPhaseInc(tablePositionsPerSample)
	readPhase := w.phase[voice].Offset(fmPhaseOffset)

	mip := clampFloat(fixedpoint.FastLog2(float32(tablePositionsPerSample)), 0, wavetable.MaxMipLevels-2)
	mipA := int(mip)
	mipB := mipA + 1
	mipBlend := mip - float32(mipA)

	var sample float32
	if frameCount == 1 {
		frame := bank.Frame(0)
		sample = blendMips(frame, mipA, mipB, mipBlend, readPhase)
	} else {
		scan := clampFloat(w.cfg.ScanPosition, 0, 1) * float32(frameCount-1)
		frameA := int(clampFloat(scan, 0, float32(frameCount-2)))
		frameB := frameA + 1
		frameBlend := scan - float32(frameA)

		a := blendMips(bank.Frame(frameA), mipA, mipB, mipBlend, readPhase)
		b := blendMips(bank.Frame(frameB), mipA, mipB, mipBlend, readPhase)
		sample = a + frameBlend*(b-a)
	}

	w.phase[voice] = w.phase[voice].Advance(incFixed)
	return sample * w.cfg.MixLevel
}

// blendMips reads mipA and mipB of frame at phase and linearly blends them.
func blendMips(frame *wavetable.Frame, mipA, mipB int, blend float32, phase fixedpoint.Phase) float32 {
	if frame == nil {
		return 0
	}
	if mipB >= wavetable.MaxMipLevels {
		mipB = wavetable.MaxMipLevels - 1
	}
	a := fixedpoint.ReadTable(frame.Mips[mipA], phase)
	b := fixedpoint.ReadTable(frame.Mips[mipB], phase)
	return a + blend*(b-a)
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
