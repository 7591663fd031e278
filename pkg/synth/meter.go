package synth

import "github.com/nverant/wavecore/pkg/dsp/analysis"

// Meter taps the engine's master bus after the insert chain and master
// gain, giving a UI or CLI status line peak, RMS and integrated-loudness
// readings without touching the render path itself.
type Meter struct {
	peak *analysis.PeakMeter
	rms  *analysis.RMSMeter
	lufs *analysis.LUFSMeter

	scratch []float64
}

// newMeter builds a meter sized for maxBlockFrames samples per call. The
// engine's master bus is single-channel at the point the meter taps it
// (pre-pan-split), so the LUFS meter is constructed for 1 channel.
func newMeter(sampleRate float64, maxBlockFrames int) *Meter {
	return &Meter{
		peak:    analysis.NewPeakMeter(sampleRate),
		rms:     analysis.NewRMSMeter(maxBlockFrames),
		lufs:    analysis.NewLUFSMeter(sampleRate, 1),
		scratch: make([]float64, maxBlockFrames),
	}
}

// process feeds one block of mono samples into the peak, RMS and LUFS
// meters. Called once per ProcessAudioBlock, after the master gain stage.
func (m *Meter) process(block []float32) {
	scratch := m.scratch[:len(block)]
	for i, s := range block {
		scratch[i] = float64(s)
	}
	m.peak.Process(scratch)
	m.rms.Process(scratch)
	m.lufs.Process(scratch)
}

// PeakDB returns the current peak level in dBFS.
func (m *Meter) PeakDB() float64 { return m.peak.GetPeakDB() }

// HoldDB returns the peak-hold level in dBFS.
func (m *Meter) HoldDB() float64 { return m.peak.GetHoldDB() }

// RMSDB returns the current RMS level in dBFS.
func (m *Meter) RMSDB() float64 { return m.rms.GetRMSDB() }

// MomentaryLUFS returns the current momentary (400ms) loudness in LUFS.
func (m *Meter) MomentaryLUFS() float64 { return m.lufs.GetMomentaryLUFS() }

// IntegratedLUFS returns the program-integrated loudness in LUFS.
func (m *Meter) IntegratedLUFS() float64 { return m.lufs.GetIntegratedLUFS() }

// Reset clears all accumulated meter state.
func (m *Meter) Reset() {
	m.peak.Reset()
	m.rms.Reset()
	m.lufs.Reset()
}
