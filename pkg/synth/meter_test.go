package synth

import "testing"

func TestMeterReadsSilenceAsVeryNegativeDB(t *testing.T) {
	m := newMeter(48000, 64)
	block := make([]float32, 64)
	m.process(block)

	if m.PeakDB() > -60 {
		t.Fatalf("PeakDB on silence = %v, want a very negative dB floor", m.PeakDB())
	}
}

func TestMeterReadsFullScaleNearZeroDB(t *testing.T) {
	m := newMeter(48000, 64)
	block := make([]float32, 64)
	for i := range block {
		block[i] = 1.0
	}
	m.process(block)

	if m.PeakDB() < -0.5 || m.PeakDB() > 0.5 {
		t.Fatalf("PeakDB on full-scale input = %v, want close to 0dB", m.PeakDB())
	}
}

func TestMeterMomentaryLUFSReadsVeryNegativeOnSilence(t *testing.T) {
	m := newMeter(48000, 64)
	block := make([]float32, 64)
	for i := 0; i < 20; i++ {
		m.process(block)
	}

	if m.MomentaryLUFS() > -60 {
		t.Fatalf("MomentaryLUFS on silence = %v, want a very negative loudness floor", m.MomentaryLUFS())
	}
}

func TestMeterResetClearsHold(t *testing.T) {
	m := newMeter(48000, 64)
	block := make([]float32, 64)
	for i := range block {
		block[i] = 1.0
	}
	m.process(block)
	m.Reset()

	if m.HoldDB() > -60 {
		t.Fatalf("HoldDB after Reset = %v, want a very negative dB floor", m.HoldDB())
	}
}
