package synth

import (
	"github.com/nverant/wavecore/pkg/dsp/oscillator"
	"github.com/nverant/wavecore/pkg/dsp/wavetable"
	"github.com/nverant/wavecore/pkg/midi"
)

// StorageType names the underlying Go type a binding denormalizes into.
type StorageType int

const (
	StorageFloat StorageType = iota
	StorageInt8
	StorageBool
	StorageWaveform
)

// ParamID values recognized by the static binding table below. Assignment
// is stable across a process run; do not renumber once a preset file has
// been written referencing these ids.
const (
	ParamMasterGain midi.ParamID = iota
	ParamFilterCutoff
	ParamFilterResonance
	ParamFilterDrive
	ParamFilterType
	ParamAttack
	ParamDecay
	ParamSustain
	ParamRelease
	ParamOsc1Enabled
	ParamOsc1MixLevel
	ParamOsc1ScanPosition
	ParamOsc1OctaveOffset
	ParamOsc2Enabled
	ParamOsc2MixLevel
	ParamOsc2ScanPosition
	ParamOsc2OctaveOffset
	ParamOsc3Enabled
	ParamOsc3MixLevel
	ParamOsc3ScanPosition
	ParamOsc3OctaveOffset
	ParamSubEnabled
	ParamSubMixLevel
	ParamSubOctaveOffset
	ParamNoiseEnabled
	ParamNoiseMixLevel
	ParamNoiseType
	ParamModWheel
	ParamAftertouch
	ParamLFO1Frequency
	ParamLFO2Frequency
	ParamInsertBypass
	ParamReverbWetLevel
	ParamTapeDrive
	ParamDelayRate
	ParamAutoPanEnabled
	ParamAutoPanRate
	ParamAutoPanDepth
)

// binding describes how one ParamID denormalizes a [0,1] value and writes
// it into the engine: min/max for the affine map, a storage type for
// documentation and for the Waveform/Bool/Int8 special cases, and an apply
// closure that performs the actual write. Closures replace the spec's raw
// field-pointer table — Go has no portable arbitrary-field pointer, and a
// closure captures exactly the same "id -> where it goes" binding without
// unsafe pointer arithmetic.
type binding struct {
	min, max float64
	storage  StorageType
	apply    func(e *Engine, denormalized float64)
}

// Bindings is the static ParamID -> binding table, built once at engine
// construction and shared read-only across the life of the process; the
// audio thread only ever calls Apply.
type Bindings struct {
	table map[midi.ParamID]binding
}

// NewBindings builds the full parameter binding table for the engine's
// oscillator slot layout. Any Engine with the same oscillator slot count can share the
// resulting table, since bindings close over method calls, not this
// specific engine.
func NewBindings() *Bindings {
	b := &Bindings{table: make(map[midi.ParamID]binding, 32)}

	b.table[ParamMasterGain] = binding{0, 2, StorageFloat, func(e *Engine, v float64) {
		e.SetMasterGain(float32(v))
	}}
	b.table[ParamFilterCutoff] = binding{20, 20000, StorageFloat, func(e *Engine, v float64) {
		e.SetFilterCutoffResonance(float32(v), e.filterResonance)
	}}
	b.table[ParamFilterResonance] = binding{0, 0.99, StorageFloat, func(e *Engine, v float64) {
		e.SetFilterCutoffResonance(e.filterCutoff, float32(v))
	}}
	b.table[ParamFilterDrive] = binding{1, 10, StorageFloat, func(e *Engine, v float64) {
		e.SetFilterDrive(float32(v))
	}}
	b.table[ParamFilterType] = binding{0, 1, StorageBool, func(e *Engine, v float64) {
		if v >= 0.5 {
			e.SetFilterType(FilterLadder)
		} else {
			e.SetFilterType(FilterSVF)
		}
	}}
	b.table[ParamAttack] = binding{0, 5000, StorageFloat, func(e *Engine, v float64) {
		for i := range e.envelopes {
			e.envelopes[i].SetAttack(v)
		}
	}}
	b.table[ParamDecay] = binding{0, 5000, StorageFloat, func(e *Engine, v float64) {
		for i := range e.envelopes {
			e.envelopes[i].SetDecay(v)
		}
	}}
	b.table[ParamSustain] = binding{0, 1, StorageFloat, func(e *Engine, v float64) {
		for i := range e.envelopes {
			e.envelopes[i].SetSustain(v)
		}
	}}
	b.table[ParamRelease] = binding{0, 8000, StorageFloat, func(e *Engine, v float64) {
		for i := range e.envelopes {
			e.envelopes[i].SetRelease(v)
		}
	}}

	b.bindOscillator(ParamOsc1Enabled, ParamOsc1MixLevel, ParamOsc1ScanPosition, ParamOsc1OctaveOffset, oscSlot1)
	b.bindOscillator(ParamOsc2Enabled, ParamOsc2MixLevel, ParamOsc2ScanPosition, ParamOsc2OctaveOffset, oscSlot2)
	b.bindOscillator(ParamOsc3Enabled, ParamOsc3MixLevel, ParamOsc3ScanPosition, ParamOsc3OctaveOffset, oscSlot3)
	b.bindOscillator(ParamSubEnabled, ParamSubMixLevel, noScanBinding, ParamSubOctaveOffset, oscSlotSub)

	b.table[ParamNoiseEnabled] = binding{0, 1, StorageBool, func(e *Engine, v float64) {
		cfg := e.nz.Config()
		cfg.Enabled = v >= 0.5
		e.SetNoiseConfig(cfg)
	}}
	b.table[ParamNoiseMixLevel] = binding{0, 1, StorageFloat, func(e *Engine, v float64) {
		cfg := e.nz.Config()
		cfg.MixLevel = float32(v)
		e.SetNoiseConfig(cfg)
	}}
	b.table[ParamNoiseType] = binding{0, 1, StorageWaveform, func(e *Engine, v float64) {
		cfg := e.nz.Config()
		if v >= 0.5 {
			cfg.Type = oscillator.NoisePink
		} else {
			cfg.Type = oscillator.NoiseWhite
		}
		e.SetNoiseConfig(cfg)
	}}

	b.table[ParamModWheel] = binding{0, 1, StorageFloat, func(e *Engine, v float64) {
		e.modWheel = float32(v)
	}}
	b.table[ParamAftertouch] = binding{0, 1, StorageFloat, func(e *Engine, v float64) {
		e.aftertouch = float32(v)
	}}
	b.table[ParamLFO1Frequency] = binding{0.01, 20, StorageFloat, func(e *Engine, v float64) {
		e.lfo1.SetFrequency(v)
	}}
	b.table[ParamLFO2Frequency] = binding{0.01, 20, StorageFloat, func(e *Engine, v float64) {
		e.lfo2.SetFrequency(v)
	}}

	b.table[ParamInsertBypass] = binding{0, 1, StorageBool, func(e *Engine, v float64) {
		e.insertChain.SetBypass(v >= 0.5)
	}}
	b.table[ParamReverbWetLevel] = binding{0, 1, StorageFloat, func(e *Engine, v float64) {
		e.insertChain.Reverb.wet = float32(v)
	}}
	b.table[ParamTapeDrive] = binding{0, 1, StorageFloat, func(e *Engine, v float64) {
		e.insertChain.Tape.tape.SetDrive(v)
	}}
	b.table[ParamDelayRate] = binding{0.05, 8, StorageFloat, func(e *Engine, v float64) {
		e.insertChain.Delay.line.SetLFO(v, 5.0)
	}}

	b.table[ParamAutoPanEnabled] = binding{0, 1, StorageBool, func(e *Engine, v float64) {
		e.SetAutoPanEnabled(v >= 0.5)
	}}
	b.table[ParamAutoPanRate] = binding{0.01, 5, StorageFloat, func(e *Engine, v float64) {
		e.SetAutoPanRate(float32(v))
	}}
	b.table[ParamAutoPanDepth] = binding{0, 1, StorageFloat, func(e *Engine, v float64) {
		e.SetAutoPanDepth(float32(v))
	}}

	return b
}

// noScanBinding is passed as scanID for the sub oscillator, which has no
// scan-position binding because sub banks are always single-frame.
const noScanBinding = ^midi.ParamID(0)

// bindOscillator installs enabled/mixLevel/scanPosition/octaveOffset
// bindings for one oscillator slot.
func (b *Bindings) bindOscillator(enabledID, mixID, scanID, octaveID midi.ParamID, slot int) {
	b.table[enabledID] = binding{0, 1, StorageBool, func(e *Engine, v float64) {
		cfg := e.osc[slot].Config()
		cfg.Enabled = v >= 0.5
		e.osc[slot].SetConfig(cfg)
	}}
	b.table[mixID] = binding{0, 1, StorageFloat, func(e *Engine, v float64) {
		cfg := e.osc[slot].Config()
		cfg.MixLevel = float32(v)
		e.osc[slot].SetConfig(cfg)
	}}
	if scanID != noScanBinding {
		b.table[scanID] = binding{0, 1, StorageFloat, func(e *Engine, v float64) {
			cfg := e.osc[slot].Config()
			cfg.ScanPosition = float32(v)
			e.osc[slot].SetConfig(cfg)
		}}
	}
	b.table[octaveID] = binding{-4, 4, StorageInt8, func(e *Engine, v float64) {
		cfg := e.osc[slot].Config()
		cfg.OctaveOffset = int8(v)
		e.osc[slot].SetConfig(cfg)
	}}
}

// Apply denormalizes ev.Value against the binding for ev.ID and writes it
// into e. Unknown ids are silently ignored: the producer thread is
// responsible for only sending ids the bindings table recognizes, and the
// audio thread must never panic on malformed input.
func (b *Bindings) Apply(e *Engine, ev midi.ParamEvent) {
	bind, ok := b.table[ev.ID]
	if !ok {
		return
	}
	denormalized := bind.min + float64(ev.Value)*(bind.max-bind.min)
	bind.apply(e, denormalized)
}

// SetWavetableBank is a convenience used outside the param-event path (at
// setup time, from the main thread) to point an oscillator slot at a bank
// looked up from a registry.
func SetWavetableBank(e *Engine, slot int, bank *wavetable.Bank) {
	cfg := e.osc[slot].Config()
	cfg.Bank = bank
	e.osc[slot].SetConfig(cfg)
}
