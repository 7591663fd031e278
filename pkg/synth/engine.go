// Package synth wires the fixed-point wavetable oscillators, noise
// oscillator, ADSR envelopes, filters, modulation matrix, voice pool and
// SPSC event queues into a single realtime block processor. Everything the
// audio thread touches is preallocated at construction; ProcessAudioBlock
// never allocates, blocks, or performs I/O.
package synth

import (
	"github.com/nverant/wavecore/pkg/dsp"
	"github.com/nverant/wavecore/pkg/dsp/envelope"
	"github.com/nverant/wavecore/pkg/dsp/filter"
	"github.com/nverant/wavecore/pkg/dsp/gain"
	"github.com/nverant/wavecore/pkg/dsp/modulation"
	"github.com/nverant/wavecore/pkg/dsp/oscillator"
	"github.com/nverant/wavecore/pkg/dsp/pan"
	"github.com/nverant/wavecore/pkg/midi"
	"github.com/nverant/wavecore/pkg/synth/modmatrix"
	"github.com/nverant/wavecore/pkg/synth/voice"
)

// FilterType selects which per-voice filter topology the engine runs.
type FilterType int

const (
	FilterSVF FilterType = iota
	FilterLadder
)

// a4Frequency is the standard concert-pitch reference used by
// oscillator.NoteFrequency.
const a4Frequency = 440.0

// oscSlot indexes the four wavetable oscillator slots per voice: three main
// oscillators plus one sub oscillator.
const (
	oscSlot1 = iota
	oscSlot2
	oscSlot3
	oscSlotSub
	oscSlotCount
)

// Engine owns every piece of engine-wide configuration and per-voice
// structure-of-arrays state, and drives all voices through one audio block
// at a time.
type Engine struct {
	sampleRate float64
	maxVoices  int

	pool *voice.Pool

	osc [oscSlotCount]*oscillator.WavetableOscillator
	nz  *oscillator.NoiseOscillator

	envelopes []envelope.ADSR

	filterType       FilterType
	filterCutoff     float32
	filterResonance  float32
	svf              *filter.SVF
	ladder           *filter.Ladder
	svfState         []filter.SVFState
	ladderState      []filter.LadderState

	matrix *modmatrix.Matrix
	lfo1   *modulation.LFO
	lfo2   *modulation.LFO

	masterGain float32

	insertChain *InsertChain
	meter       *Meter

	autoPan        *pan.AutoPan
	autoPanEnabled bool
	autoPanRate    float32
	autoPanDepth   float32
	panLeft        []float32
	panRight       []float32

	// lastOscOut caches each oscillator's most recent output per voice, fed
	// forward one sample as the FM modulator value so that phase
	// modulation never needs same-sample lookahead across oscillators.
	lastOscOut [oscSlotCount][]float32

	// modWheel, aftertouch are engine-wide continuous controller state,
	// updated by parameter bindings and read by the modulation matrix.
	modWheel   float32
	aftertouch float32

	noteReleased []int // scratch reused by handleNoteOff, never reallocated

	scratch []float32
}

// New creates an engine sized for maxVoices simultaneous voices at
// sampleRate, with every buffer preallocated.
func New(sampleRate float64, maxVoices int, maxBlockFrames int) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		maxVoices:  maxVoices,
		pool:       voice.New(maxVoices),
		nz:         oscillator.NewNoiseOscillator(maxVoices),
		envelopes:  make([]envelope.ADSR, maxVoices),
		filterType:      FilterSVF,
		filterCutoff:    1000,
		filterResonance: 0,
		svf:             filter.NewSVF(sampleRate),
		ladder:          filter.NewLadder(sampleRate),
		svfState:        make([]filter.SVFState, maxVoices),
		ladderState:     make([]filter.LadderState, maxVoices),
		matrix:     modmatrix.New(maxVoices),
		lfo1:       modulation.NewLFO(sampleRate),
		lfo2:       modulation.NewLFO(sampleRate),
		masterGain:  1.0,
		insertChain: NewInsertChain(sampleRate),
		meter:       newMeter(sampleRate, maxBlockFrames),
		autoPan:     pan.NewAutoPan(0.2, 0, pan.ConstantPower),
		autoPanRate: 0.2,
		panLeft:     make([]float32, maxBlockFrames),
		panRight:    make([]float32, maxBlockFrames),
		noteReleased: make([]int, 0, maxVoices),
		scratch:      make([]float32, maxBlockFrames),
	}
	for i := range e.osc {
		e.osc[i] = oscillator.NewWavetableOscillator(maxVoices)
	}
	for i := range e.lastOscOut {
		e.lastOscOut[i] = make([]float32, maxVoices)
	}
	for i := range e.envelopes {
		e.envelopes[i] = *envelope.New(sampleRate)
	}
	return e
}

// SetFilterType selects SVF or Ladder for every voice; existing per-voice
// filter state is reset since the two topologies are not state-compatible.
func (e *Engine) SetFilterType(t FilterType) {
	e.filterType = t
	for i := range e.svfState {
		e.svfState[i].Reset()
	}
	for i := range e.ladderState {
		e.ladderState[i].Reset()
	}
}

// SetOscillatorConfig replaces the configuration of oscillator slot osc
// (0..2 for the main oscillators, 3 for the sub oscillator).
func (e *Engine) SetOscillatorConfig(slot int, cfg oscillator.WavetableConfig) {
	e.osc[slot].SetConfig(cfg)
}

// SetNoiseConfig replaces the noise oscillator's configuration.
func (e *Engine) SetNoiseConfig(cfg oscillator.NoiseConfig) {
	e.nz.SetConfig(cfg)
}

// SetADSR sets the ADSR parameters shared by every voice's envelope.
func (e *Engine) SetADSR(attackMs, decayMs, sustain, releaseMs float64) {
	for i := range e.envelopes {
		e.envelopes[i].SetADSR(attackMs, decayMs, sustain, releaseMs)
	}
}

// SetFilterCutoffResonance updates the cached coefficients of both filter
// topologies (whichever is active is the one actually heard) and remembers
// the base values so per-sample modulation deltas can be applied on top.
func (e *Engine) SetFilterCutoffResonance(cutoffHz, resonance float32) {
	e.filterCutoff = cutoffHz
	e.filterResonance = resonance
	e.svf.SetCutoffResonance(cutoffHz, resonance)
	e.ladder.SetCutoffResonance(cutoffHz, resonance)
}

// SetFilterDrive sets the ladder filter's drive; ignored by the SVF.
func (e *Engine) SetFilterDrive(drive float32) {
	e.ladder.SetDrive(drive)
}

// SetMasterGain sets the post-sum output gain applied by the very next
// block; the change takes effect immediately, with no ramp, so that a
// ParamEvent(MASTER_GAIN, 0) followed by a NoteOn produces silent output on
// that same block regardless of voice state.
func (e *Engine) SetMasterGain(g float32) {
	e.masterGain = g
}

// Matrix exposes the modulation matrix for route configuration.
func (e *Engine) Matrix() *modmatrix.Matrix { return e.matrix }

// LFO1, LFO2 expose the two global low-frequency oscillators for parameter
// configuration (frequency, waveform, depth).
func (e *Engine) LFO1() *modulation.LFO { return e.lfo1 }
func (e *Engine) LFO2() *modulation.LFO { return e.lfo2 }

// InsertChain exposes the post-voice-sum effects chain for configuration.
func (e *Engine) InsertChain() *InsertChain { return e.insertChain }

// Meter exposes the master-bus level meter for UI polling.
func (e *Engine) Meter() *Meter { return e.meter }

// SetAutoPanEnabled toggles the stereo auto-panner. When enabled and the
// output is stereo, the mono voice sum is spread across the left/right
// channels by an LFO-driven constant-power pan instead of being broadcast
// identically.
func (e *Engine) SetAutoPanEnabled(enabled bool) { e.autoPanEnabled = enabled }

// SetAutoPanRate sets the auto-panner's LFO rate in Hz.
func (e *Engine) SetAutoPanRate(rateHz float32) {
	e.autoPanRate = rateHz
	e.autoPan.SetRate(rateHz)
}

// SetAutoPanDepth sets the auto-panner's stereo spread, 0 (center) to 1
// (full left/right).
func (e *Engine) SetAutoPanDepth(depth float32) {
	e.autoPanDepth = depth
	e.autoPan.SetDepth(depth)
}

// handleNoteOn allocates or retriggers a voice for (note, velocity),
// resetting every oscillator's phase, filter state, and envelope.
func (e *Engine) handleNoteOn(note, velocity uint8) {
	v := e.pool.NoteOn(note, velocity)
	for slot := range e.osc {
		e.osc[slot].ResetPhase(v)
	}
	e.svfState[v].Reset()
	e.ladderState[v].Reset()
	e.matrix.ResetVoice(v)
	for slot := range e.lastOscOut {
		e.lastOscOut[slot][v] = 0
	}
	e.envelopes[v].Trigger()
}

// handleNoteOff releases every voice currently playing note.
func (e *Engine) handleNoteOff(note uint8) {
	e.noteReleased = e.pool.NoteOff(note, e.noteReleased)
	for _, v := range e.noteReleased {
		e.envelopes[v].Release()
	}
}

// DispatchNoteEvent applies a single drained NoteEvent to the voice pool.
func (e *Engine) DispatchNoteEvent(ev midi.NoteEvent) {
	switch ev.Type {
	case midi.NoteOn:
		e.handleNoteOn(ev.MidiNote, ev.Velocity)
	case midi.NoteOff:
		e.handleNoteOff(ev.MidiNote)
	}
}

// sourceValuesForVoice samples every modulation source once per block for
// the given voice's current state.
func (e *Engine) sourceValuesForVoice(v int, lfo1Val, lfo2Val float32) modmatrix.SourceValues {
	var sv modmatrix.SourceValues
	st := e.pool.State(v)
	sv[modmatrix.LFO1] = lfo1Val
	sv[modmatrix.LFO2] = lfo2Val
	sv[modmatrix.Env1] = e.envelopes[v].Value()
	sv[modmatrix.Env2] = sv[modmatrix.Env1]
	sv[modmatrix.ModWheel] = e.modWheel
	sv[modmatrix.Velocity] = float32(st.Velocity) / 127
	sv[modmatrix.KeyTrack] = float32(st.MidiNote) / 127
	sv[modmatrix.Aftertouch] = e.aftertouch
	return sv
}

// oscFrequency computes voice's base note frequency for oscillator slot,
// applying the oscillator's own octave offset and detune plus any pitch
// modulation delta (in semitones) from the matrix.
func oscFrequency(midiNote uint8, cfg oscillator.WavetableConfig, semitoneMod float32) float64 {
	return oscillator.NoteFrequency(midiNote, cfg.OctaveOffset, cfg.DetuneCents+float64(semitoneMod)*1200, a4Frequency)
}

// fmOffsetFromSample converts a modulator's last output sample and an FM
// depth into a fixed-point phase offset spanning up to depth full cycles.
func fmOffsetFromSample(sample, depth float32) int32 {
	scaled := float64(sample) * float64(depth) * 2147483648.0
	if scaled > 2147483647 {
		scaled = 2147483647
	}
	if scaled < -2147483648 {
		scaled = -2147483648
	}
	return int32(scaled)
}

// ProcessAudioBlock renders frameCount samples for channelCount output
// channels into out (row-major, channel-major: out[ch*frameCount+i]).
// events are drained in FIFO order before the block renders; params are
// applied through bindings (see bindings.go) before rendering. No allocation
// happens on this path.
func (e *Engine) ProcessAudioBlock(out []float32, channelCount, frameCount int, noteQueue *midi.NoteQueue, paramQueue *midi.ParamQueue, bindings *Bindings) {
	for {
		ev, ok := noteQueue.Pop()
		if !ok {
			break
		}
		e.DispatchNoteEvent(ev)
	}
	for {
		ev, ok := paramQueue.Pop()
		if !ok {
			break
		}
		bindings.Apply(e, ev)
	}

	scratch := e.scratch[:frameCount]
	dsp.Clear(scratch)

	lfo1Val := float32(e.lfo1.Process())
	lfo2Val := float32(e.lfo2.Process())

	for v := 0; v < e.maxVoices; v++ {
		st := e.pool.State(v)
		if !st.Active {
			continue
		}
		sv := e.sourceValuesForVoice(v, lfo1Val, lfo2Val)
		e.matrix.UpdateBlock(v, sv, frameCount)
		e.renderVoice(v, st.MidiNote, scratch)
	}

	e.insertChain.Process(scratch)

	masterGain := e.masterGain
	for i := 0; i < frameCount; i++ {
		scratch[i] = gain.Apply(scratch[i], masterGain)
	}

	if e.autoPanEnabled && channelCount == 2 {
		left := e.panLeft[:frameCount]
		right := e.panRight[:frameCount]
		e.autoPan.Process(scratch, float32(e.sampleRate), left, right)
		copy(out[0:frameCount], left)
		copy(out[frameCount:2*frameCount], right)
	} else {
		for i := 0; i < frameCount; i++ {
			s := scratch[i]
			for ch := 0; ch < channelCount; ch++ {
				out[ch*frameCount+i] = s
			}
		}
	}
	e.meter.process(scratch)
}

// renderVoice generates frameCount samples for voice v into scratch,
// accumulating (osc_sum · filter · envelope.amplitude) per sample, and
// advances every stateful component exactly once per sample.
func (e *Engine) renderVoice(v int, midiNote uint8, scratch []float32) {
	for i := range scratch {
		oscPitchMod := [oscSlotCount]float32{
			e.matrix.Value(v, modmatrix.Osc1Pitch, i),
			e.matrix.Value(v, modmatrix.Osc2Pitch, i),
			e.matrix.Value(v, modmatrix.Osc3Pitch, i),
			e.matrix.Value(v, modmatrix.SubPitch, i),
		}
		oscFMMod := [oscSlotCount]float32{
			e.matrix.Value(v, modmatrix.Osc1FM, i),
			e.matrix.Value(v, modmatrix.Osc2FM, i),
			e.matrix.Value(v, modmatrix.Osc3FM, i),
			0,
		}
		scanMod := e.matrix.Value(v, modmatrix.ScanPosition, i)

		var oscOut [oscSlotCount]float32
		for slot := 0; slot < oscSlotCount; slot++ {
			original := e.osc[slot].Config()
			if !original.Enabled {
				e.lastOscOut[slot][v] = 0
				continue
			}
			cfg := original
			if scanMod != 0 {
				cfg.ScanPosition = clamp01(cfg.ScanPosition + scanMod)
				e.osc[slot].SetConfig(cfg)
			}
			freq := oscFrequency(midiNote, cfg, oscPitchMod[slot])
			tablePos := oscillator.TablePositionsPerSample(freq, e.sampleRate)

			fmDepth := cfg.FMDepth + oscFMMod[slot]
			fmSrc := fmModulatorSlot(cfg.FMSource)
			var fmOffset int32
			if fmSrc >= 0 {
				fmOffset = fmOffsetFromSample(e.lastOscOut[fmSrc][v], fmDepth)
			}

			out := e.osc[slot].Read(v, tablePos, fmOffset)
			if scanMod != 0 {
				e.osc[slot].SetConfig(original)
			}
			e.lastOscOut[slot][v] = out
			oscOut[slot] = out
		}

		noise := e.nz.Next(v)
		sum := oscOut[oscSlot1] + oscOut[oscSlot2] + oscOut[oscSlot3] + oscOut[oscSlotSub] + noise

		cutoffMod := e.matrix.Value(v, modmatrix.FilterCutoff, i)
		resMod := e.matrix.Value(v, modmatrix.FilterResonance, i)
		filtered := e.applyFilter(v, sum, cutoffMod, resMod)

		amp := e.envelopes[v].Next()
		ampMod := e.matrix.Value(v, modmatrix.AmpLevel, i)

		scratch[i] += filtered * amp * (1 + ampMod)

		if e.envelopes[v].GetStage() == envelope.StageIdle {
			e.pool.Free(v)
		}
	}
}

// applyFilter runs one sample of voice v's selected filter, applying any
// per-sample modulation deltas over the cached cutoff/resonance.
func (e *Engine) applyFilter(v int, input, cutoffMod, resMod float32) float32 {
	var mod *filter.Modulation
	if cutoffMod != 0 || resMod != 0 {
		mod = &filter.Modulation{
			Cutoff:    clampPositive(e.filterCutoff + cutoffMod),
			Resonance: clamp01(e.filterResonance + resMod),
		}
	}
	switch e.filterType {
	case FilterLadder:
		return e.ladder.ProcessSample(input, &e.ladderState[v], mod)
	default:
		return e.svf.ProcessSample(input, &e.svfState[v], mod)
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampPositive(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}

// fmModulatorSlot maps an FMSource enum value to the oscillator slot index
// it reads from, or -1 for FMNone.
func fmModulatorSlot(src oscillator.FMSource) int {
	switch src {
	case oscillator.FMOsc1:
		return oscSlot1
	case oscillator.FMOsc2:
		return oscSlot2
	case oscillator.FMOsc3:
		return oscSlot3
	case oscillator.FMSub:
		return oscSlotSub
	default:
		return -1
	}
}

