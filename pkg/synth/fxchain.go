package synth

import (
	"github.com/nverant/wavecore/pkg/dsp/delay"
	"github.com/nverant/wavecore/pkg/dsp/distortion"
	"github.com/nverant/wavecore/pkg/dsp/dynamics"
	"github.com/nverant/wavecore/pkg/dsp/interpolation"
	"github.com/nverant/wavecore/pkg/dsp/mix"
	"github.com/nverant/wavecore/pkg/dsp/reverb"
	fdsp "github.com/nverant/wavecore/pkg/framework/dsp"
)

// tapeAdapter wraps distortion.TapeSaturator, which operates on float64.
type tapeAdapter struct {
	tape *distortion.TapeSaturator
}

func newTapeAdapter(sampleRate float64) *tapeAdapter {
	return &tapeAdapter{tape: distortion.NewTapeSaturator(sampleRate)}
}

func (a *tapeAdapter) Process(buffer []float32) {
	for i, s := range buffer {
		buffer[i] = float32(a.tape.Process(float64(s)))
	}
}

func (a *tapeAdapter) Reset() {}

// freeverbAdapter wraps reverb.Freeverb's mono path, blending the reverb's
// own output back against the dry signal with mix.DryWet rather than
// relying on Freeverb's internal wet/dry gains, so the chain's stages all
// expose the same wet-amount control surface.
type freeverbAdapter struct {
	verb *reverb.Freeverb
	wet  float32
}

func newFreeverbAdapter(sampleRate float64) *freeverbAdapter {
	verb := reverb.NewFreeverb(sampleRate)
	verb.SetWetLevel(1.0)
	verb.SetDryLevel(0.0)
	return &freeverbAdapter{verb: verb, wet: 0.3}
}

func (a *freeverbAdapter) Process(buffer []float32) {
	for i, s := range buffer {
		buffer[i] = mix.DryWet(s, a.verb.Process(s), a.wet)
	}
}

func (a *freeverbAdapter) Reset() { a.verb.Reset() }

// diffuserAdapter wraps interpolation.AllPass as a fractional-delay
// diffusion stage ahead of the reverb, its frac position swept by a slow
// internal phase instead of being fed a fixed value every sample.
type diffuserAdapter struct {
	allpass *interpolation.AllPass
	phase   float32
	step    float32
}

func newDiffuserAdapter(sampleRate float64) *diffuserAdapter {
	return &diffuserAdapter{
		allpass: interpolation.NewAllPass(),
		step:    float32(0.3 / sampleRate),
	}
}

func (a *diffuserAdapter) Process(buffer []float32) {
	for i, s := range buffer {
		buffer[i] = a.allpass.Process(s, a.phase)
		a.phase += a.step
		if a.phase >= 1 {
			a.phase -= 1
		}
	}
}

func (a *diffuserAdapter) Reset() {
	a.allpass.Reset()
	a.phase = 0
}

// limiterAdapter wraps dynamics.Limiter, grounded on the framework's own
// CompressorAdapter/GateAdapter shape.
type limiterAdapter struct {
	limiter *dynamics.Limiter
}

func newLimiterAdapter(sampleRate float64) *limiterAdapter {
	return &limiterAdapter{limiter: dynamics.NewLimiter(sampleRate)}
}

func (a *limiterAdapter) Process(buffer []float32) {
	for i, s := range buffer {
		buffer[i] = a.limiter.Process(s)
	}
}

func (a *limiterAdapter) Reset() { a.limiter.Reset() }

// delayAdapter wraps delay.ModulatedDelay for a stompbox-style echo insert.
type delayAdapter struct {
	line *delay.ModulatedDelay
}

func newDelayAdapter(sampleRate float64) *delayAdapter {
	return &delayAdapter{line: delay.NewModulated(2.0, sampleRate)}
}

func (a *delayAdapter) Process(buffer []float32) {
	a.line.ProcessBuffer(buffer)
}

func (a *delayAdapter) Reset() { a.line.Reset() }

// InsertChain is the synth's post-voice-sum, pre-master-gain effects chain:
// DC blocker, tape drive, diffusion/reverb/delay, then a
// gate/compressor/limiter dynamics tail. The whole-chain bypass, tape drive,
// reverb wet level and delay rate are bound to ParamIDs; the DC blocker,
// diffuser, gate, compressor and limiter run with fixed settings. It runs
// on the mono voice-summed scratch buffer the same way the framework's
// dsp.Chain drives a plugin's processor list.
type InsertChain struct {
	chain *fdsp.Chain

	DCBlocker  *fdsp.DCBlockerAdapter
	Tape       *tapeAdapter
	Diffuser   *diffuserAdapter
	Reverb     *freeverbAdapter
	Delay      *delayAdapter
	Gate       *fdsp.GateAdapter
	Compressor *fdsp.CompressorAdapter
	Limiter    *limiterAdapter
}

// NewInsertChain builds the full insert chain in a fixed signal-flow order
// (DC removal -> drive -> diffusion/time-based -> dynamics) and bypasses
// the whole chain by default so an idle synth costs nothing beyond the
// per-block bypass check.
func NewInsertChain(sampleRate float64) *InsertChain {
	gate := dynamics.NewGate(sampleRate)
	gate.SetThreshold(-50)
	gate.SetRange(-40)

	comp := dynamics.NewCompressor(sampleRate)
	comp.SetThreshold(-12)
	comp.SetRatio(3)
	comp.SetAttack(0.01)
	comp.SetRelease(0.15)

	ic := &InsertChain{
		DCBlocker:  fdsp.NewDCBlockerAdapter(sampleRate),
		Tape:       newTapeAdapter(sampleRate),
		Diffuser:   newDiffuserAdapter(sampleRate),
		Reverb:     newFreeverbAdapter(sampleRate),
		Delay:      newDelayAdapter(sampleRate),
		Gate:       fdsp.NewGateAdapter(gate),
		Compressor: fdsp.NewCompressorAdapter(comp),
		Limiter:    newLimiterAdapter(sampleRate),
	}

	ic.chain = fdsp.NewChain("insert")
	ic.chain.Add(ic.DCBlocker)
	ic.chain.Add(ic.Tape)
	ic.chain.Add(ic.Diffuser)
	ic.chain.Add(ic.Reverb)
	ic.chain.Add(ic.Delay)
	ic.chain.Add(ic.Gate)
	ic.chain.Add(ic.Compressor)
	ic.chain.Add(ic.Limiter)
	ic.chain.SetBypass(true)
	return ic
}

// SetBypass enables or disables the entire chain.
func (ic *InsertChain) SetBypass(bypass bool) {
	ic.chain.SetBypass(bypass)
}

// Process runs buffer through every non-bypassed stage in order.
func (ic *InsertChain) Process(buffer []float32) {
	ic.chain.Process(buffer)
}

// Reset clears all stage state, used on transport stop or engine reset.
func (ic *InsertChain) Reset() {
	ic.chain.Reset()
}
