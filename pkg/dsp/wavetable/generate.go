package wavetable

import (
	"math"

	"github.com/nverant/wavecore/pkg/dsp/fixedpoint"
)

// Kind selects the classic waveform baked into a generated bank frame.
// Wavetable playback itself never dispatches on Kind — only setup-time
// generation does, matching the "no virtual dispatch on the audio thread"
// design note; Kind is unused once a Frame's tables are populated.
type Kind int

const (
	Sine Kind = iota
	Saw
	Square
	Triangle
)

// maxHarmonicsForMip returns the highest harmonic number retained at mip
// level k. A fixedpoint.TableSize-sample table can represent at most
// TableSize/2 harmonics before aliasing; each successive mip level halves
// that budget, giving each level half the usable bandwidth of the one
// before it, per the wavetable frame invariant.
func maxHarmonicsForMip(k int) int {
	max := fixedpoint.TableSize / 2
	for i := 0; i < k; i++ {
		max /= 2
	}
	if max < 1 {
		max = 1
	}
	return max
}

// generateFrame renders every mip level of one frame for the given kind.
// morph is the frame's position in [0,1] across a multi-frame bank; it is
// passed to renderMip, which does not use it, so every frame of a bank
// generated from one kind is identical.
func generateFrame(kind Kind, morph float32) Frame {
	var f Frame
	for k := 0; k < MaxMipLevels; k++ {
		f.Mips[k] = make([]float32, fixedpoint.TableSize)
		renderMip(f.Mips[k], kind, maxHarmonicsForMip(k), morph)
	}
	return f
}

// renderMip additively synthesizes one band-limited cycle into table, using
// at most maxHarmonic harmonics. This generalizes the closed-form
// band-limited-impulse-train technique used by the donor's BLIT-based
// BandLimitedSaw oscillator to an explicit per-mip harmonic budget, since
// mip level (not playback frequency) determines the cutoff here.
func renderMip(table []float32, kind Kind, maxHarmonic int, morph float32) {
	n := len(table)
	switch kind {
	case Sine:
		for i := 0; i < n; i++ {
			phase := 2 * math.Pi * float64(i) / float64(n)
			table[i] = float32(math.Sin(phase))
		}
	case Saw:
		for h := 1; h <= maxHarmonic; h++ {
			amp := 1.0 / float64(h)
			addHarmonic(table, h, amp, 0)
		}
		normalize(table)
	case Square:
		for h := 1; h <= maxHarmonic; h += 2 {
			amp := 1.0 / float64(h)
			addHarmonic(table, h, amp, 0)
		}
		normalize(table)
	case Triangle:
		sign := 1.0
		for h := 1; h <= maxHarmonic; h += 2 {
			amp := sign / float64(h*h)
			addHarmonic(table, h, amp, 0)
			sign = -sign
		}
		normalize(table)
	default:
		for i := range table {
			table[i] = 0
		}
	}
}

func addHarmonic(table []float32, harmonic int, amp, phaseOffset float64) {
	n := len(table)
	for i := 0; i < n; i++ {
		phase := 2*math.Pi*float64(harmonic)*float64(i)/float64(n) + phaseOffset
		table[i] += float32(amp * math.Sin(phase))
	}
}

// normalize scales table so its peak magnitude is 1, keeping every mip
// level within [-1,1] regardless of how many harmonics were summed.
func normalize(table []float32) {
	peak := float32(0)
	for _, v := range table {
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	if peak < 1e-9 {
		return
	}
	inv := 1.0 / peak
	for i := range table {
		table[i] *= inv
	}
}
