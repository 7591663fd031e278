package wavetable

import (
	"math"
	"testing"
)

func TestGenerateFrameNormalizedToUnity(t *testing.T) {
	for _, k := range []Kind{Sine, Saw, Square, Triangle} {
		f := generateFrame(k, 0)
		for level, table := range f.Mips {
			peak := float32(0)
			for _, v := range table {
				if a := float32(math.Abs(float64(v))); a > peak {
					peak = a
				}
			}
			if peak > 1.0001 {
				t.Fatalf("kind %v mip %d peak = %v, want <= 1", k, level, peak)
			}
			if peak < 0.5 {
				t.Fatalf("kind %v mip %d peak = %v, want a substantial signal", k, level, peak)
			}
		}
	}
}

func TestHigherMipLevelsAreSmoother(t *testing.T) {
	f := generateFrame(Saw, 0)
	// A more band-limited (higher-index) mip has fewer sign changes in its
	// derivative than the full-band mip 0 copy of the same sawtooth.
	countSignChanges := func(table []float32) int {
		count := 0
		for i := 1; i < len(table); i++ {
			d0 := table[i] - table[i-1]
			d1 := table[(i+1)%len(table)] - table[i]
			if (d0 > 0) != (d1 > 0) {
				count++
			}
		}
		return count
	}
	full := countSignChanges(f.Mips[0])
	limited := countSignChanges(f.Mips[MaxMipLevels-1])
	if limited > full {
		t.Fatalf("most band-limited mip has more sign changes (%d) than full-band mip (%d)", limited, full)
	}
}

func TestMaxHarmonicsForMipHalvesEachLevel(t *testing.T) {
	prev := maxHarmonicsForMip(0)
	for k := 1; k < MaxMipLevels; k++ {
		cur := maxHarmonicsForMip(k)
		if cur > prev {
			t.Fatalf("mip %d harmonics %d exceeds mip %d harmonics %d", k, cur, k-1, prev)
		}
		prev = cur
	}
	if maxHarmonicsForMip(MaxMipLevels-1) < 1 {
		t.Fatal("harmonic budget must never drop below 1")
	}
}
