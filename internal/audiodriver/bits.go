package audiodriver

import "math"

// float32bitsLE reinterprets a float32 sample as its raw IEEE-754 bit
// pattern for little-endian byte packing.
func float32bitsLE(f float32) uint32 {
	return math.Float32bits(f)
}
