package oto

import (
	"encoding/binary"
	"math"
)

// writeFloats encodes float32 samples as little-endian bytes into dst, which
// must hold at least 4 bytes per sample. It does not allocate.
func writeFloats(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
