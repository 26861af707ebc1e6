package capture

import (
	"encoding/binary"
	"math"
)

// The converters take a raw interleaved buffer and produce one mono
// sample per frame by selecting the first channel only. Trailing bytes
// that do not fill a whole frame are dropped.

func monoF32(data []byte, channels uint32) []int16 {
	frameBytes := 4 * int(channels)
	n := len(data) / frameBytes
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		sample := math.Float32frombits(binary.LittleEndian.Uint32(data[i*frameBytes:]))
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		// Asymmetric scaling matches the two's-complement range:
		// -1.0 -> -32768, +1.0 -> 32767.
		if sample < 0 {
			out[i] = int16(sample * 32768.0)
		} else {
			out[i] = int16(sample * 32767.0)
		}
	}
	return out
}

func monoS16(data []byte, channels uint32) []int16 {
	frameBytes := 2 * int(channels)
	n := len(data) / frameBytes
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*frameBytes:]))
	}
	return out
}

func monoU16(data []byte, channels uint32) []int16 {
	frameBytes := 2 * int(channels)
	n := len(data) / frameBytes
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		u := binary.LittleEndian.Uint16(data[i*frameBytes:])
		out[i] = int16(int32(u) - 32768)
	}
	return out
}

// converterFor selects the converter matching a resolved format.
func converterFor(format SampleFormat) (func([]byte, uint32) []int16, bool) {
	switch format {
	case FormatF32:
		return monoF32, true
	case FormatS16:
		return monoS16, true
	case FormatU16:
		return monoU16, true
	default:
		return nil, false
	}
}
