package embedding

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrInvalidEncoding is returned by Decode for input that is not a whole number of float32s.
var ErrInvalidEncoding = errors.New("invalid vector encoding")

// Encode packs v as little-endian float32s.
func Encode(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Decode is the inverse of Encode. Empty input decodes to nil.
func Decode(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, ErrInvalidEncoding
	}
	if len(data) == 0 {
		return nil, nil
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
