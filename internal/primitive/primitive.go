// Package primitive provides the fixed-width little-endian codec for the
// three on-disk primitive types: Int32, Float64, Bool. No framing; a
// value's position and count are always supplied by the caller (the
// enclosing block and its index entry).
package primitive

import (
	"math"

	"github.com/riselite/storage/internal/encoding"
)

// Codec encodes and decodes a single fixed-width value of type T.
type Codec[T any] interface {
	// Width returns the on-disk size in bytes of one value.
	Width() int
	// Encode writes v into dst, which must have at least Width() bytes.
	Encode(v T, dst []byte)
	// Decode reads a value from src, which must have at least Width() bytes.
	Decode(src []byte) T
}

// Int32Codec encodes int32 values as 4-byte little-endian integers.
type Int32Codec struct{}

func (Int32Codec) Width() int { return 4 }

func (Int32Codec) Encode(v int32, dst []byte) {
	encoding.EncodeFixed32(dst, uint32(v))
}

func (Int32Codec) Decode(src []byte) int32 {
	return int32(encoding.DecodeFixed32(src))
}

// Float64Codec encodes float64 values as 8-byte little-endian IEEE-754 bits.
type Float64Codec struct{}

func (Float64Codec) Width() int { return 8 }

func (Float64Codec) Encode(v float64, dst []byte) {
	encoding.EncodeFixed64(dst, math.Float64bits(v))
}

func (Float64Codec) Decode(src []byte) float64 {
	return math.Float64frombits(encoding.DecodeFixed64(src))
}

// BoolCodec encodes bool values as a single byte (0 or 1).
type BoolCodec struct{}

func (BoolCodec) Width() int { return 1 }

func (BoolCodec) Encode(v bool, dst []byte) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}

func (BoolCodec) Decode(src []byte) bool {
	return src[0] != 0
}
