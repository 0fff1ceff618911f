// Package rsblock implements the on-disk block format: a fixed 16-byte
// header (block type, checksum type, checksum) followed by a payload of
// fixed-width primitive values, plus the block builder and block iterator
// that produce and consume that payload, and the column index entries and
// footer that locate blocks within a column file.
package rsblock

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/riselite/storage/internal/checksum"
)

// HeaderSize is the fixed byte length of a block header.
const HeaderSize = 16

// Sentinel errors surfaced by header and payload decoding. Wrapped with a
// formatted cause via fmt.Errorf("...: %w", ...); callers should compare
// with errors.Is rather than the formatted message.
var (
	// ErrShortHeader is returned when fewer than HeaderSize bytes are
	// available to decode a block header.
	ErrShortHeader = errors.New("rsblock: expected 16 bytes")
	// ErrInvalidBlockType is returned when a header's block type tag is
	// not one of the known variants.
	ErrInvalidBlockType = errors.New("rsblock: invalid block type")
	// ErrInvalidChecksumType is returned when a header's or index
	// footer's checksum type tag is not one of the known variants.
	ErrInvalidChecksumType = errors.New("rsblock: invalid checksum type")
	// ErrChecksumMismatch is returned when a verified region's computed
	// checksum doesn't match the stored value.
	ErrChecksumMismatch = errors.New("rsblock: checksum mismatch")
)

// Type identifies the shape of a block's payload.
type Type int32

const (
	// PrimitiveNonNull is a block of N fixed-width values with no validity
	// bitmap; N is derived from the owning index entry's row count.
	PrimitiveNonNull Type = 1
)

// IsValid reports whether t is a known block type.
func (t Type) IsValid() bool {
	return t == PrimitiveNonNull
}

// Header is the fixed-size prefix of every on-disk block.
type Header struct {
	BlockType    Type
	ChecksumType checksum.Type
	Checksum     uint64
}

// EncodeHeader writes h into dst, which must have at least HeaderSize bytes.
// Header fields are big-endian; only the payload itself is little-endian.
func EncodeHeader(h Header, dst []byte) {
	binary.BigEndian.PutUint32(dst[0:4], uint32(h.BlockType))
	binary.BigEndian.PutUint32(dst[4:8], uint32(h.ChecksumType))
	binary.BigEndian.PutUint64(dst[8:16], h.Checksum)
}

// DecodeHeader parses a header from the first HeaderSize bytes of src.
func DecodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, fmt.Errorf("%w, got %d", ErrShortHeader, len(src))
	}
	blockType := Type(binary.BigEndian.Uint32(src[0:4]))
	if !blockType.IsValid() {
		return Header{}, fmt.Errorf("%w: %d", ErrInvalidBlockType, blockType)
	}
	checksumType := checksum.Type(binary.BigEndian.Uint32(src[4:8]))
	if !checksumType.IsValid() {
		return Header{}, fmt.Errorf("%w: %d", ErrInvalidChecksumType, checksumType)
	}
	return Header{
		BlockType:    blockType,
		ChecksumType: checksumType,
		Checksum:     binary.BigEndian.Uint64(src[8:16]),
	}, nil
}
