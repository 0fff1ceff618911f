// Package compression provides optional codecs for column block payloads.
//
// A column builder may ask for a block's fixed-width payload to be
// compressed before it is checksummed and written. The uncompressed size
// is always recoverable from the block's index entry (row_count * width),
// so unlike a general-purpose container format, no length prefix is
// required in the stored bytes.
package compression

import (
	"fmt"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies the compression codec applied to a block payload.
type Type uint8

const (
	// None stores the payload uncompressed.
	None Type = 0
	// Snappy compresses with Google Snappy.
	Snappy Type = 1
	// LZ4 compresses with LZ4 (raw block format).
	LZ4 Type = 2
	// Zstd compresses with Zstandard.
	Zstd Type = 3
)

// String returns a human-readable name for the compression type.
func (t Type) String() string {
	switch t {
	case None:
		return "None"
	case Snappy:
		return "Snappy"
	case LZ4:
		return "LZ4"
	case Zstd:
		return "Zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// IsSupported reports whether t is one of the known compression types.
func (t Type) IsSupported() bool {
	switch t {
	case None, Snappy, LZ4, Zstd:
		return true
	default:
		return false
	}
}

// Compress compresses data using the codec named by t. None returns data
// unchanged.
func Compress(t Type, data []byte) ([]byte, error) {
	switch t {
	case None:
		return data, nil
	case Snappy:
		return snappy.Encode(nil, data), nil
	case LZ4:
		return compressLZ4(data)
	case Zstd:
		return compressZstd(data)
	default:
		return nil, fmt.Errorf("compression: unsupported type %s", t)
	}
}

// Decompress decompresses data using the codec named by t. uncompressedSize
// is the exact size of the original payload (known from the block's index
// entry) and is required for LZ4, whose raw block format carries no size
// of its own.
func Decompress(t Type, data []byte, uncompressedSize int) ([]byte, error) {
	switch t {
	case None:
		return data, nil
	case Snappy:
		return snappy.Decode(nil, data)
	case LZ4:
		return decompressLZ4(data, uncompressedSize)
	case Zstd:
		return decompressZstd(data)
	default:
		return nil, fmt.Errorf("compression: unsupported type %s", t)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	var ht [1 << 16]int
	n, err := lz4.CompressBlock(data, dst, ht[:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compress block: %w", err)
	}
	if n == 0 {
		// Incompressible input; lz4.CompressBlock signals this by writing
		// nothing. Callers should fall back to storing the block
		// uncompressed rather than trust this result.
		return nil, nil
	}
	return dst[:n], nil
}

func decompressLZ4(data []byte, uncompressedSize int) ([]byte, error) {
	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 uncompress block: %w", err)
	}
	return dst[:n], nil
}

func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
