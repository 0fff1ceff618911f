// Package column implements the per-column builder, on-disk reader, and
// iterator: a column is a sequence of rsblock blocks plus a column index,
// stored as a sibling <id>.col/<id>.idx pair.
package column

import (
	"github.com/riselite/storage/internal/checksum"
	"github.com/riselite/storage/internal/compression"
)

// BlockHeaderSize mirrors rsblock.HeaderSize; duplicated as a named
// constant here since it governs the payload budget computation in §4.5.
const BlockHeaderSize = 16

// Options configures how a column builder lays out blocks.
type Options struct {
	// TargetBlockSize is the total per-block budget in bytes, including
	// the 16-byte header. The block builder's payload budget is
	// TargetBlockSize - BlockHeaderSize.
	TargetBlockSize int
	ChecksumType    checksum.Type
	Compression     compression.Type
}

// DefaultOptions returns the engine's default column builder configuration.
func DefaultOptions() Options {
	return Options{
		TargetBlockSize: 4096,
		ChecksumType:    checksum.Crc32,
		Compression:     compression.None,
	}
}
