package column

import (
	"github.com/riselite/storage/internal/compression"
	"github.com/riselite/storage/internal/primitive"
	"github.com/riselite/storage/internal/rsblock"
)

// Builder accumulates values of one primitive type, chunking them across
// one or more blocks and recording a block index entry per flushed block.
// It holds at most one in-flight block builder at a time; values appended
// across multiple calls to Append continue filling that same in-flight
// block until it closes.
type Builder[T any] struct {
	codec primitive.Codec[T]
	opts  Options
	cur   *rsblock.Builder[T]
	index *rsblock.IndexBuilder
	data  []byte
}

// NewBuilder constructs a Builder for one column using codec to encode
// values of type T and opts to configure block size, checksum, and
// compression.
func NewBuilder[T any](codec primitive.Codec[T], opts Options) *Builder[T] {
	tag := uint8(opts.Compression)
	hasTag := opts.Compression != compression.None
	return &Builder[T]{
		codec: codec,
		opts:  opts,
		index: rsblock.NewIndexBuilder(opts.ChecksumType, tag, hasTag),
	}
}

// payloadBudget is the per-block byte budget excluding the 16-byte header.
func (b *Builder[T]) payloadBudget() int {
	return b.opts.TargetBlockSize - BlockHeaderSize
}

// Append chunks values across the column's blocks, allocating a new block
// builder whenever none is in flight and closing the current one whenever
// its byte budget would be exceeded by the next value.
func (b *Builder[T]) Append(values []T) {
	i := 0
	for i < len(values) {
		if b.cur == nil {
			b.cur = rsblock.NewBuilder[T](b.codec, b.payloadBudget())
		}
		appended := uint32(0)
		for i < len(values) && !b.cur.ShouldFinish() {
			b.cur.Append(values[i])
			appended++
			i++
		}
		if appended > 0 {
			b.index.AddRows(appended)
		}
		if b.cur.ShouldFinish() {
			b.flushCurrent()
		}
	}
}

// flushCurrent checksums and writes the in-flight block, compressing its
// payload first when the column's options ask for it. A codec that
// declines to compress (an error, or LZ4 signaling the input wouldn't
// shrink) falls back to storing that single block uncompressed, tagged
// accordingly, rather than failing the whole column build.
func (b *Builder[T]) flushCurrent() {
	raw := b.cur.Finish()
	b.cur = nil

	if b.opts.Compression == compression.None {
		b.index.FinishBlock(rsblock.PrimitiveNonNull, &b.data, raw)
		return
	}

	compressed, err := compression.Compress(b.opts.Compression, raw)
	if err != nil || compressed == nil {
		b.index.FinishBlockTagged(rsblock.PrimitiveNonNull, &b.data, raw, uint8(compression.None), true)
		return
	}
	b.index.FinishBlock(rsblock.PrimitiveNonNull, &b.data, compressed)
}

// Finish flushes any in-flight block (even a short trailing one) and
// returns the accumulated block index plus the encoded column bytes. The
// builder must not be reused afterward.
func (b *Builder[T]) Finish() ([]rsblock.IndexEntry, []byte) {
	if b.cur != nil {
		b.flushCurrent()
	}
	return b.index.Entries(), b.data
}
