package rsblock

import "github.com/riselite/storage/internal/primitive"

// Builder accumulates fixed-width values of type T into a block payload,
// closing the block once the configured byte budget would be exceeded.
type Builder[T any] struct {
	codec      primitive.Codec[T]
	targetSize int
	buf        []byte
}

// NewBuilder constructs a Builder with a payload byte budget of targetSize
// (excluding the 16-byte header).
func NewBuilder[T any](codec primitive.Codec[T], targetSize int) *Builder[T] {
	return &Builder[T]{codec: codec, targetSize: targetSize}
}

// EstimatedSize returns the number of payload bytes accumulated so far.
func (b *Builder[T]) EstimatedSize() int {
	return len(b.buf)
}

// ShouldFinish reports whether appending one more value would exceed the
// byte budget. It is peeked before the append that would overflow, so the
// caller can close the current block first. A block always holds at least
// one value: an empty builder never reports true.
func (b *Builder[T]) ShouldFinish() bool {
	return len(b.buf) > 0 && len(b.buf)+b.codec.Width() > b.targetSize
}

// Append encodes v into the block payload.
func (b *Builder[T]) Append(v T) {
	width := b.codec.Width()
	n := len(b.buf)
	b.buf = append(b.buf, make([]byte, width)...)
	b.codec.Encode(v, b.buf[n:n+width])
}

// Finish surrenders the accumulated payload. The builder must not be reused
// afterward.
func (b *Builder[T]) Finish() []byte {
	return b.buf
}
