package rsblock

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/riselite/storage/internal/checksum"
)

// IndexEntrySize is the fixed on-disk size of one block index entry.
const IndexEntrySize = 24

// footerMagic marks the end of a column index's entries region.
const footerMagic = 0x2333

// FooterSize is the fixed on-disk size of a column index's trailing footer.
const FooterSize = 24

// ErrInvalidMagic is returned when a column index footer's magic number
// doesn't match footerMagic.
var ErrInvalidMagic = errors.New("rsblock: invalid magic")

// IndexEntry locates one block within a column's data file.
type IndexEntry struct {
	Offset     uint64
	Length     uint64
	FirstRowID uint32
	RowCount   uint32
}

// EncodeIndexEntry writes e into dst (at least IndexEntrySize bytes),
// big-endian.
func EncodeIndexEntry(e IndexEntry, dst []byte) {
	binary.BigEndian.PutUint64(dst[0:8], e.Offset)
	binary.BigEndian.PutUint64(dst[8:16], e.Length)
	binary.BigEndian.PutUint32(dst[16:20], e.FirstRowID)
	binary.BigEndian.PutUint32(dst[20:24], e.RowCount)
}

// DecodeIndexEntry reads an IndexEntry from the first IndexEntrySize bytes
// of src.
func DecodeIndexEntry(src []byte) IndexEntry {
	return IndexEntry{
		Offset:     binary.BigEndian.Uint64(src[0:8]),
		Length:     binary.BigEndian.Uint64(src[8:16]),
		FirstRowID: binary.BigEndian.Uint32(src[16:20]),
		RowCount:   binary.BigEndian.Uint32(src[20:24]),
	}
}

// IndexBuilder tracks the running byte offset and the in-progress
// (first_rowid, row_count) accumulator while a column is being built.
type IndexBuilder struct {
	offset        uint64
	firstRowID    uint32
	rowCount      uint32
	entries       []IndexEntry
	checksumType  checksum.Type
	compression   uint8
	hasCompressTag bool
}

// NewIndexBuilder constructs an empty IndexBuilder. compressionTag, when
// hasCompressTag is true, is written as a one-byte tag between the header
// and payload of every block (see FinishBlock).
func NewIndexBuilder(checksumType checksum.Type, compressionTag uint8, hasCompressTag bool) *IndexBuilder {
	return &IndexBuilder{checksumType: checksumType, compression: compressionTag, hasCompressTag: hasCompressTag}
}

// AddRows increments the in-progress block's row accumulator.
func (ib *IndexBuilder) AddRows(n uint32) {
	ib.rowCount += n
}

// FinishBlock checksums payload, writes the header (and optional
// compression tag) followed by payload to sink, appends the resulting
// index entry, and resets the per-block accumulator for the next block.
func (ib *IndexBuilder) FinishBlock(blockType Type, sink *[]byte, payload []byte) {
	sum := checksum.Value(ib.checksumType, payload)

	header := make([]byte, HeaderSize)
	EncodeHeader(Header{BlockType: blockType, ChecksumType: ib.checksumType, Checksum: sum}, header)

	written := int64(len(header))
	*sink = append(*sink, header...)
	if ib.hasCompressTag {
		*sink = append(*sink, ib.compression)
		written++
	}
	*sink = append(*sink, payload...)
	written += int64(len(payload))

	ib.entries = append(ib.entries, IndexEntry{
		Offset:     ib.offset,
		Length:     uint64(written),
		FirstRowID: ib.firstRowID,
		RowCount:   ib.rowCount,
	})

	ib.offset += uint64(written)
	ib.firstRowID += ib.rowCount
	ib.rowCount = 0
}

// FinishBlockTagged is like FinishBlock but writes tag (when hasTag is
// true) instead of the builder's configured compression tag, for a single
// block that must fall back to a different representation than the rest
// of the column (e.g. a block an upstream codec declined to compress).
func (ib *IndexBuilder) FinishBlockTagged(blockType Type, sink *[]byte, payload []byte, tag uint8, hasTag bool) {
	savedTag, savedHas := ib.compression, ib.hasCompressTag
	ib.compression, ib.hasCompressTag = tag, hasTag
	ib.FinishBlock(blockType, sink, payload)
	ib.compression, ib.hasCompressTag = savedTag, savedHas
}

// Entries returns the index entries accumulated so far.
func (ib *IndexBuilder) Entries() []IndexEntry {
	return ib.entries
}

// EncodeIndex encodes entries plus the trailing footer (magic, entry
// count, checksum type, checksum over the entries region).
func EncodeIndex(entries []IndexEntry, checksumType checksum.Type) []byte {
	out := make([]byte, 0, len(entries)*IndexEntrySize+FooterSize)
	for _, e := range entries {
		buf := make([]byte, IndexEntrySize)
		EncodeIndexEntry(e, buf)
		out = append(out, buf...)
	}

	entriesRegion := out
	sum := checksum.Value(checksumType, entriesRegion)

	footer := make([]byte, FooterSize)
	binary.BigEndian.PutUint32(footer[0:4], footerMagic)
	binary.BigEndian.PutUint64(footer[4:12], uint64(len(entries)))
	binary.BigEndian.PutUint32(footer[12:16], uint32(checksumType))
	binary.BigEndian.PutUint64(footer[16:24], sum)

	return append(out, footer...)
}

// DecodeIndex validates the footer, verifies the entries region checksum,
// and decodes the entries.
func DecodeIndex(data []byte) ([]IndexEntry, error) {
	if len(data) < FooterSize {
		return nil, fmt.Errorf("rsblock: index too short to contain a footer: %d bytes", len(data))
	}
	footer := data[len(data)-FooterSize:]
	magic := binary.BigEndian.Uint32(footer[0:4])
	if magic != footerMagic {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidMagic, magic)
	}
	count := binary.BigEndian.Uint64(footer[4:12])
	checksumType := checksum.Type(int32(binary.BigEndian.Uint32(footer[12:16])))
	if !checksumType.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChecksumType, checksumType)
	}
	wantSum := binary.BigEndian.Uint64(footer[16:24])

	entriesRegion := data[:len(data)-FooterSize]
	if uint64(len(entriesRegion)) != count*IndexEntrySize {
		return nil, fmt.Errorf("rsblock: index entry count %d does not match region size %d", count, len(entriesRegion))
	}
	if gotSum := checksum.Value(checksumType, entriesRegion); gotSum != wantSum {
		return nil, fmt.Errorf("%w: found %d, expected %d", ErrChecksumMismatch, gotSum, wantSum)
	}

	entries := make([]IndexEntry, count)
	for i := range entries {
		entries[i] = DecodeIndexEntry(entriesRegion[i*IndexEntrySize : (i+1)*IndexEntrySize])
	}
	return entries, nil
}

// BlockOfRow returns the index of the block containing rowID: the largest i
// such that entries[i].FirstRowID <= rowID. rowID must be less than the
// total row count; callers violating this precondition get the last block
// rather than an error (matching source behavior).
func BlockOfRow(entries []IndexEntry, rowID uint32) int {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if entries[mid].FirstRowID <= rowID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1
}
