// Package checksum provides the checksum algorithms used to verify block
// payloads and column-index footers: CRC32C (Castagnoli) and XXH3.
package checksum

import (
	"hash/crc32"
)

// crc32cTable is the Castagnoli polynomial table used for CRC32C.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// maskDelta is added during masking so a buffer that happens to embed its
// own CRC (e.g. a row set copied into a backup or log) doesn't produce a
// checksum of itself.
const maskDelta = 0xa282ead8

// CRC32Value computes the raw (unmasked) CRC32C checksum of data.
func CRC32Value(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// Mask returns a masked representation of crc, rotated right 15 bits plus a
// constant offset.
func Mask(crc uint32) uint32 {
	return ((crc >> 15) | (crc << 17)) + maskDelta
}

// Unmask returns the crc whose masked representation is maskedCRC.
func Unmask(maskedCRC uint32) uint32 {
	rot := maskedCRC - maskDelta
	return (rot >> 17) | (rot << 15)
}

// MaskedValue computes the CRC32C and masks it in one call.
func MaskedValue(data []byte) uint32 {
	return Mask(CRC32Value(data))
}
