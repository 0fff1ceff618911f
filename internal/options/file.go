// Package options parses the engine's INI-style configuration file.
//
// This package is internal and not part of the public API.
package options

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/riselite/storage/internal/checksum"
	"github.com/riselite/storage/internal/compression"
	"github.com/riselite/storage/internal/vfs"
)

// ParsedOptions represents options parsed from a configuration file.
type ParsedOptions struct {
	// [Storage]
	BasePath string

	// [ColumnBuilder]
	TargetBlockSize int
	ChecksumType    checksum.Type
	Compression     compression.Type
}

// ReadOptionsFile reads and parses a configuration file through fs.
func ReadOptionsFile(fs vfs.FS, path string) (*ParsedOptions, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return ParseOptionsFile(file)
}

// ParseOptionsFile parses options from r. Unset keys keep their default.
func ParseOptionsFile(r io.Reader) (*ParsedOptions, error) {
	opts := &ParsedOptions{
		BasePath:        ".",
		TargetBlockSize: 4096,
		ChecksumType:    checksum.Crc32,
		Compression:     compression.None,
	}

	scanner := bufio.NewScanner(r)
	currentSection := ""

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = line[1 : len(line)-1]
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "Storage":
			switch key {
			case "base_path":
				opts.BasePath = value
			}

		case "ColumnBuilder":
			switch key {
			case "target_block_size":
				if n, err := strconv.Atoi(value); err == nil {
					opts.TargetBlockSize = n
				}
			case "checksum_type":
				opts.ChecksumType = StringToChecksumType(value)
			case "compression":
				opts.Compression = StringToCompressionType(value)
			}
		}
	}

	return opts, scanner.Err()
}

// StringToChecksumType converts a string to checksum.Type.
func StringToChecksumType(s string) checksum.Type {
	switch s {
	case "kNoChecksum":
		return checksum.None
	case "kCRC32c":
		return checksum.Crc32
	case "kXXH3":
		return checksum.Xxh3
	default:
		return checksum.Crc32
	}
}

// StringToCompressionType converts a string to compression.Type.
func StringToCompressionType(s string) compression.Type {
	switch s {
	case "kNoCompression":
		return compression.None
	case "kSnappyCompression":
		return compression.Snappy
	case "kLZ4Compression":
		return compression.LZ4
	case "kZSTD":
		return compression.Zstd
	default:
		return compression.None
	}
}
