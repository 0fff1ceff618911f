package options

import (
	"strings"
	"testing"

	"github.com/riselite/storage/internal/checksum"
	"github.com/riselite/storage/internal/compression"
)

func TestParseOptionsFileDefaults(t *testing.T) {
	opts, err := ParseOptionsFile(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseOptionsFile: %v", err)
	}
	if opts.BasePath != "." {
		t.Errorf("BasePath = %q, want \".\"", opts.BasePath)
	}
	if opts.TargetBlockSize != 4096 {
		t.Errorf("TargetBlockSize = %d, want 4096", opts.TargetBlockSize)
	}
	if opts.ChecksumType != checksum.Crc32 {
		t.Errorf("ChecksumType = %v, want Crc32", opts.ChecksumType)
	}
	if opts.Compression != compression.None {
		t.Errorf("Compression = %v, want None", opts.Compression)
	}
}

func TestParseOptionsFileOverrides(t *testing.T) {
	const content = `
# comment lines and blanks are ignored

[Storage]
base_path=/var/lib/riselite

[ColumnBuilder]
target_block_size=65536
checksum_type=kXXH3
compression=kZSTD
`
	opts, err := ParseOptionsFile(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseOptionsFile: %v", err)
	}
	if opts.BasePath != "/var/lib/riselite" {
		t.Errorf("BasePath = %q, want /var/lib/riselite", opts.BasePath)
	}
	if opts.TargetBlockSize != 65536 {
		t.Errorf("TargetBlockSize = %d, want 65536", opts.TargetBlockSize)
	}
	if opts.ChecksumType != checksum.Xxh3 {
		t.Errorf("ChecksumType = %v, want Xxh3", opts.ChecksumType)
	}
	if opts.Compression != compression.Zstd {
		t.Errorf("Compression = %v, want Zstd", opts.Compression)
	}
}

func TestParseOptionsFileIgnoresUnknownSection(t *testing.T) {
	const content = `
[Unrelated]
target_block_size=1
`
	opts, err := ParseOptionsFile(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseOptionsFile: %v", err)
	}
	if opts.TargetBlockSize != 4096 {
		t.Errorf("TargetBlockSize = %d, want default 4096 when section is unknown", opts.TargetBlockSize)
	}
}

func TestStringToChecksumTypeUnknownDefaultsToCrc32(t *testing.T) {
	if got := StringToChecksumType("garbage"); got != checksum.Crc32 {
		t.Errorf("StringToChecksumType(garbage) = %v, want Crc32", got)
	}
}

func TestStringToCompressionTypeUnknownDefaultsToNone(t *testing.T) {
	if got := StringToCompressionType("garbage"); got != compression.None {
		t.Errorf("StringToCompressionType(garbage) = %v, want None", got)
	}
}
