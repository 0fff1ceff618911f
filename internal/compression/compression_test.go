package compression

import (
	"bytes"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh01234567"), 256)

	for _, typ := range []Type{None, Snappy, LZ4, Zstd} {
		t.Run(typ.String(), func(t *testing.T) {
			compressed, err := Compress(typ, payload)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if compressed == nil {
				t.Fatalf("Compress returned nil for highly compressible input")
			}
			got, err := Decompress(typ, compressed, len(payload))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(payload))
			}
		})
	}
}

func TestCompressUnsupportedType(t *testing.T) {
	if _, err := Compress(Type(200), []byte("x")); err == nil {
		t.Fatal("expected error for unsupported compression type")
	}
	if _, err := Decompress(Type(200), []byte("x"), 1); err == nil {
		t.Fatal("expected error for unsupported compression type")
	}
}

func TestLZ4IncompressibleFallsBackToNil(t *testing.T) {
	// Random-looking short input; lz4 may refuse to compress it (n == 0).
	// compressLZ4 must report this as (nil, nil) rather than returning the
	// raw bytes mislabeled as LZ4 payload.
	tiny := []byte{0x01}
	out, err := compressLZ4(tiny)
	if err != nil {
		t.Fatalf("compressLZ4: %v", err)
	}
	if out != nil && len(out) == 0 {
		t.Fatal("compressLZ4 should return nil, not an empty non-nil slice, on refusal")
	}
}

func TestTypeString(t *testing.T) {
	cases := map[Type]string{
		None:      "None",
		Snappy:    "Snappy",
		LZ4:       "LZ4",
		Zstd:      "Zstd",
		Type(250): "Unknown(250)",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("Type(%d).String() = %q, want %q", typ, got, want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	for _, typ := range []Type{None, Snappy, LZ4, Zstd} {
		if !typ.IsSupported() {
			t.Errorf("%s should be supported", typ)
		}
	}
	if Type(250).IsSupported() {
		t.Fatal("unknown type should not be supported")
	}
}
