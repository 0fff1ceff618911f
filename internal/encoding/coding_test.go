package encoding

import "testing"

func TestFixedRoundTrip(t *testing.T) {
	buf16 := make([]byte, 2)
	EncodeFixed16(buf16, 0xbeef)
	if got := DecodeFixed16(buf16); got != 0xbeef {
		t.Errorf("DecodeFixed16 = %#x, want 0xbeef", got)
	}

	buf32 := make([]byte, 4)
	EncodeFixed32(buf32, 0xdeadbeef)
	if got := DecodeFixed32(buf32); got != 0xdeadbeef {
		t.Errorf("DecodeFixed32 = %#x, want 0xdeadbeef", got)
	}

	buf64 := make([]byte, 8)
	EncodeFixed64(buf64, 0x0102030405060708)
	if got := DecodeFixed64(buf64); got != 0x0102030405060708 {
		t.Errorf("DecodeFixed64 = %#x, want 0x0102030405060708", got)
	}
}

func TestFixed32LittleEndianByteOrder(t *testing.T) {
	buf := make([]byte, 4)
	EncodeFixed32(buf, 1)
	want := []byte{1, 0, 0, 0}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("EncodeFixed32(1) = %v, want %v", buf, want)
		}
	}
}

func TestAppendFixed(t *testing.T) {
	var buf []byte
	buf = AppendFixed32(buf, 7)
	buf = AppendFixed64(buf, 9)
	if len(buf) != 12 {
		t.Fatalf("len(buf) = %d, want 12", len(buf))
	}
	if DecodeFixed32(buf[:4]) != 7 {
		t.Errorf("first field decoded wrong")
	}
	if DecodeFixed64(buf[4:]) != 9 {
		t.Errorf("second field decoded wrong")
	}
}

func TestSliceSequentialReads(t *testing.T) {
	var raw []byte
	raw = AppendFixed32(raw, 100)
	raw = AppendFixed64(raw, 200)
	raw = append(raw, []byte("tail")...)

	s := NewSlice(raw)
	if s.Remaining() != len(raw) {
		t.Fatalf("Remaining = %d, want %d", s.Remaining(), len(raw))
	}

	v32, ok := s.GetFixed32()
	if !ok || v32 != 100 {
		t.Fatalf("GetFixed32 = (%d, %v), want (100, true)", v32, ok)
	}
	v64, ok := s.GetFixed64()
	if !ok || v64 != 200 {
		t.Fatalf("GetFixed64 = (%d, %v), want (200, true)", v64, ok)
	}
	tail, ok := s.GetBytes(4)
	if !ok || string(tail) != "tail" {
		t.Fatalf("GetBytes(4) = (%q, %v), want (\"tail\", true)", tail, ok)
	}
	if s.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", s.Remaining())
	}
}

func TestSliceShortReadReturnsFalse(t *testing.T) {
	s := NewSlice([]byte{1, 2, 3})
	if _, ok := s.GetFixed32(); ok {
		t.Fatal("GetFixed32 on a 3-byte slice should fail")
	}
	if _, ok := s.GetFixed64(); ok {
		t.Fatal("GetFixed64 on a 3-byte slice should fail")
	}
	if _, ok := s.GetBytes(10); ok {
		t.Fatal("GetBytes(10) on a 3-byte slice should fail")
	}
}

func TestSliceAdvanceAndData(t *testing.T) {
	s := NewSlice([]byte("0123456789"))
	s.Advance(3)
	if string(s.Data()) != "3456789" {
		t.Fatalf("Data() after Advance(3) = %q", s.Data())
	}
}
