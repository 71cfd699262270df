package binutil

import (
	"errors"
	"testing"
)

func TestReaderBasics(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0xBB, 0xCC, 0xDD}
	r := NewReader(data)

	u8, err := r.U8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("U8 = %v, %v", u8, err)
	}
	u16, err := r.U16LE()
	if err != nil || u16 != 0x0302 {
		t.Fatalf("U16LE = %#x, %v", u16, err)
	}
	u32, err := r.U32LE()
	if err != nil || u32 != 0xDDCCBB04 {
		t.Fatalf("U32LE = %#x, %v", u32, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", r.Remaining())
	}
}

func TestReaderOverreadReturnsOffsetOutOfRange(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	_, err := r.U32LE()
	if err == nil {
		t.Fatal("expected error on over-read")
	}
	var be *Error
	if !errors.As(err, &be) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if be.Kind != KindOffsetOutOfRange {
		t.Fatalf("expected KindOffsetOutOfRange, got %v", be.Kind)
	}
	if be.Needed != 4 || be.Available != 2 {
		t.Fatalf("expected needed=4 available=2, got needed=%d available=%d", be.Needed, be.Available)
	}
}

func TestReaderU24BE(t *testing.T) {
	r := NewReader([]byte{0x12, 0x34, 0x56})
	v, err := r.U24BE()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x123456 {
		t.Fatalf("expected 0x123456, got %#x", v)
	}
}

func TestReaderBytesAtDoesNotMoveCursor(t *testing.T) {
	r := NewReader([]byte{0, 1, 2, 3, 4, 5})
	r.Seek(2)
	b, err := r.BytesAt(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if b[0] != 4 || b[1] != 5 {
		t.Fatalf("unexpected bytes: %v", b)
	}
	if r.Pos() != 2 {
		t.Fatalf("BytesAt must not move cursor, got pos=%d", r.Pos())
	}
}

func TestReaderNeverPanics(t *testing.T) {
	r := NewReader(nil)
	if _, err := r.U8(); err == nil {
		t.Fatal("expected error reading from empty buffer")
	}
	if _, err := r.Bytes(10); err == nil {
		t.Fatal("expected error")
	}
}
