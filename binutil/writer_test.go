package binutil

import "testing"

func TestWriterRoundTripsReader(t *testing.T) {
	w := NewWriter(0)
	w.U8(0x01)
	w.U16LE(0x0302)
	w.U32LE(0xDDCCBB04)
	w.U24BE(0x123456)

	r := NewReader(w.Bytes())
	if v, _ := r.U8(); v != 0x01 {
		t.Fatalf("U8 = %#x", v)
	}
	if v, _ := r.U16LE(); v != 0x0302 {
		t.Fatalf("U16LE = %#x", v)
	}
	if v, _ := r.U32LE(); v != 0xDDCCBB04 {
		t.Fatalf("U32LE = %#x", v)
	}
	if v, _ := r.U24BE(); v != 0x123456 {
		t.Fatalf("U24BE = %#x", v)
	}
}

func TestWriterPutU32LEAtBackpatches(t *testing.T) {
	w := NewWriter(0)
	w.U32LE(0)
	w.Write([]byte{1, 2, 3})
	w.PutU32LEAt(0, 0xAABBCCDD)

	r := NewReader(w.Bytes())
	v, _ := r.U32LE()
	if v != 0xAABBCCDD {
		t.Fatalf("expected backpatched value, got %#x", v)
	}
}

func TestWriterPadTo(t *testing.T) {
	w := NewWriter(0)
	w.U8(1)
	w.PadTo(4)
	if w.Len() != 4 {
		t.Fatalf("expected len 4, got %d", w.Len())
	}
	if w.Bytes()[3] != 0 {
		t.Fatalf("expected zero padding")
	}
}
