package vgm

import (
	"bytes"
	"testing"

	"github.com/intuitionamiga/soundlog/binutil"
)

// TestReservedOpcodeRoundTrips checks that an opcode this codec does not
// interpret is preserved byte-for-byte rather than rejected.
func TestReservedOpcodeRoundTrips(t *testing.T) {
	raw := []byte{0x42, 0xAA, 0xBB} // 0x42 falls in the 2-byte reserved range
	r := binutil.NewReader(raw)
	var blocks []*DataBlock
	cmd, err := parseCommand(r, 0, &blocks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Kind != KindReserved || len(cmd.Reserved) != 2 {
		t.Fatalf("expected a 2-byte reserved command, got %+v", cmd)
	}

	w := binutil.NewWriter(8)
	if err := cmd.serialize(w, nil); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(w.Bytes(), raw) {
		t.Fatalf("got %v, want %v", w.Bytes(), raw)
	}
}

// TestPCMRamWriteRoundTrips exercises the fixed 11-byte 0x68 layout.
func TestPCMRamWriteRoundTrips(t *testing.T) {
	raw := []byte{0x68, 0x66, 0x07, 0x01, 0x00, 0x00, 0x02, 0x00, 0x00, 0x10, 0x00, 0x00}
	r := binutil.NewReader(raw)
	var blocks []*DataBlock
	cmd, err := parseCommand(r, 0, &blocks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Kind != KindPCMRamWrite || cmd.PCMRAM.ChipType != 0x07 {
		t.Fatalf("unexpected decode: %+v", cmd)
	}
	if cmd.PCMRAM.ReadOffset != 1 || cmd.PCMRAM.WriteOffset != 2 || cmd.PCMRAM.Size != 0x10 {
		t.Fatalf("unexpected offsets: %+v", cmd.PCMRAM)
	}

	w := binutil.NewWriter(16)
	if err := cmd.serialize(w, nil); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(w.Bytes(), raw) {
		t.Fatalf("got %v, want %v", w.Bytes(), raw)
	}
}

// TestChipWriteInstanceBit checks the secondary-instance high bit on a
// register+value chip write.
func TestChipWriteInstanceBit(t *testing.T) {
	raw := []byte{0x51, 0x80 | 0x10, 0x7F} // YM2413, secondary instance, reg 0x10, val 0x7F
	r := binutil.NewReader(raw)
	var blocks []*DataBlock
	cmd, err := parseCommand(r, 0, &blocks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Register != 0x10 || cmd.Value != 0x7F {
		t.Fatalf("unexpected register/value: %+v", cmd)
	}
	if cmd.Instance.String() != "secondary" {
		t.Fatalf("expected secondary instance, got %v", cmd.Instance)
	}

	w := binutil.NewWriter(8)
	if err := cmd.serialize(w, nil); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(w.Bytes(), raw) {
		t.Fatalf("got %v, want %v", w.Bytes(), raw)
	}
}
