package vgm

import (
	"bytes"
	"testing"
)

// TestBitPackedCopyDecompress is S5: [0x12, 0x34] at 4 bits compressed / 8
// bits decompressed, Copy sub-type, add=0, decompresses to the four nibbles
// widened to bytes: [0x01, 0x02, 0x03, 0x04].
func TestBitPackedCopyDecompress(t *testing.T) {
	db := &DataBlock{
		Kind:             DataBlockCompressed,
		CompressionType:  0,
		UncompressedSize: 4,
		BitsDecompressed: 8,
		BitsCompressed:   4,
		SubType:          SubTypeCopy,
		AddOrStart:       0,
		Bitstream:        []byte{0x12, 0x34},
	}
	out, err := db.Decompress(nil)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

// TestDecompressRecompressCopyRoundTrips is P8's Copy-sub-type half: a
// Copy/zero-add stream decompressed then re-packed yields the original
// bitstream bytes.
func TestDecompressRecompressCopyRoundTrips(t *testing.T) {
	original := []byte{0x12, 0x34}
	db := &DataBlock{
		Kind: DataBlockCompressed, UncompressedSize: 4,
		BitsDecompressed: 8, BitsCompressed: 4, SubType: SubTypeCopy,
		Bitstream: original,
	}
	decoded, err := db.Decompress(nil)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	recompressed := CompressCopy(decoded, db.BitsDecompressed, db.BitsCompressed)
	if !bytes.Equal(recompressed, original) {
		t.Fatalf("recompressed %v, want %v", recompressed, original)
	}
}

// TestDPCMWithZeroDeltaTableHoldsStartValue is P8's DPCM half: a delta
// table of {0} decompresses to a run of the start value.
func TestDPCMWithZeroDeltaTableHoldsStartValue(t *testing.T) {
	table := &DataBlock{Kind: DataBlockDecompressionTable, TableValues: []uint16{0}}
	db := &DataBlock{
		Kind: DataBlockCompressed, UncompressedSize: 3,
		BitsDecompressed: 8, BitsCompressed: 1, SubType: SubTypeDPCM,
		AddOrStart: 5,
		Bitstream:  []byte{0x00}, // three 1-bit zero indices, MSB-first
	}
	out, err := db.Decompress(table)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	want := []byte{5, 5, 5}
	if !bytes.Equal(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

// TestTableSubTypeRequiresTable checks the documented failure mode: a
// Table sub-type stream with no table supplied fails deterministically.
func TestTableSubTypeRequiresTable(t *testing.T) {
	db := &DataBlock{
		Kind: DataBlockCompressed, UncompressedSize: 1,
		BitsDecompressed: 8, BitsCompressed: 2, SubType: SubTypeTable,
		Bitstream: []byte{0x00},
	}
	if _, err := db.Decompress(nil); err == nil {
		t.Fatalf("expected an error decompressing a Table stream with no table")
	}
}

// TestTableSubTypeOutOfRangeIndexFails checks out-of-range indices raise
// DataInconsistency rather than panicking.
func TestTableSubTypeOutOfRangeIndexFails(t *testing.T) {
	table := &DataBlock{Kind: DataBlockDecompressionTable, TableValues: []uint16{10, 20}}
	db := &DataBlock{
		Kind: DataBlockCompressed, UncompressedSize: 2,
		BitsDecompressed: 8, BitsCompressed: 2, SubType: SubTypeTable,
		Bitstream: []byte{0xF0}, // two 2-bit indices: 3, 3 -> out of range
	}
	if _, err := db.Decompress(table); err == nil {
		t.Fatalf("expected an out-of-range table index to fail")
	}
}
