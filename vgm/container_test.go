package vgm

import (
	"testing"

	"github.com/intuitionamiga/soundlog/chip"
)

func buildSampleDocument() *VgmDocument {
	b := NewBuilder()
	b.RegisterChip(chip.YM2612, chip.Primary, 7670454)
	b.RegisterChip(chip.SN76489, chip.Primary, 3579545)

	b.AddCommand(&Command{Kind: KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA4, Value: 0x22})
	b.AddCommand(&Command{Kind: KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA0, Value: 0x6D})
	loopCmdIdx := len(b.doc.Commands)
	b.AddCommand(&Command{Kind: KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0x28, Value: 0xF0})
	b.AddCommand(&Command{Kind: KindWait, Opcode: 0x61, WaitSamples: 882})
	b.AddCommand(&Command{Kind: KindWait, Opcode: 0x62, WaitSamples: 735})
	b.AddCommand(&Command{Kind: KindEndOfData, Opcode: 0x66})

	b.SetLoopIndex(loopCmdIdx)
	b.SetGd3(&Gd3{Version: 0x100, TrackNameEN: "Test Track", TrackNameJP: "テスト", GameNameEN: "Test Game"})

	return b.Finalize()
}

// TestBuilderRoundTrip exercises P1/P2: finalize, serialize, reparse, and
// check the command sequence, header totals, and GD3 survive intact.
func TestBuilderRoundTrip(t *testing.T) {
	doc := buildSampleDocument()

	if doc.Header.TotalSamples != 882+735 {
		t.Fatalf("expected total_samples 1617, got %d", doc.Header.TotalSamples)
	}

	data, err := doc.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	reparsed, err := Parse(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	if reparsed.Header.TotalSamples != doc.Header.TotalSamples {
		t.Fatalf("total_samples mismatch: %d vs %d", reparsed.Header.TotalSamples, doc.Header.TotalSamples)
	}
	if len(reparsed.Commands) != len(doc.Commands) {
		t.Fatalf("command count mismatch: %d vs %d", len(reparsed.Commands), len(doc.Commands))
	}
	for i, cmd := range doc.Commands {
		got := reparsed.Commands[i]
		if got.Kind != cmd.Kind || got.Opcode != cmd.Opcode {
			t.Fatalf("command %d kind/opcode mismatch: %+v vs %+v", i, got, cmd)
		}
	}

	if reparsed.Gd3 == nil || reparsed.Gd3.TrackNameEN != "Test Track" || reparsed.Gd3.TrackNameJP != "テスト" {
		t.Fatalf("GD3 did not round-trip: %+v", reparsed.Gd3)
	}

	loopIdx := reparsed.LoopCommandIndex()
	if loopIdx < 0 {
		t.Fatalf("expected a resolvable loop command index")
	}
	if reparsed.Commands[loopIdx].Register != 0x28 {
		t.Fatalf("loop index resolved to the wrong command: %+v", reparsed.Commands[loopIdx])
	}
}

// TestSecondSerializeIsByteIdentical checks that reparsing and
// re-serializing a document that was already finalized produces the same
// bytes (the document had no non-canonical offsets to begin with).
func TestSecondSerializeIsByteIdentical(t *testing.T) {
	doc := buildSampleDocument()
	first, err := doc.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	reparsed, err := Parse(first)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	second, err := reparsed.Serialize()
	if err != nil {
		t.Fatalf("re-serialize: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("length differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("byte %d differs: 0x%02X vs 0x%02X", i, first[i], second[i])
		}
	}
}

// TestHeaderRejectsBadMagic exercises the invalid-identifier error path.
func TestHeaderRejectsBadMagic(t *testing.T) {
	_, err := Parse([]byte("Nope"))
	if err == nil {
		t.Fatalf("expected an error for a bad magic")
	}
}
