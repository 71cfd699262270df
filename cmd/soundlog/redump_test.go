package main

import (
	"testing"

	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/vgm"
)

func buildRedumpFixture() *vgm.VgmDocument {
	b := vgm.NewBuilder()
	b.RegisterChip(chip.YM2612, chip.Primary, 7670454)
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA4, Value: 0x22})
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA0, Value: 0x6D})
	b.AddCommand(&vgm.Command{Kind: vgm.KindWait, Opcode: 0x61, WaitSamples: 100})
	b.AddCommand(&vgm.Command{Kind: vgm.KindEndOfData, Opcode: 0x66})
	return b.Finalize()
}

// TestRedumpReparsesToEquivalentCommandSequence checks that the bytes
// redump produces parse back into the same flattened write/wait sequence
// fed into the stream processor, for a document with no DAC streams (the
// plain pass-through case).
func TestRedumpReparsesToEquivalentCommandSequence(t *testing.T) {
	doc := buildRedumpFixture()

	out, err := redump(doc)
	if err != nil {
		t.Fatalf("redump failed: %v", err)
	}

	reparsed, err := vgm.Parse(out)
	if err != nil {
		t.Fatalf("redump output failed to reparse: %v", err)
	}

	if len(reparsed.Commands) != len(doc.Commands) {
		t.Fatalf("got %d commands after redump, want %d", len(reparsed.Commands), len(doc.Commands))
	}
	for i, cmd := range doc.Commands {
		got := reparsed.Commands[i]
		if got.Kind != cmd.Kind || got.Opcode != cmd.Opcode {
			t.Fatalf("command %d: got kind=%v opcode=0x%02X, want kind=%v opcode=0x%02X",
				i, got.Kind, got.Opcode, cmd.Kind, cmd.Opcode)
		}
	}
}

// TestRedumpFlattensDACStream is S3 exercised end to end through the CLI's
// flattening path: the output must contain literal chip writes where the
// input had stream-control commands, and no KindStreamControl commands at
// all.
func TestRedumpFlattensDACStream(t *testing.T) {
	doc := buildDACFixtureForRedump()

	out, err := redump(doc)
	if err != nil {
		t.Fatalf("redump failed: %v", err)
	}

	reparsed, err := vgm.Parse(out)
	if err != nil {
		t.Fatalf("redump output failed to reparse: %v", err)
	}

	sawChipWrite := false
	for _, cmd := range reparsed.Commands {
		if cmd.Kind == vgm.KindStreamControl {
			t.Fatalf("redump output still contains a stream-control command")
		}
		if cmd.Kind == vgm.KindChipWrite {
			sawChipWrite = true
		}
	}
	if !sawChipWrite {
		t.Fatalf("expected the flattened output to contain injected chip writes")
	}
}

func buildDACFixtureForRedump() *vgm.VgmDocument {
	b := vgm.NewBuilder()
	b.RegisterChip(chip.YM2612, chip.Primary, 7670454)

	pcm := make([]byte, 32)
	for i := range pcm {
		pcm[i] = byte(i * 2)
	}
	blockIdx := b.AddDataBlock(&vgm.DataBlock{TypeByte: 0x00, Kind: vgm.DataBlockUncompressed, Raw: pcm})

	b.AddCommand(&vgm.Command{Kind: vgm.KindStreamControl, Opcode: 0x90, Stream: &vgm.StreamControl{
		Kind: vgm.StreamSetup, StreamID: 0, Chip: chip.YM2612, Port: 0, Register: 0x2A,
	}})
	b.AddCommand(&vgm.Command{Kind: vgm.KindStreamControl, Opcode: 0x91, Stream: &vgm.StreamControl{
		Kind: vgm.StreamSetData, StreamID: 0, DataBlockID: uint8(blockIdx), StepSize: 1,
	}})
	b.AddCommand(&vgm.Command{Kind: vgm.KindStreamControl, Opcode: 0x92, Stream: &vgm.StreamControl{
		Kind: vgm.StreamSetFrequency, StreamID: 0, Frequency: 8000,
	}})
	b.AddCommand(&vgm.Command{Kind: vgm.KindStreamControl, Opcode: 0x93, Stream: &vgm.StreamControl{
		Kind: vgm.StreamStart, StreamID: 0, DataLength: uint32(len(pcm)),
	}})
	b.AddCommand(&vgm.Command{Kind: vgm.KindWait, Opcode: 0x61, WaitSamples: 400})
	b.AddCommand(&vgm.Command{Kind: vgm.KindEndOfData, Opcode: 0x66})

	return b.Finalize()
}
