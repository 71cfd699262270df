package stream

import (
	"testing"

	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/vgm"
)

func buildPlainDocument() *vgm.VgmDocument {
	b := vgm.NewBuilder()
	b.RegisterChip(chip.YM2612, chip.Primary, 7670454)
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA4, Value: 0x22})
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA0, Value: 0x6D})
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0x28, Value: 0xF0})
	b.AddCommand(&vgm.Command{Kind: vgm.KindWait, Opcode: 0x61, WaitSamples: 500})
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0x28, Value: 0x00})
	b.AddCommand(&vgm.Command{Kind: vgm.KindEndOfData, Opcode: 0x66})
	return b.Finalize()
}

// TestStreamDeterminismWithoutLoop is P3: with no loop control, the
// processor yields exactly the parsed non-stream-control command
// sequence, in order. EndOfData is consumed internally (the processor
// reports EndOfStream instead), so it is not part of the expected list.
func TestStreamDeterminismWithoutLoop(t *testing.T) {
	doc := buildPlainDocument()
	p := NewProcessor(doc)

	var gotOpcodes []byte
	for {
		ev, err := p.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.EndOfStream {
			break
		}
		gotOpcodes = append(gotOpcodes, ev.Command.Opcode)
	}

	var wantOpcodes []byte
	for _, cmd := range doc.Commands {
		if cmd.Kind == vgm.KindStreamControl || cmd.Kind == vgm.KindEndOfData {
			continue
		}
		wantOpcodes = append(wantOpcodes, cmd.Opcode)
	}

	if len(gotOpcodes) != len(wantOpcodes) {
		t.Fatalf("got %d commands, want %d", len(gotOpcodes), len(wantOpcodes))
	}
	for i := range wantOpcodes {
		if gotOpcodes[i] != wantOpcodes[i] {
			t.Fatalf("command %d: got opcode 0x%02X, want 0x%02X", i, gotOpcodes[i], wantOpcodes[i])
		}
	}
}

// TestSampleTimestampsAreMonotonic is P4.
func TestSampleTimestampsAreMonotonic(t *testing.T) {
	doc := buildPlainDocument()
	p := NewProcessor(doc)

	last := int64(-1)
	for {
		ev, err := p.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.EndOfStream {
			break
		}
		if ev.Sample < last {
			t.Fatalf("sample timestamp went backwards: %d after %d", ev.Sample, last)
		}
		last = ev.Sample
	}
}

func buildDACStreamDocument() *vgm.VgmDocument {
	b := vgm.NewBuilder()
	b.RegisterChip(chip.YM2612, chip.Primary, 7670454)

	pcm := make([]byte, 64)
	for i := range pcm {
		pcm[i] = byte(i)
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
	b.AddCommand(&vgm.Command{Kind: vgm.KindWait, Opcode: 0x61, WaitSamples: 882})
	b.AddCommand(&vgm.Command{Kind: vgm.KindEndOfData, Opcode: 0x66})

	return b.Finalize()
}

// TestWaitSplittingInjectsStreamWrites is S3: a single DAC stream running
// at 8000Hz against the 44100Hz sample clock must split an 882-sample
// wait into injected writes spaced about 44100/8000 = 5.5125 samples
// apart, in non-decreasing sample order, before the wait itself is
// yielded.
func TestWaitSplittingInjectsStreamWrites(t *testing.T) {
	doc := buildDACStreamDocument()
	p := NewProcessor(doc)

	var injectedSamples []int64
	var sawWait bool
	for {
		ev, err := p.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.EndOfStream {
			break
		}
		if ev.Injected {
			if sawWait {
				t.Fatalf("injected write arrived after the wait it should have preceded")
			}
			injectedSamples = append(injectedSamples, ev.Sample)
			continue
		}
		if ev.Command.Kind == vgm.KindWait {
			sawWait = true
			if ev.Command.WaitSamples != 882 {
				t.Fatalf("wait sample count changed: got %d, want 882", ev.Command.WaitSamples)
			}
		}
	}

	if len(injectedSamples) < 2 {
		t.Fatalf("expected multiple injected writes, got %d", len(injectedSamples))
	}
	if injectedSamples[0] != 0 {
		t.Fatalf("first injected write should land at sample 0, got %d", injectedSamples[0])
	}
	for i := 1; i < len(injectedSamples); i++ {
		if injectedSamples[i] < injectedSamples[i-1] {
			t.Fatalf("injected samples not non-decreasing: %v", injectedSamples)
		}
		spacing := injectedSamples[i] - injectedSamples[i-1]
		if spacing < 4 || spacing > 7 {
			t.Fatalf("unexpected spacing between injected writes: %d (want close to 5.5125)", spacing)
		}
	}
}

// TestInjectedWriteCarriesSerializableOpcode guards against injected DAC
// writes sitting in a command stream with no opcode a redump can
// serialize: the opcode must resolve to the table row for (chip, port) set
// up via StreamSetup.
func TestInjectedWriteCarriesSerializableOpcode(t *testing.T) {
	doc := buildDACStreamDocument()
	p := NewProcessor(doc)

	wantOp, ok := vgm.ResolveChipWriteOpcode(chip.YM2612, 0)
	if !ok {
		t.Fatalf("expected an opcode table entry for YM2612 port 0")
	}

	found := false
	for {
		ev, err := p.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.EndOfStream {
			break
		}
		if ev.Injected {
			found = true
			if ev.Command.Opcode != wantOp {
				t.Fatalf("injected write opcode = 0x%02X, want 0x%02X", ev.Command.Opcode, wantOp)
			}
		}
	}
	if !found {
		t.Fatalf("expected at least one injected write")
	}
}

// TestMissingDataBlockReportsErrorButStaysUsable exercises the documented
// failure semantics: a Start referencing an unbound stream yields an
// error, then the processor continues normally.
func TestMissingDataBlockReportsErrorButStaysUsable(t *testing.T) {
	b := vgm.NewBuilder()
	b.AddCommand(&vgm.Command{Kind: vgm.KindStreamControl, Opcode: 0x93, Stream: &vgm.StreamControl{
		Kind: vgm.StreamStart, StreamID: 7, DataLength: 10,
	}})
	b.AddCommand(&vgm.Command{Kind: vgm.KindWait, Opcode: 0x61, WaitSamples: 10})
	b.AddCommand(&vgm.Command{Kind: vgm.KindEndOfData, Opcode: 0x66})
	doc := b.Finalize()

	p := NewProcessor(doc)
	_, err := p.Next()
	if err == nil {
		t.Fatalf("expected a missing-data-block error")
	}
	if _, ok := err.(*MissingDataBlockError); !ok {
		t.Fatalf("expected *MissingDataBlockError, got %T", err)
	}

	ev, err := p.Next()
	if err != nil {
		t.Fatalf("processor should remain usable after the error: %v", err)
	}
	if ev.Command == nil || ev.Command.Kind != vgm.KindWait {
		t.Fatalf("expected the wait command next, got %+v", ev)
	}
}
