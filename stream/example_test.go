package stream_test

import (
	"fmt"

	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/state"
	"github.com/intuitionamiga/soundlog/stream"
	"github.com/intuitionamiga/soundlog/vgm"
)

// ExampleCallbackStream builds a short YM2612 register log by hand, wraps
// it in a CallbackStream with state tracking enabled, and prints the
// KeyOn/KeyOff/ToneChange events the tracker derives from the raw writes.
func ExampleCallbackStream() {
	doc := buildDemoDocument()

	cs := stream.NewCallbackStream(stream.NewProcessor(doc))
	cs.TrackState(chip.YM2612, chip.Primary, 7670454) // NTSC Genesis clock

	cs.OnWrite(chip.YM2612, func(inst chip.Instance, cmd *vgm.Command, sample int64, events []state.StateEvent) {
		for _, ev := range events {
			switch ev.Kind {
			case state.EventKeyOn:
				fmt.Printf("KeyOn channel=%d fnum=0x%X block=%d\n", ev.Channel, ev.Tone.FNum, ev.Tone.Block)
			case state.EventKeyOff:
				fmt.Printf("KeyOff channel=%d\n", ev.Channel)
			case state.EventToneChange:
				fmt.Printf("ToneChange channel=%d fnum=0x%X block=%d\n", ev.Channel, ev.Tone.FNum, ev.Tone.Block)
			}
		}
	})

	for {
		ev, err := cs.Next()
		if err != nil {
			fmt.Println("error:", err)
			break
		}
		if ev.EndOfStream {
			break
		}
	}

	// Output:
	// KeyOn channel=0 fnum=0x26D block=4
	// ToneChange channel=0 fnum=0x265 block=4
	// KeyOff channel=0
}

func buildDemoDocument() *vgm.VgmDocument {
	b := vgm.NewBuilder()
	b.RegisterChip(chip.YM2612, chip.Primary, 7670454)

	// Set frequency (block 4, F-Num 0x26D, about 252 Hz at this clock) then key on.
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA4, Value: 0x22})
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA0, Value: 0x6D})
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0x28, Value: 0xF0})

	b.AddCommand(&vgm.Command{Kind: vgm.KindWait, Opcode: 0x61, WaitSamples: 44100})

	// Pitch-bend while the key is still held (F-Num 0x265, same block).
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA4, Value: 0x22})
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0xA0, Value: 0x65})

	b.AddCommand(&vgm.Command{Kind: vgm.KindWait, Opcode: 0x61, WaitSamples: 44100})

	// Key off.
	b.AddCommand(&vgm.Command{Kind: vgm.KindChipWrite, Opcode: 0x52, Chip: chip.YM2612, Register: 0x28, Value: 0x00})
	b.AddCommand(&vgm.Command{Kind: vgm.KindEndOfData, Opcode: 0x66})

	return b.Finalize()
}
