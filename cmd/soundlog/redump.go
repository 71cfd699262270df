package main

import (
	"fmt"

	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/stream"
	"github.com/intuitionamiga/soundlog/vgm"
	"github.com/spf13/cobra"
)

var redumpOut string

var redumpCmd = &cobra.Command{
	Use:   "redump <file>",
	Short: "Round-trip a file through the stream processor and re-serialize it",
	Long: "redump drives the input file through the stream processor, expanding every " +
		"DAC-stream control command into the chip writes it implies, and writes a new " +
		"VGM file containing the flattened command sequence.",
	Args: cobra.ExactArgs(1),
	RunE: runRedump,
}

func init() {
	redumpCmd.Flags().StringVarP(&redumpOut, "out", "o", "-", `output path, or "-" for stdout`)
}

func runRedump(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	out, err := redump(doc)
	if err != nil {
		return err
	}

	return writeOutput(redumpOut, out)
}

// redump flattens doc's command stream through the stream processor (so
// every DAC-stream control command becomes the chip writes it schedules)
// and reassembles the result into a fresh, serializable document. The
// stream processor's default loop count of 0 matches the "play once
// through" semantics this path wants: a loop header in the source file
// still determines Header.LoopOffset on the way out (§9, loop_count==None
// in the redump path plays the file through exactly once).
func redump(doc *vgm.VgmDocument) ([]byte, error) {
	b := vgm.NewBuilder()
	for c, raw := range doc.Header.ClockHz {
		if raw == 0 {
			continue
		}
		clockHz, inst := chip.InstanceFromClock(raw)
		b.RegisterChip(c, inst, clockHz)
	}
	if doc.Gd3 != nil {
		b.SetGd3(doc.Gd3)
	}

	proc := stream.NewProcessor(doc)
	loopIndex := -1
	for {
		ev, err := proc.Next()
		if err != nil {
			return nil, fmt.Errorf("flattening command stream: %w", err)
		}
		if ev.EndOfStream {
			break
		}
		if ev.Command == nil {
			continue
		}
		if !ev.Injected && doc.Header.LoopOffset != 0 && ev.Command.Offset == 0x1C+int(doc.Header.LoopOffset) {
			loopIndex = b.CommandCount()
		}
		b.AddCommand(ev.Command)
	}
	b.AddCommand(&vgm.Command{Opcode: 0x66, Kind: vgm.KindEndOfData})
	if loopIndex >= 0 {
		b.SetLoopIndex(loopIndex)
	}

	result := b.Finalize()
	return result.Serialize()
}
