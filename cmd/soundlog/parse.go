package main

import (
	"fmt"

	"github.com/intuitionamiga/soundlog/vgm"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "List a VGM file's command offsets and decoded forms",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("version=0x%08X total_samples=%d loop_samples=%d data_blocks=%d commands=%d\n",
		doc.Header.Version, doc.Header.TotalSamples, doc.Header.LoopSamples,
		len(doc.DataBlocks), len(doc.Commands))
	if doc.Gd3 != nil {
		fmt.Printf("gd3: %q / %q\n", doc.Gd3.GameNameEN, doc.Gd3.TrackNameEN)
	}

	for i, c := range doc.Commands {
		fmt.Printf("%6d  0x%06X  0x%02X  %s\n", i, c.Offset, c.Opcode, describeCommand(c))
	}
	return nil
}

func describeCommand(c *vgm.Command) string {
	switch c.Kind {
	case vgm.KindChipWrite:
		return fmt.Sprintf("chip_write   %-8s %-9s port=%d reg=0x%02X val=0x%02X",
			c.Chip, c.Instance, c.Port, c.Register, c.Value)
	case vgm.KindWait:
		return fmt.Sprintf("wait         %d samples", c.WaitSamples)
	case vgm.KindYM2612DACWriteWait:
		return fmt.Sprintf("ym2612_dac_wait %d samples", c.N)
	case vgm.KindEndOfData:
		return "end_of_data"
	case vgm.KindDataBlock:
		return fmt.Sprintf("data_block   index=%d", c.DataBlockIndex)
	case vgm.KindPCMRamWrite:
		r := c.PCMRAM
		return fmt.Sprintf("pcm_ram_write chip_type=0x%02X read=0x%06X write=0x%06X size=0x%06X",
			r.ChipType, r.ReadOffset, r.WriteOffset, r.Size)
	case vgm.KindStreamControl:
		return describeStreamControl(c.Stream)
	case vgm.KindSeek:
		return fmt.Sprintf("seek         offset=0x%08X", c.SeekOffset)
	case vgm.KindReserved:
		return fmt.Sprintf("reserved     %d byte(s)", len(c.Reserved))
	default:
		return "unknown"
	}
}

func describeStreamControl(sc *vgm.StreamControl) string {
	switch sc.Kind {
	case vgm.StreamSetup:
		return fmt.Sprintf("stream_setup      stream=%d chip=%s port=%d reg=0x%02X", sc.StreamID, sc.Chip, sc.Port, sc.Register)
	case vgm.StreamSetData:
		return fmt.Sprintf("stream_set_data   stream=%d block=%d step=%d base=%d", sc.StreamID, sc.DataBlockID, sc.StepSize, sc.StepBase)
	case vgm.StreamSetFrequency:
		return fmt.Sprintf("stream_set_freq   stream=%d hz=%d", sc.StreamID, sc.Frequency)
	case vgm.StreamStart:
		return fmt.Sprintf("stream_start      stream=%d offset=%d length=%d mode=0x%02X", sc.StreamID, sc.DataStartOffset, sc.DataLength, sc.LengthMode)
	case vgm.StreamStop:
		return fmt.Sprintf("stream_stop       stream=%d", sc.StreamID)
	case vgm.StreamStartFastCall:
		return fmt.Sprintf("stream_fast_call  stream=%d block=%d flags=0x%02X", sc.StreamID, sc.BlockOrdinal, sc.Flags)
	default:
		return "stream_control    unknown"
	}
}
