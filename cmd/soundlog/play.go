package main

import (
	"fmt"
	"os"

	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/state"
	"github.com/intuitionamiga/soundlog/stream"
	"github.com/intuitionamiga/soundlog/vgm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var playLoopCount int

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Replay a VGM file's register writes and print the events they produce",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playLoopCount, "loops", 0, "additional times to replay the loop section")
}

// terminalWidth returns the connected terminal's column count, or a
// conservative fallback when stdout isn't a terminal (piped output, CI).
func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 100
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 100
	}
	return w
}

func runPlay(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	width := terminalWidth()
	nameWidth := 18
	if width < 70 {
		nameWidth = 10
	}

	proc := stream.NewProcessor(doc)
	proc.SetLoopCount(playLoopCount)
	cs := stream.NewCallbackStream(proc)

	for c, raw := range doc.Header.ClockHz {
		if raw == 0 {
			continue
		}
		clockHz, inst := chip.InstanceFromClock(raw)
		cs.TrackState(c, inst, float64(clockHz))
	}

	cs.OnWrite(chip.YM2612, makeToneWriter(nameWidth))
	for _, c := range []chip.Chip{
		chip.YM2413, chip.YM2151, chip.YM2203, chip.YM2608,
		chip.YM2610B, chip.YMF262, chip.YMF271, chip.YMF278B,
		chip.SN76489, chip.AY8910,
	} {
		cs.OnWrite(c, makeToneWriter(nameWidth))
	}

	for {
		ev, err := cs.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		if ev.EndOfStream {
			break
		}
	}
	return nil
}

func makeToneWriter(nameWidth int) stream.WriteCallback {
	return func(inst chip.Instance, cmd *vgm.Command, sample int64, events []state.StateEvent) {
		for _, ev := range events {
			name := fmt.Sprintf("%s/%s", cmd.Chip, inst)
			switch ev.Kind {
			case state.EventKeyOn:
				fmt.Printf("%10d  %-*s ch%-2d  key-on   fnum=0x%03X block=%d\n",
					sample, nameWidth, name, ev.Channel, ev.Tone.FNum, ev.Tone.Block)
			case state.EventKeyOff:
				fmt.Printf("%10d  %-*s ch%-2d  key-off\n", sample, nameWidth, name, ev.Channel)
			case state.EventToneChange:
				fmt.Printf("%10d  %-*s ch%-2d  tone     fnum=0x%03X block=%d\n",
					sample, nameWidth, name, ev.Channel, ev.Tone.FNum, ev.Tone.Block)
			}
		}
	}
}
