package stream

import (
	"testing"

	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/state"
	"github.com/intuitionamiga/soundlog/vgm"
)

// TestFanOutOrderAndTrackerAppliedBeforeCallback is §4.10's contract: the
// tracker has already applied the write by the time the chip-specific
// callback runs, and the chip-specific callback runs before the
// any-command callback.
func TestFanOutOrderAndTrackerAppliedBeforeCallback(t *testing.T) {
	doc := buildPlainDocument()
	cs := NewCallbackStream(NewProcessor(doc))
	tracker := cs.TrackState(chip.YM2612, chip.Primary, 7670454)

	var order []string
	var sawRegisterDuringCallback bool

	cs.OnWrite(chip.YM2612, func(inst chip.Instance, cmd *vgm.Command, sample int64, events []state.StateEvent) {
		order = append(order, "write")
		if v, ok := tracker.ReadRegister(trackerAddress(cmd)); ok && v == uint16(cmd.Value) {
			sawRegisterDuringCallback = true
		}
	})
	cs.OnAnyCommand(func(ev Event) {
		order = append(order, "any")
	})

	for {
		ev, err := cs.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.EndOfStream {
			break
		}
	}

	if len(order) == 0 {
		t.Fatalf("expected callbacks to fire")
	}
	// Every chip write must see "write" immediately followed by "any"; the
	// wait command has no tracked chip so only "any" fires for it.
	writeCount := 0
	for i, tag := range order {
		if tag == "write" {
			writeCount++
			if i+1 >= len(order) || order[i+1] != "any" {
				t.Fatalf("expected \"any\" right after \"write\" at index %d: %v", i, order)
			}
		}
	}
	if writeCount != 4 {
		t.Fatalf("expected 4 YM2612 writes dispatched, got %d", writeCount)
	}
	if !sawRegisterDuringCallback {
		t.Fatalf("tracker should already reflect the write by the time the write callback runs")
	}
}

// TestUntrackedChipStillReachesAnyCommandCallback checks that a chip with
// no registered tracker or write callback still reaches on_any_command.
func TestUntrackedChipStillReachesAnyCommandCallback(t *testing.T) {
	doc := buildPlainDocument()
	cs := NewCallbackStream(NewProcessor(doc))

	var anyCount int
	cs.OnAnyCommand(func(ev Event) { anyCount++ })

	for {
		ev, err := cs.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.EndOfStream {
			break
		}
	}

	// EndOfData is consumed internally (it never reaches callbacks); every
	// other parsed command does.
	want := len(doc.Commands) - 1
	if anyCount != want {
		t.Fatalf("expected on_any_command to fire for every yielded command, got %d want %d", anyCount, want)
	}
}
