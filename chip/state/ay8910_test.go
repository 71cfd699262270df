package state

import (
	"math"
	"testing"

	"github.com/intuitionamiga/soundlog/chip"
)

// TestAY8910MixerDrivenKeyOn exercises setting a channel's period and
// amplitude, then using the mixer register to turn its tone generator on,
// change its pitch, and mute it again.
func TestAY8910MixerDrivenKeyOn(t *testing.T) {
	s := NewAY8910State(chip.Primary, 1789772)

	s.OnRegisterWrite(0, 0xFE) // channel A period fine
	s.OnRegisterWrite(1, 0x00) // channel A period coarse
	s.OnRegisterWrite(8, 0x0F) // channel A amplitude, full volume

	events := s.OnRegisterWrite(7, 0b11111110) // enable tone A, disable everything else
	if len(events) != 1 || events[0].Kind != EventKeyOn {
		t.Fatalf("expected a single KeyOn from the mixer write, got %+v", events)
	}
	if events[0].Channel != 0 {
		t.Fatalf("expected channel 0, got %d", events[0].Channel)
	}
	if events[0].Tone == nil || events[0].Tone.FreqHz == nil || math.Abs(*events[0].Tone.FreqHz-440.0) > 2.0 {
		t.Fatalf("expected ~440Hz KeyOn, got %+v", events[0].Tone)
	}

	events = s.OnRegisterWrite(0, 0x80) // change period while channel A is sounding
	if len(events) != 1 || events[0].Kind != EventToneChange {
		t.Fatalf("expected a single ToneChange, got %+v", events)
	}

	events = s.OnRegisterWrite(7, 0b11111111) // mute everything
	if len(events) != 1 || events[0].Kind != EventKeyOff {
		t.Fatalf("expected a single KeyOff, got %+v", events)
	}
}

// TestAY8910Idempotence checks that an unrelated register write to a
// quiescent tracker produces no event.
func TestAY8910Idempotence(t *testing.T) {
	s := NewAY8910State(chip.Primary, 1789772)
	if ev := s.OnRegisterWrite(0, 0xFE); len(ev) != 0 {
		t.Fatalf("expected no event writing a period to a silent channel, got %+v", ev)
	}
	if ev := s.OnRegisterWrite(0, 0xFE); len(ev) != 0 {
		t.Fatalf("expected no event repeating an identical write, got %+v", ev)
	}
}
