package state

import (
	"math"
	"testing"

	"github.com/intuitionamiga/soundlog/chip"
)

// TestSN76489VolumeKeyOnKeyOff exercises a volume latch that turns a
// channel on at a period producing ~440Hz, then silences it.
func TestSN76489VolumeKeyOnKeyOff(t *testing.T) {
	s := NewSN76489State(chip.Primary, 3579545)

	// Latch channel 0 tone, low nibble 0xE, then the data byte carrying
	// the high 6 bits 0x0F -> period 0xFE (254), ~440.4Hz at this clock.
	if ev := s.OnRegisterWrite(0, 0x8E); len(ev) != 0 {
		t.Fatalf("expected no event from a tone write on a silent channel, got %+v", ev)
	}
	if ev := s.OnRegisterWrite(0, 0x0F); len(ev) != 0 {
		t.Fatalf("expected no event from a tone write on a silent channel, got %+v", ev)
	}

	events := s.OnRegisterWrite(0, 0x90) // volume latch, attenuation 0 (loudest)
	if len(events) != 1 || events[0].Kind != EventKeyOn {
		t.Fatalf("expected a single KeyOn, got %+v", events)
	}
	if events[0].Tone == nil || events[0].Tone.FreqHz == nil {
		t.Fatalf("expected KeyOn to carry a resolved frequency")
	}
	if math.Abs(*events[0].Tone.FreqHz-440.0) > 2.0 {
		t.Fatalf("expected ~440Hz, got %v", *events[0].Tone.FreqHz)
	}

	events = s.OnRegisterWrite(0, 0x9F) // attenuation 0xF -> silent
	if len(events) != 1 || events[0].Kind != EventKeyOff {
		t.Fatalf("expected a single KeyOff, got %+v", events)
	}
}

// TestSN76489Idempotence checks that repeating an identical tone write to
// an already-silent channel never synthesizes a spurious ToneChange.
func TestSN76489Idempotence(t *testing.T) {
	s := NewSN76489State(chip.Primary, 3579545)
	s.OnRegisterWrite(0, 0x8E)
	if ev := s.OnRegisterWrite(0, 0x8E); len(ev) != 0 {
		t.Fatalf("expected no event from repeating an identical write, got %+v", ev)
	}
}
