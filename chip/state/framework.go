package state

import "github.com/intuitionamiga/soundlog/chip"

// KeyState is a channel's binary on/off state as understood by a chip
// tracker; it is not the same thing as the chip's raw enable bit, which
// trackers translate into this vocabulary.
type KeyState int

const (
	KeyOff KeyState = iota
	KeyOn
)

// ToneInfo summarises a channel's pitch: the raw F-number and Block fields
// plus the Hz value they produce, when the tracker's master clock is known
// (FreqHz is absent when the tracker was constructed with clock 0).
type ToneInfo struct {
	FNum   uint16
	Block  uint8
	FreqHz *float64
}

// Equal reports whether two ToneInfo values describe the same tone. FreqHz
// is derived from FNum/Block/clock so equality only needs to compare the
// raw fields; two ToneInfo values with the same (FNum, Block) always carry
// the same FreqHz for a given tracker.
func (t ToneInfo) Equal(other ToneInfo) bool {
	return t.FNum == other.FNum && t.Block == other.Block
}

// ChannelState pairs a channel's key state with its tone, when known. Tone
// is nil for channels whose pitch this chip family doesn't track (pure PCM
// channels) or that have never received a pitch-bearing write.
type ChannelState struct {
	Key  KeyState
	Tone *ToneInfo
}

// EventKind discriminates StateEvent variants.
type EventKind int

const (
	EventKeyOn EventKind = iota
	EventKeyOff
	EventToneChange
)

// StateEvent is one semantic event a tracker derives from a register
// write: a note starting, a note ending, or a sounding note's pitch
// changing. Channel is the chip-relative channel index (0-based); Tone is
// populated for KeyOn and ToneChange, nil for KeyOff.
type StateEvent struct {
	Kind    EventKind
	Channel int
	Tone    *ToneInfo
}

// ChipState is the single contract every per-chip tracker implements. A
// fresh tracker is constructed for each (chip.Chip, chip.Instance) pair the
// stream processor sees registered; on_register_write is called once per
// chip-write command, in hardware evaluation order, and returns a handful
// of events (the slice starts with capacity 4; a write that re-evaluates
// every channel, such as a K051649 enable-mask write, can return more).
type ChipState interface {
	// Chip identifies which chip.Chip this tracker implements.
	Chip() chip.Chip

	// OnRegisterWrite records a raw register write and returns the
	// StateEvents it produces, if any. The write is always stored (reads
	// must be monotonic with writes) even when no event results.
	OnRegisterWrite(reg uint16, value uint16) []StateEvent

	// ReadRegister returns the last value written to reg, if any.
	ReadRegister(reg uint16) (uint16, bool)

	// Reset clears channel states and register storage, preserving the
	// configured master clock.
	Reset()

	// ChannelCount returns the number of channels this tracker exposes
	// ChannelState for.
	ChannelCount() int

	// Channel returns the current ChannelState for a channel index.
	Channel(i int) ChannelState
}

// maxEventsPerWrite is the small-vector capacity hinted at in the design
// notes: events is pre-allocated to this size so a typical single-channel
// write (at most a KeyOff followed by a KeyOn, or a lone ToneChange) never
// reallocates.
const maxEventsPerWrite = 4

func newEvents() []StateEvent {
	return make([]StateEvent, 0, maxEventsPerWrite)
}

// toneInfoPtr is a tiny helper so chip trackers can write
// `Tone: toneInfoPtr(fnum, block, hz)` instead of allocating a local.
func toneInfoPtr(fnum uint16, block uint8, freqHz *float64) *ToneInfo {
	return &ToneInfo{FNum: fnum, Block: block, FreqHz: freqHz}
}
