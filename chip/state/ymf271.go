package state

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/fnumber"
)

// YMF271State tracks the Yamaha OPX, a four-port, twelve-channel FM chip
// with an unusually wide 12-bit F-number and per-channel "group" fields
// this tracker does not attempt to model. Tone and KeyOn/KeyOff detection
// here are best-effort: real-world VGM captures of this chip are rare
// enough, and its public documentation thin enough, that the F-number
// layout assumed below has not been validated against known-good
// captures. Treat FreqHz and KeyState from this tracker as approximate.
type YMF271State struct {
	instance      chip.Instance
	masterClockHz float64

	regs map[uint16]uint8

	freqLow  [12]uint8
	freqHigh [12]uint8
	keyBits  [12]uint8

	channels [12]ChannelState
}

// NewYMF271State constructs a tracker for a master clock in Hz.
func NewYMF271State(inst chip.Instance, masterClockHz float64) *YMF271State {
	return &YMF271State{instance: inst, masterClockHz: masterClockHz, regs: make(map[uint16]uint8)}
}

func (s *YMF271State) Chip() chip.Chip { return chip.YMF271 }

func (s *YMF271State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	group := reg >> 8
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	if group > 3 {
		return out
	}
	ch := int(group)*3 + int(addr%3)

	switch {
	case addr%12 < 4:
		if ch < 12 {
			s.freqLow[ch] = b
			return s.evaluateChannel(ch, out)
		}
	case addr%12 < 8:
		if ch < 12 {
			s.freqHigh[ch] = b
			return s.evaluateChannel(ch, out)
		}
	default:
		if ch < 12 {
			s.keyBits[ch] = b & 0x01
			return s.evaluateChannel(ch, out)
		}
	}
	return out
}

func (s *YMF271State) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	fnum := uint16(s.freqHigh[ch]&0x0F)<<8 | uint16(s.freqLow[ch])
	block := s.freqHigh[ch] >> 4 & 0x07
	goingOn := s.keyBits[ch] != 0
	tone := computeTone(fnumber.OPX, fnum, block, s.masterClockHz)
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *YMF271State) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *YMF271State) Reset() {
	s.regs = make(map[uint16]uint8)
	s.freqLow = [12]uint8{}
	s.freqHigh = [12]uint8{}
	s.keyBits = [12]uint8{}
	s.channels = [12]ChannelState{}
}

func (s *YMF271State) ChannelCount() int { return 12 }

func (s *YMF271State) Channel(i int) ChannelState { return s.channels[i] }
