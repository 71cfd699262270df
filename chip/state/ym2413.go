package state

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/fnumber"
)

// YM2413State tracks the Yamaha OPLL: nine FM channels on a single
// register port, each voiced by a fixed or user-defined instrument. Pitch
// is a 9-bit F-number split across a low byte (0x10-0x18) and a high
// register (0x20-0x28) that also carries the 3-bit block, the key bit,
// and the sustain bit.
type YM2413State struct {
	instance      chip.Instance
	masterClockHz float64

	regs map[uint16]uint8

	freqLow [9]uint8
	high    [9]uint8 // raw 0x20-0x28 byte: bit0 fnum-hi, bits1-3 block, bit4 key, bit5 sustain

	channels [9]ChannelState
}

// NewYM2413State constructs a tracker for a master clock in Hz (the
// standard value is 3579545).
func NewYM2413State(inst chip.Instance, masterClockHz float64) *YM2413State {
	return &YM2413State{instance: inst, masterClockHz: masterClockHz, regs: make(map[uint16]uint8)}
}

func (s *YM2413State) Chip() chip.Chip { return chip.YM2413 }

func (s *YM2413State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	switch {
	case addr >= 0x10 && addr <= 0x18:
		ch := int(addr - 0x10)
		s.freqLow[ch] = b
		return s.evaluateChannel(ch, out)
	case addr >= 0x20 && addr <= 0x28:
		ch := int(addr - 0x20)
		s.high[ch] = b
		return s.evaluateChannel(ch, out)
	}
	return out
}

func (s *YM2413State) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	fnum := uint16(s.high[ch]&0x01)<<8 | uint16(s.freqLow[ch])
	block := (s.high[ch] >> 1) & 0x07
	goingOn := s.high[ch]&0x10 != 0
	tone := computeTone(fnumber.OPLL, fnum, block, s.masterClockHz)
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *YM2413State) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *YM2413State) Reset() {
	s.regs = make(map[uint16]uint8)
	s.freqLow = [9]uint8{}
	s.high = [9]uint8{}
	s.channels = [9]ChannelState{}
}

func (s *YM2413State) ChannelCount() int { return 9 }

func (s *YM2413State) Channel(i int) ChannelState { return s.channels[i] }
