package state

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/fnumber"
)

// OPLState tracks the Yamaha YM3526 (OPL), YM3812 (OPL2), and Y8950
// (OPL2 plus ADPCM) register map: nine FM channels on a single port, each
// with a 10-bit F-number split across a low byte (0xA0-0xA8) and a high
// register (0xB0-0xB8) carrying the 3-bit block, the key bit, and the top
// two F-number bits. Y8950's ADPCM registers (0x07-0x0F, 0x10-0x19) share
// the same address space but are stored only; they drive a PCM sample
// channel, not a pitch-tracked voice.
type OPLState struct {
	c             chip.Chip
	family        fnumber.Family
	instance      chip.Instance
	masterClockHz float64

	regs map[uint16]uint8

	freqLow [9]uint8
	high    [9]uint8 // raw 0xB0-0xB8 byte: bit5 key, bits2-4 block, bits0-1 fnum-hi

	channels [9]ChannelState
}

// NewOPLState constructs a tracker for one of the OPL-family chips.
func NewOPLState(c chip.Chip, inst chip.Instance, masterClockHz float64) *OPLState {
	family := fnumber.OPL2
	if c == chip.YM3526 {
		family = fnumber.OPL
	}
	return &OPLState{c: c, family: family, instance: inst, masterClockHz: masterClockHz, regs: make(map[uint16]uint8)}
}

func (s *OPLState) Chip() chip.Chip { return s.c }

func (s *OPLState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	switch {
	case addr >= 0xA0 && addr <= 0xA8:
		ch := int(addr - 0xA0)
		s.freqLow[ch] = b
		return s.evaluateChannel(ch, out)
	case addr >= 0xB0 && addr <= 0xB8:
		ch := int(addr - 0xB0)
		s.high[ch] = b
		return s.evaluateChannel(ch, out)
	}
	return out
}

func (s *OPLState) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	fnum := uint16(s.high[ch]&0x03)<<8 | uint16(s.freqLow[ch])
	block := (s.high[ch] >> 2) & 0x07
	goingOn := s.high[ch]&0x20 != 0
	tone := computeTone(s.family, fnum, block, s.masterClockHz)
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *OPLState) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *OPLState) Reset() {
	s.regs = make(map[uint16]uint8)
	s.freqLow = [9]uint8{}
	s.high = [9]uint8{}
	s.channels = [9]ChannelState{}
}

func (s *OPLState) ChannelCount() int { return 9 }

func (s *OPLState) Channel(i int) ChannelState { return s.channels[i] }
