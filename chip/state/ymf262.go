package state

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/fnumber"
)

// YMF262State tracks the Yamaha OPL3: two ports, each laid out exactly
// like an OPL2 (nine 2-operator channels with a 10-bit F-number), giving
// eighteen channels total. OPL3 can pair adjacent 2-operator channels
// into four-operator voices; this tracker reports each half independently
// rather than modelling the pairing, since the pitch registers themselves
// are unaffected by 2-op/4-op mode.
type YMF262State struct {
	instance      chip.Instance
	masterClockHz float64

	regs map[uint16]uint8

	freqLow [18]uint8
	high    [18]uint8

	channels [18]ChannelState
}

// NewYMF262State constructs a tracker for a master clock in Hz (the
// standard value is 14318180).
func NewYMF262State(inst chip.Instance, masterClockHz float64) *YMF262State {
	return &YMF262State{instance: inst, masterClockHz: masterClockHz, regs: make(map[uint16]uint8)}
}

func (s *YMF262State) Chip() chip.Chip { return chip.YMF262 }

func (s *YMF262State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	port := reg >> 8
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	switch {
	case addr >= 0xA0 && addr <= 0xA8:
		idx := int(port)*9 + int(addr-0xA0)
		if idx >= 18 {
			return out
		}
		s.freqLow[idx] = b
		return s.evaluateChannel(idx, out)
	case addr >= 0xB0 && addr <= 0xB8:
		idx := int(port)*9 + int(addr-0xB0)
		if idx >= 18 {
			return out
		}
		s.high[idx] = b
		return s.evaluateChannel(idx, out)
	}
	return out
}

func (s *YMF262State) evaluateChannel(idx int, out []StateEvent) []StateEvent {
	fnum := uint16(s.high[idx]&0x03)<<8 | uint16(s.freqLow[idx])
	block := (s.high[idx] >> 2) & 0x07
	goingOn := s.high[idx]&0x20 != 0
	tone := computeTone(fnumber.OPL3, fnum, block, s.masterClockHz)
	return applyKeyTransition(&s.channels[idx], idx, goingOn, tone, out)
}

func (s *YMF262State) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *YMF262State) Reset() {
	s.regs = make(map[uint16]uint8)
	s.freqLow = [18]uint8{}
	s.high = [18]uint8{}
	s.channels = [18]ChannelState{}
}

func (s *YMF262State) ChannelCount() int { return 18 }

func (s *YMF262State) Channel(i int) ChannelState { return s.channels[i] }
