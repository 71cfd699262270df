package state

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/fnumber"
)

// YM2612State tracks the Yamaha OPN2, a two-port FM chip with three FM
// channels per port (six total). The key-on/off register (0x28) is shared
// across both ports and addresses channels by a 1-bit port field plus a
// 2-bit in-port channel field; frequency is set per-port via the A0/A4
// register pairs (F-number low byte, block + F-number high bits).
type YM2612State struct {
	instance      chip.Instance
	masterClockHz float64

	regs map[uint16]uint8

	freqLow  [6]uint8
	freqHigh [6]uint8
	keyBits  [6]uint8 // nonzero operator mask means the channel is keyed on

	channels [6]ChannelState
}

// NewYM2612State constructs a tracker for a master clock in Hz (the
// NTSC Genesis value is 7670454). A clock of 0 is accepted; ToneInfo.FreqHz
// is simply left nil in that case.
func NewYM2612State(inst chip.Instance, masterClockHz float64) *YM2612State {
	return &YM2612State{instance: inst, masterClockHz: masterClockHz, regs: make(map[uint16]uint8)}
}

func (s *YM2612State) Chip() chip.Chip { return chip.YM2612 }

func (s *YM2612State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	port := reg >> 8
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	switch {
	case addr == 0x28:
		chSelPort := (b >> 2) & 0x01
		chSelCh := b & 0x03
		if chSelCh > 2 {
			return out
		}
		idx := int(chSelPort)*3 + int(chSelCh)
		s.keyBits[idx] = (b >> 4) & 0x0F
		return s.evaluateChannel(idx, out)

	case addr >= 0xA0 && addr <= 0xA2:
		idx := int(port)*3 + int(addr-0xA0)
		if idx >= 6 {
			return out
		}
		s.freqLow[idx] = b
		return s.evaluateChannel(idx, out)

	case addr >= 0xA4 && addr <= 0xA6:
		idx := int(port)*3 + int(addr-0xA4)
		if idx >= 6 {
			return out
		}
		s.freqHigh[idx] = b
		return s.evaluateChannel(idx, out)
	}
	return out
}

func (s *YM2612State) evaluateChannel(idx int, out []StateEvent) []StateEvent {
	fnum := uint16(s.freqHigh[idx]&0x07)<<8 | uint16(s.freqLow[idx])
	block := (s.freqHigh[idx] >> 3) & 0x07
	tone := computeTone(fnumber.OPN2, fnum, block, s.masterClockHz)
	goingOn := s.keyBits[idx] != 0
	return applyKeyTransition(&s.channels[idx], idx, goingOn, tone, out)
}

func (s *YM2612State) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *YM2612State) Reset() {
	s.regs = make(map[uint16]uint8)
	s.freqLow = [6]uint8{}
	s.freqHigh = [6]uint8{}
	s.keyBits = [6]uint8{}
	s.channels = [6]ChannelState{}
}

func (s *YM2612State) ChannelCount() int { return 6 }

func (s *YM2612State) Channel(i int) ChannelState { return s.channels[i] }
