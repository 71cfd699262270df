package state

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/fnumber"
)

// YMF278B (OPL4) pairs an OPL3-compatible FM core with a 24-channel PCM
// wavetable section addressed through a separate register bank. This
// tracker covers the FM core, whose register layout and pitch encoding
// are identical to YMF262State's; the wavetable section's registers are
// stored but produce no events, the same treatment YM2608State gives its
// rhythm section.
type YMF278BState struct {
	instance      chip.Instance
	masterClockHz float64

	regs map[uint16]uint8

	freqLow [18]uint8
	high    [18]uint8

	channels [18]ChannelState
}

// NewYMF278BState constructs a tracker for a master clock in Hz.
func NewYMF278BState(inst chip.Instance, masterClockHz float64) *YMF278BState {
	return &YMF278BState{instance: inst, masterClockHz: masterClockHz, regs: make(map[uint16]uint8)}
}

func (s *YMF278BState) Chip() chip.Chip { return chip.YMF278B }

func (s *YMF278BState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	port := reg >> 8
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	if port > 1 {
		return out // wavetable bank: stored only
	}

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

func (s *YMF278BState) evaluateChannel(idx int, out []StateEvent) []StateEvent {
	fnum := uint16(s.high[idx]&0x03)<<8 | uint16(s.freqLow[idx])
	block := (s.high[idx] >> 2) & 0x07
	goingOn := s.high[idx]&0x20 != 0
	tone := computeTone(fnumber.OPL3, fnum, block, s.masterClockHz)
	return applyKeyTransition(&s.channels[idx], idx, goingOn, tone, out)
}

func (s *YMF278BState) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *YMF278BState) Reset() {
	s.regs = make(map[uint16]uint8)
	s.freqLow = [18]uint8{}
	s.high = [18]uint8{}
	s.channels = [18]ChannelState{}
}

func (s *YMF278BState) ChannelCount() int { return 18 }

func (s *YMF278BState) Channel(i int) ChannelState { return s.channels[i] }
