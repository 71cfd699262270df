package state

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/fnumber"
)

// YM2203State tracks the Yamaha OPN: three FM channels (single port) plus
// an embedded AY-3-8910-compatible SSG section sharing the same 8-bit
// address space as registers 0x00-0x0D. Channels 0-2 are the FM voices;
// channels 3-5 are the SSG's tone generators, reusing the same mixer/
// amplitude semantics as a standalone AY8910State.
type YM2203State struct {
	instance      chip.Instance
	masterClockHz float64

	regs map[uint16]uint8

	freqLow  [3]uint8
	freqHigh [3]uint8
	keyBits  [3]uint8

	ssgRegs      [14]uint8
	ssgPeriod    [3]uint16
	ssgAmplitude [3]uint8
	ssgMixer     uint8

	channels [6]ChannelState
}

// NewYM2203State constructs a tracker for a master clock in Hz (the
// standard value is 3993600 / 4000000 depending on the platform).
func NewYM2203State(inst chip.Instance, masterClockHz float64) *YM2203State {
	return &YM2203State{instance: inst, masterClockHz: masterClockHz, regs: make(map[uint16]uint8), ssgMixer: 0x3F}
}

func (s *YM2203State) Chip() chip.Chip { return chip.YM2203 }

func (s *YM2203State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	switch {
	case addr <= 0x0D:
		return s.onSSGWrite(addr, b, out)

	case addr == 0x28:
		ch := b & 0x03
		if ch > 2 {
			return out
		}
		s.keyBits[ch] = (b >> 4) & 0x0F
		return s.evaluateFM(int(ch), out)

	case addr >= 0xA0 && addr <= 0xA2:
		idx := int(addr - 0xA0)
		s.freqLow[idx] = b
		return s.evaluateFM(idx, out)

	case addr >= 0xA4 && addr <= 0xA6:
		idx := int(addr - 0xA4)
		s.freqHigh[idx] = b
		return s.evaluateFM(idx, out)
	}
	return out
}

func (s *YM2203State) evaluateFM(idx int, out []StateEvent) []StateEvent {
	fnum := uint16(s.freqHigh[idx]&0x07)<<8 | uint16(s.freqLow[idx])
	block := (s.freqHigh[idx] >> 3) & 0x07
	tone := computeTone(fnumber.OPN, fnum, block, s.masterClockHz)
	goingOn := s.keyBits[idx] != 0
	return applyKeyTransition(&s.channels[idx], idx, goingOn, tone, out)
}

func (s *YM2203State) onSSGWrite(addr uint8, b uint8, out []StateEvent) []StateEvent {
	s.ssgRegs[addr] = b
	switch addr {
	case 0, 1:
		return s.evaluateSSG(0, out)
	case 2, 3:
		return s.evaluateSSG(1, out)
	case 4, 5:
		return s.evaluateSSG(2, out)
	case 6:
		return s.evaluateSSGAll(out)
	case 7:
		s.ssgMixer = b
		return s.evaluateSSGAll(out)
	case 8:
		s.ssgAmplitude[0] = b
		return s.evaluateSSG(0, out)
	case 9:
		s.ssgAmplitude[1] = b
		return s.evaluateSSG(1, out)
	case 10:
		s.ssgAmplitude[2] = b
		return s.evaluateSSG(2, out)
	case 13:
		return s.evaluateSSGAll(out)
	}
	return out
}

func (s *YM2203State) evaluateSSGAll(out []StateEvent) []StateEvent {
	for c := 0; c < 3; c++ {
		out = s.evaluateSSG(c, out)
	}
	return out
}

func (s *YM2203State) evaluateSSG(channel int, out []StateEvent) []StateEvent {
	fine := uint16(s.ssgRegs[channel*2])
	coarse := uint16(s.ssgRegs[channel*2+1] & 0x0F)
	s.ssgPeriod[channel] = coarse<<8 | fine

	toneEnabled := s.ssgMixer&(1<<uint(channel)) == 0
	noiseEnabled := s.ssgMixer&(1<<uint(channel+3)) == 0
	amp := s.ssgAmplitude[channel]
	volume := amp & 0x0F
	useEnvelope := amp&0x10 != 0
	goingOn := (toneEnabled || noiseEnabled) && (volume > 0 || useEnvelope)

	tone := ToneInfo{FNum: s.ssgPeriod[channel]}
	if s.masterClockHz > 0 && s.ssgPeriod[channel] > 0 {
		hz := (s.masterClockHz / 2) / (16.0 * float64(s.ssgPeriod[channel]))
		tone.FreqHz = &hz
	}
	return applyKeyTransition(&s.channels[3+channel], 3+channel, goingOn, tone, out)
}

func (s *YM2203State) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *YM2203State) Reset() {
	s.regs = make(map[uint16]uint8)
	s.freqLow = [3]uint8{}
	s.freqHigh = [3]uint8{}
	s.keyBits = [3]uint8{}
	s.ssgRegs = [14]uint8{}
	s.ssgPeriod = [3]uint16{}
	s.ssgAmplitude = [3]uint8{}
	s.ssgMixer = 0x3F
	s.channels = [6]ChannelState{}
}

func (s *YM2203State) ChannelCount() int { return 6 }

func (s *YM2203State) Channel(i int) ChannelState { return s.channels[i] }
