package state

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/fnumber"
)

// YM2610BState tracks the Yamaha OPNB: the same two-port, six-channel FM
// core and embedded SSG as the OPNA, plus ADPCM-A (six fixed sample
// voices) and ADPCM-B (one voice) sections whose registers are stored but
// produce no pitch events, matching YM2608State's treatment of its
// rhythm section. The FM core shares OPN2's F-number formula; real OPNB
// silicon is an OPN2 derivative in this respect.
type YM2610BState struct {
	instance      chip.Instance
	masterClockHz float64

	regs map[uint16]uint8

	freqLow  [6]uint8
	freqHigh [6]uint8
	keyBits  [6]uint8

	ssgRegs      [14]uint8
	ssgPeriod    [3]uint16
	ssgAmplitude [3]uint8
	ssgMixer     uint8

	// channels 0-5 are FM, 6-8 are the SSG's tone generators.
	channels [9]ChannelState
}

// NewYM2610BState constructs a tracker for a master clock in Hz (the
// standard value is 8000000).
func NewYM2610BState(inst chip.Instance, masterClockHz float64) *YM2610BState {
	return &YM2610BState{instance: inst, masterClockHz: masterClockHz, regs: make(map[uint16]uint8), ssgMixer: 0x3F}
}

func (s *YM2610BState) Chip() chip.Chip { return chip.YM2610B }

func (s *YM2610BState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	port := reg >> 8
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	if port == 0 && addr <= 0x0D {
		return s.onSSGWrite(addr, b, out)
	}

	switch {
	case addr == 0x28:
		chSelPort := (b >> 2) & 0x01
		chSelCh := b & 0x03
		if chSelCh > 2 {
			return out
		}
		idx := int(chSelPort)*3 + int(chSelCh)
		s.keyBits[idx] = (b >> 4) & 0x0F
		return s.evaluateFM(idx, out)

	case addr >= 0xA0 && addr <= 0xA2:
		idx := int(port)*3 + int(addr-0xA0)
		if idx >= 6 {
			return out
		}
		s.freqLow[idx] = b
		return s.evaluateFM(idx, out)

	case addr >= 0xA4 && addr <= 0xA6:
		idx := int(port)*3 + int(addr-0xA4)
		if idx >= 6 {
			return out
		}
		s.freqHigh[idx] = b
		return s.evaluateFM(idx, out)
	}
	// ADPCM-A / ADPCM-B register space: stored above, no channel events.
	return out
}

func (s *YM2610BState) evaluateFM(idx int, out []StateEvent) []StateEvent {
	fnum := uint16(s.freqHigh[idx]&0x07)<<8 | uint16(s.freqLow[idx])
	block := (s.freqHigh[idx] >> 3) & 0x07
	tone := computeTone(fnumber.OPN2, fnum, block, s.masterClockHz)
	goingOn := s.keyBits[idx] != 0
	return applyKeyTransition(&s.channels[idx], idx, goingOn, tone, out)
}

func (s *YM2610BState) onSSGWrite(addr uint8, b uint8, out []StateEvent) []StateEvent {
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

func (s *YM2610BState) evaluateSSGAll(out []StateEvent) []StateEvent {
	for c := 0; c < 3; c++ {
		out = s.evaluateSSG(c, out)
	}
	return out
}

func (s *YM2610BState) evaluateSSG(channel int, out []StateEvent) []StateEvent {
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
	return applyKeyTransition(&s.channels[6+channel], 6+channel, goingOn, tone, out)
}

func (s *YM2610BState) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *YM2610BState) Reset() {
	s.regs = make(map[uint16]uint8)
	s.freqLow = [6]uint8{}
	s.freqHigh = [6]uint8{}
	s.keyBits = [6]uint8{}
	s.ssgRegs = [14]uint8{}
	s.ssgPeriod = [3]uint16{}
	s.ssgAmplitude = [3]uint8{}
	s.ssgMixer = 0x3F
	s.channels = [9]ChannelState{}
}

func (s *YM2610BState) ChannelCount() int { return 9 }

func (s *YM2610BState) Channel(i int) ChannelState { return s.channels[i] }
