package state

import "github.com/intuitionamiga/soundlog/chip"

// NESAPUState tracks the NES's APU: two pulse channels, a triangle, a
// noise channel, and a DMC sample channel, addressed as the 0x00-0x13
// offsets relative to the APU's $4000 base (the convention VGM register
// writes for this chip use). Length-counter decay isn't modelled; a
// channel is considered sounding while its volume/counter field is
// nonzero, the same heuristic SN76489State applies to attenuation.
type NESAPUState struct {
	instance chip.Instance

	regs map[uint16]uint8

	pulseVolume  [2]uint8
	pulseTimerLo [2]uint8
	pulseTimerHi [2]uint8

	triCounter  uint8
	triTimerLo  uint8
	triTimerHi  uint8

	noiseVolume uint8
	noisePeriod uint8

	channels [5]ChannelState // 0,1 pulse; 2 triangle; 3 noise; 4 DMC (store only)
}

// NewNESAPUState constructs a tracker with all channels silent.
func NewNESAPUState(inst chip.Instance) *NESAPUState {
	return &NESAPUState{instance: inst, regs: make(map[uint16]uint8)}
}

func (s *NESAPUState) Chip() chip.Chip { return chip.NESAPU }

func (s *NESAPUState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	switch {
	case addr == 0x00 || addr == 0x04:
		ch := 0
		if addr == 0x04 {
			ch = 1
		}
		s.pulseVolume[ch] = b & 0x0F
		return s.evaluatePulse(ch, out)
	case addr == 0x02 || addr == 0x06:
		ch := 0
		if addr == 0x06 {
			ch = 1
		}
		s.pulseTimerLo[ch] = b
		return s.evaluatePulse(ch, out)
	case addr == 0x03 || addr == 0x07:
		ch := 0
		if addr == 0x07 {
			ch = 1
		}
		s.pulseTimerHi[ch] = b & 0x07
		return s.evaluatePulse(ch, out)
	case addr == 0x08:
		s.triCounter = b & 0x7F
		return s.evaluateTriangle(out)
	case addr == 0x0A:
		s.triTimerLo = b
		return s.evaluateTriangle(out)
	case addr == 0x0B:
		s.triTimerHi = b & 0x07
		return s.evaluateTriangle(out)
	case addr == 0x0C:
		s.noiseVolume = b & 0x0F
		return s.evaluateNoise(out)
	case addr == 0x0E:
		s.noisePeriod = b & 0x0F
		return s.evaluateNoise(out)
	}
	return out
}

func (s *NESAPUState) evaluatePulse(ch int, out []StateEvent) []StateEvent {
	period := uint16(s.pulseTimerHi[ch])<<8 | uint16(s.pulseTimerLo[ch])
	goingOn := s.pulseVolume[ch] > 0
	tone := ToneInfo{FNum: period}
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *NESAPUState) evaluateTriangle(out []StateEvent) []StateEvent {
	period := uint16(s.triTimerHi)<<8 | uint16(s.triTimerLo)
	goingOn := s.triCounter > 0
	tone := ToneInfo{FNum: period}
	return applyKeyTransition(&s.channels[2], 2, goingOn, tone, out)
}

func (s *NESAPUState) evaluateNoise(out []StateEvent) []StateEvent {
	goingOn := s.noiseVolume > 0
	tone := ToneInfo{FNum: uint16(s.noisePeriod)}
	return applyKeyTransition(&s.channels[3], 3, goingOn, tone, out)
}

func (s *NESAPUState) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *NESAPUState) Reset() {
	s.regs = make(map[uint16]uint8)
	s.pulseVolume = [2]uint8{}
	s.pulseTimerLo = [2]uint8{}
	s.pulseTimerHi = [2]uint8{}
	s.triCounter = 0
	s.triTimerLo = 0
	s.triTimerHi = 0
	s.noiseVolume = 0
	s.noisePeriod = 0
	s.channels = [5]ChannelState{}
}

func (s *NESAPUState) ChannelCount() int { return 5 }

func (s *NESAPUState) Channel(i int) ChannelState { return s.channels[i] }
