package state

import "github.com/intuitionamiga/soundlog/chip"

// AY8910State tracks the General Instrument AY-3-8910 (and its YM2149
// compatible successor): three tone/noise mixer channels driven by 14
// addressed registers. Unlike SN76489, the VGM stream gives this chip an
// explicit register index per write, so no latch bookkeeping is needed.
type AY8910State struct {
	instance      chip.Instance
	masterClockHz float64

	regs [14]uint8

	period    [3]uint16 // 12-bit tone period per channel
	amplitude [3]uint8  // bits 0-3 volume, bit 4 "use envelope"
	mixer     uint8

	channels [3]ChannelState
}

// NewAY8910State constructs a tracker with all channels silent, for a
// master clock in Hz (typical values are 1789772 or 2000000).
func NewAY8910State(inst chip.Instance, masterClockHz float64) *AY8910State {
	return &AY8910State{instance: inst, masterClockHz: masterClockHz, mixer: 0x3F}
}

func (s *AY8910State) Chip() chip.Chip { return chip.AY8910 }

func (s *AY8910State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	if reg > 13 {
		return out
	}
	b := uint8(value)
	s.regs[reg] = b

	switch reg {
	case 0, 1:
		s.period[0] = s.combinedPeriod(0)
		return s.evaluateChannel(0, out)
	case 2, 3:
		s.period[1] = s.combinedPeriod(1)
		return s.evaluateChannel(1, out)
	case 4, 5:
		s.period[2] = s.combinedPeriod(2)
		return s.evaluateChannel(2, out)
	case 6:
		return s.evaluateAll(out)
	case 7:
		s.mixer = b
		return s.evaluateAll(out)
	case 8:
		s.amplitude[0] = b
		return s.evaluateChannel(0, out)
	case 9:
		s.amplitude[1] = b
		return s.evaluateChannel(1, out)
	case 10:
		s.amplitude[2] = b
		return s.evaluateChannel(2, out)
	case 11, 12:
		return out
	case 13:
		return s.evaluateAll(out)
	}
	return out
}

func (s *AY8910State) combinedPeriod(channel int) uint16 {
	fine := uint16(s.regs[channel*2])
	coarse := uint16(s.regs[channel*2+1] & 0x0F)
	return coarse<<8 | fine
}

// toneEnabled/noiseEnabled read the mixer's active-low enable bits: a 0
// bit means the generator feeds the channel, a 1 bit mutes it.
func (s *AY8910State) toneEnabled(channel int) bool {
	return s.mixer&(1<<uint(channel)) == 0
}

func (s *AY8910State) noiseEnabled(channel int) bool {
	return s.mixer&(1<<uint(channel+3)) == 0
}

func (s *AY8910State) evaluateAll(out []StateEvent) []StateEvent {
	for c := 0; c < 3; c++ {
		out = s.evaluateChannel(c, out)
	}
	return out
}

func (s *AY8910State) evaluateChannel(channel int, out []StateEvent) []StateEvent {
	amp := s.amplitude[channel]
	volume := amp & 0x0F
	useEnvelope := amp&0x10 != 0
	sounding := s.toneEnabled(channel) || s.noiseEnabled(channel)
	goingOn := sounding && (volume > 0 || useEnvelope)
	tone := ToneInfo{FNum: s.period[channel]}
	if s.masterClockHz > 0 && s.period[channel] > 0 {
		// AY/YM2149 tone generator: divides the clock by 16 then by the
		// 12-bit period register.
		hz := s.masterClockHz / (16.0 * float64(s.period[channel]))
		tone.FreqHz = &hz
	}
	return applyKeyTransition(&s.channels[channel], channel, goingOn, tone, out)
}

func (s *AY8910State) ReadRegister(reg uint16) (uint16, bool) {
	if reg > 13 {
		return 0, false
	}
	return uint16(s.regs[reg]), true
}

func (s *AY8910State) Reset() {
	s.regs = [14]uint8{}
	s.period = [3]uint16{}
	s.amplitude = [3]uint8{}
	s.mixer = 0x3F
	s.channels = [3]ChannelState{}
}

func (s *AY8910State) ChannelCount() int { return 3 }

func (s *AY8910State) Channel(i int) ChannelState { return s.channels[i] }
