package state

import "github.com/intuitionamiga/soundlog/chip"

// SAA1099State tracks the Philips SAA1099: six tone/noise channels with
// amplitude registers at 0x00-0x05, frequency registers at 0x08-0x0D,
// octave registers packed two channels per byte at 0x10-0x11, and tone/
// noise enable bitmasks at 0x14 and 0x15.
type SAA1099State struct {
	instance chip.Instance

	amplitude [6]uint8
	freq      [6]uint8
	octave    [6]uint8
	toneEn    uint8
	noiseEn   uint8

	channels [6]ChannelState
}

// NewSAA1099State constructs a tracker with all channels silent.
func NewSAA1099State(inst chip.Instance) *SAA1099State {
	return &SAA1099State{instance: inst}
}

func (s *SAA1099State) Chip() chip.Chip { return chip.SAA1099 }

func (s *SAA1099State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)

	switch {
	case addr <= 0x05:
		s.amplitude[addr] = b
		return s.evaluateChannel(int(addr), out)
	case addr >= 0x08 && addr <= 0x0D:
		ch := int(addr - 0x08)
		s.freq[ch] = b
		return s.evaluateChannel(ch, out)
	case addr == 0x10 || addr == 0x11:
		pair := int(addr - 0x10)
		s.octave[pair*2] = b & 0x07
		s.octave[pair*2+1] = (b >> 4) & 0x07
		out = s.evaluateChannel(pair*2, out)
		return s.evaluateChannel(pair*2+1, out)
	case addr == 0x14:
		s.toneEn = b
		return s.evaluateAll(out)
	case addr == 0x15:
		s.noiseEn = b
		return s.evaluateAll(out)
	}
	return out
}

func (s *SAA1099State) evaluateAll(out []StateEvent) []StateEvent {
	for c := 0; c < 6; c++ {
		out = s.evaluateChannel(c, out)
	}
	return out
}

func (s *SAA1099State) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	volume := s.amplitude[ch] & 0x0F
	rightVolume := (s.amplitude[ch] >> 4) & 0x0F
	toneOn := s.toneEn&(1<<uint(ch)) != 0
	noiseOn := s.noiseEn&(1<<uint(ch)) != 0
	goingOn := (toneOn || noiseOn) && (volume > 0 || rightVolume > 0)
	tone := ToneInfo{FNum: uint16(s.freq[ch]), Block: s.octave[ch]}
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *SAA1099State) ReadRegister(reg uint16) (uint16, bool) {
	addr := uint8(reg)
	switch {
	case addr <= 0x05:
		return uint16(s.amplitude[addr]), true
	case addr >= 0x08 && addr <= 0x0D:
		return uint16(s.freq[addr-0x08]), true
	case addr == 0x14:
		return uint16(s.toneEn), true
	case addr == 0x15:
		return uint16(s.noiseEn), true
	}
	return 0, false
}

func (s *SAA1099State) Reset() {
	s.amplitude = [6]uint8{}
	s.freq = [6]uint8{}
	s.octave = [6]uint8{}
	s.toneEn = 0
	s.noiseEn = 0
	s.channels = [6]ChannelState{}
}

func (s *SAA1099State) ChannelCount() int { return 6 }

func (s *SAA1099State) Channel(i int) ChannelState { return s.channels[i] }
