package state

import "github.com/intuitionamiga/soundlog/chip"

// K051649State tracks the Konami SCC/SCC1 wavetable chip: five channels,
// each a 32-byte user waveform played back at a 12-bit frequency, with a
// shared per-channel volume and a one-register enable mask. Waveform RAM
// writes are stored but produce no events.
type K051649State struct {
	instance chip.Instance

	freqLow  [5]uint8
	freqHigh [5]uint8
	volume   [5]uint8
	enable   uint8

	channels [5]ChannelState
}

// NewK051649State constructs a tracker with all channels silent.
func NewK051649State(inst chip.Instance) *K051649State {
	return &K051649State{instance: inst}
}

func (s *K051649State) Chip() chip.Chip { return chip.K051649 }

func (s *K051649State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)

	switch {
	case addr < 0xA0:
		return out // waveform RAM
	case addr >= 0xA0 && addr <= 0xA9:
		ch := int(addr-0xA0) / 2
		if (addr-0xA0)%2 == 0 {
			s.freqLow[ch] = b
		} else {
			s.freqHigh[ch] = b & 0x0F
		}
		return s.evaluateChannel(ch, out)
	case addr >= 0xAA && addr <= 0xAE:
		ch := int(addr - 0xAA)
		s.volume[ch] = b & 0x0F
		return s.evaluateChannel(ch, out)
	case addr == 0xAF:
		s.enable = b
		return s.evaluateAll(out)
	}
	return out
}

func (s *K051649State) evaluateAll(out []StateEvent) []StateEvent {
	for c := 0; c < 5; c++ {
		out = s.evaluateChannel(c, out)
	}
	return out
}

func (s *K051649State) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	period := uint16(s.freqHigh[ch])<<8 | uint16(s.freqLow[ch])
	goingOn := s.enable&(1<<uint(ch)) != 0 && s.volume[ch] > 0
	tone := ToneInfo{FNum: period}
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *K051649State) ReadRegister(reg uint16) (uint16, bool) {
	addr := uint8(reg)
	if addr == 0xAF {
		return uint16(s.enable), true
	}
	if addr >= 0xAA && addr <= 0xAE {
		return uint16(s.volume[addr-0xAA]), true
	}
	if addr >= 0xA0 && addr <= 0xA9 {
		ch := int(addr-0xA0) / 2
		if (addr-0xA0)%2 == 0 {
			return uint16(s.freqLow[ch]), true
		}
		return uint16(s.freqHigh[ch]), true
	}
	return 0, false
}

func (s *K051649State) Reset() {
	s.freqLow = [5]uint8{}
	s.freqHigh = [5]uint8{}
	s.volume = [5]uint8{}
	s.enable = 0
	s.channels = [5]ChannelState{}
}

func (s *K051649State) ChannelCount() int { return 5 }

func (s *K051649State) Channel(i int) ChannelState { return s.channels[i] }
