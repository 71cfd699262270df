package state

import "github.com/intuitionamiga/soundlog/chip"

// WonderSwanState tracks the WonderSwan's four-channel wavetable sound
// unit. Each channel occupies a four-register block: frequency low byte,
// frequency high byte (5 bits), volume (left/right nibbles), and a mode
// byte whose enable bit this tracker reads for KeyOn/KeyOff.
type WonderSwanState struct {
	instance chip.Instance

	freqLow  [4]uint8
	freqHigh [4]uint8
	volume   [4]uint8
	mode     [4]uint8

	channels [4]ChannelState
}

// NewWonderSwanState constructs a tracker with all channels silent.
func NewWonderSwanState(inst chip.Instance) *WonderSwanState {
	return &WonderSwanState{instance: inst}
}

func (s *WonderSwanState) Chip() chip.Chip { return chip.WonderSwan }

func (s *WonderSwanState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	ch := int(addr / 4)
	sub := addr % 4
	if ch > 3 {
		return out
	}
	b := uint8(value)
	switch sub {
	case 0:
		s.freqLow[ch] = b
	case 1:
		s.freqHigh[ch] = b & 0x1F
	case 2:
		s.volume[ch] = b
	case 3:
		s.mode[ch] = b
	}
	return s.evaluateChannel(ch, out)
}

func (s *WonderSwanState) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	period := uint16(s.freqHigh[ch])<<8 | uint16(s.freqLow[ch])
	goingOn := s.mode[ch]&0x80 != 0 && s.volume[ch] != 0
	tone := ToneInfo{FNum: period}
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *WonderSwanState) ReadRegister(reg uint16) (uint16, bool) {
	addr := uint8(reg)
	ch := int(addr / 4)
	sub := addr % 4
	if ch > 3 {
		return 0, false
	}
	switch sub {
	case 0:
		return uint16(s.freqLow[ch]), true
	case 1:
		return uint16(s.freqHigh[ch]), true
	case 2:
		return uint16(s.volume[ch]), true
	case 3:
		return uint16(s.mode[ch]), true
	}
	return 0, false
}

func (s *WonderSwanState) Reset() {
	s.freqLow = [4]uint8{}
	s.freqHigh = [4]uint8{}
	s.volume = [4]uint8{}
	s.mode = [4]uint8{}
	s.channels = [4]ChannelState{}
}

func (s *WonderSwanState) ChannelCount() int { return 4 }

func (s *WonderSwanState) Channel(i int) ChannelState { return s.channels[i] }
