package state

import "github.com/intuitionamiga/soundlog/chip"

// POKEYState tracks the Atari POKEY: four channels, each an 8-bit
// frequency divider register paired with a control register whose low
// nibble is volume and whose high nibble selects the distortion mode.
type POKEYState struct {
	instance chip.Instance

	freq    [4]uint8
	control [4]uint8
	audctl  uint8

	channels [4]ChannelState
}

// NewPOKEYState constructs a tracker with all channels silent.
func NewPOKEYState(inst chip.Instance) *POKEYState {
	return &POKEYState{instance: inst}
}

func (s *POKEYState) Chip() chip.Chip { return chip.POKEY }

func (s *POKEYState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)

	switch {
	case addr == 0x08:
		s.audctl = b
		return out
	case addr <= 0x07:
		ch := int(addr / 2)
		if addr%2 == 0 {
			s.freq[ch] = b
		} else {
			s.control[ch] = b
		}
		return s.evaluateChannel(ch, out)
	}
	return out
}

func (s *POKEYState) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	volume := s.control[ch] & 0x0F
	goingOn := volume > 0
	tone := ToneInfo{FNum: uint16(s.freq[ch])}
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *POKEYState) ReadRegister(reg uint16) (uint16, bool) {
	addr := uint8(reg)
	if addr == 0x08 {
		return uint16(s.audctl), true
	}
	if addr <= 0x07 {
		ch := int(addr / 2)
		if addr%2 == 0 {
			return uint16(s.freq[ch]), true
		}
		return uint16(s.control[ch]), true
	}
	return 0, false
}

func (s *POKEYState) Reset() {
	s.freq = [4]uint8{}
	s.control = [4]uint8{}
	s.audctl = 0
	s.channels = [4]ChannelState{}
}

func (s *POKEYState) ChannelCount() int { return 4 }

func (s *POKEYState) Channel(i int) ChannelState { return s.channels[i] }
