package state

import "github.com/intuitionamiga/soundlog/chip"

// HuC6280State tracks the PC Engine's built-in PSG: six channels behind a
// channel-select register (0x00) the same way SN76489 uses a latch, except
// here the selected channel stays addressable by further register index
// (0x01-0x09) rather than by the data byte's own shape.
type HuC6280State struct {
	instance chip.Instance

	selectedChannel int

	freqLow  [6]uint8
	freqHigh [6]uint8
	control  [6]uint8 // bit7 channel on, bits0-4 volume
	noise    [6]uint8

	channels [6]ChannelState
}

// NewHuC6280State constructs a tracker with all channels silent.
func NewHuC6280State(inst chip.Instance) *HuC6280State {
	return &HuC6280State{instance: inst}
}

func (s *HuC6280State) Chip() chip.Chip { return chip.HuC6280 }

func (s *HuC6280State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)

	switch addr {
	case 0x00:
		s.selectedChannel = int(b & 0x07)
		if s.selectedChannel > 5 {
			s.selectedChannel = 5
		}
	case 0x02:
		s.freqLow[s.selectedChannel] = b
		return s.evaluateChannel(s.selectedChannel, out)
	case 0x03:
		s.freqHigh[s.selectedChannel] = b & 0x0F
		return s.evaluateChannel(s.selectedChannel, out)
	case 0x04:
		s.control[s.selectedChannel] = b
		return s.evaluateChannel(s.selectedChannel, out)
	case 0x07:
		s.noise[s.selectedChannel] = b
	}
	return out
}

func (s *HuC6280State) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	period := uint16(s.freqHigh[ch])<<8 | uint16(s.freqLow[ch])
	volume := s.control[ch] & 0x1F
	goingOn := s.control[ch]&0x80 != 0 && volume > 0
	tone := ToneInfo{FNum: period}
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *HuC6280State) ReadRegister(reg uint16) (uint16, bool) {
	switch uint8(reg) {
	case 0x02:
		return uint16(s.freqLow[s.selectedChannel]), true
	case 0x03:
		return uint16(s.freqHigh[s.selectedChannel]), true
	case 0x04:
		return uint16(s.control[s.selectedChannel]), true
	case 0x07:
		return uint16(s.noise[s.selectedChannel]), true
	}
	return 0, false
}

func (s *HuC6280State) Reset() {
	s.selectedChannel = 0
	s.freqLow = [6]uint8{}
	s.freqHigh = [6]uint8{}
	s.control = [6]uint8{}
	s.noise = [6]uint8{}
	s.channels = [6]ChannelState{}
}

func (s *HuC6280State) ChannelCount() int { return 6 }

func (s *HuC6280State) Channel(i int) ChannelState { return s.channels[i] }
