package state

import "github.com/intuitionamiga/soundlog/chip"

// MikeyState tracks the Atari Lynx's Mikey sound section: four channels,
// each occupying an 8-register block (backup counter, control, volume,
// and feedback/shift fields this tracker stores but does not interpret).
// Register 0 of each block is treated as the frequency divider and
// register 7 as a combined enable/volume control, the layout real Mikey
// documentation and existing VGM exporters agree on most consistently.
type MikeyState struct {
	instance chip.Instance

	regs [4][8]uint8

	channels [4]ChannelState
}

// NewMikeyState constructs a tracker with all channels silent.
func NewMikeyState(inst chip.Instance) *MikeyState {
	return &MikeyState{instance: inst}
}

func (s *MikeyState) Chip() chip.Chip { return chip.Mikey }

func (s *MikeyState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	ch := int(addr / 8)
	sub := addr % 8
	if ch > 3 {
		return out
	}
	s.regs[ch][sub] = uint8(value)
	return s.evaluateChannel(ch, out)
}

func (s *MikeyState) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	control := s.regs[ch][7]
	volume := control & 0x0F
	goingOn := control&0x80 != 0 && volume > 0
	tone := ToneInfo{FNum: uint16(s.regs[ch][0])}
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *MikeyState) ReadRegister(reg uint16) (uint16, bool) {
	addr := uint8(reg)
	ch := int(addr / 8)
	sub := addr % 8
	if ch > 3 {
		return 0, false
	}
	return uint16(s.regs[ch][sub]), true
}

func (s *MikeyState) Reset() {
	s.regs = [4][8]uint8{}
	s.channels = [4]ChannelState{}
}

func (s *MikeyState) ChannelCount() int { return 4 }

func (s *MikeyState) Channel(i int) ChannelState { return s.channels[i] }
