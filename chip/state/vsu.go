package state

import "github.com/intuitionamiga/soundlog/chip"

// VSUState tracks the Virtual Boy's VSU: six channels, each addressed as
// an eight-register block (interval/frequency, envelope, and the
// play-control byte this tracker reads for its enable bit).
type VSUState struct {
	instance chip.Instance

	regs [6][8]uint8

	channels [6]ChannelState
}

// NewVSUState constructs a tracker with all channels silent.
func NewVSUState(inst chip.Instance) *VSUState {
	return &VSUState{instance: inst}
}

func (s *VSUState) Chip() chip.Chip { return chip.VSU }

func (s *VSUState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	ch := int(addr / 8)
	sub := addr % 8
	if ch > 5 {
		return out
	}
	s.regs[ch][sub] = uint8(value)
	return s.evaluateChannel(ch, out)
}

func (s *VSUState) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	playControl := s.regs[ch][0]
	volume := s.regs[ch][2] >> 4
	goingOn := playControl&0x80 != 0 && volume > 0
	freqLow := s.regs[ch][4]
	freqHigh := s.regs[ch][5] & 0x07
	tone := ToneInfo{FNum: uint16(freqHigh)<<8 | uint16(freqLow)}
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *VSUState) ReadRegister(reg uint16) (uint16, bool) {
	addr := uint8(reg)
	ch := int(addr / 8)
	sub := addr % 8
	if ch > 5 {
		return 0, false
	}
	return uint16(s.regs[ch][sub]), true
}

func (s *VSUState) Reset() {
	s.regs = [6][8]uint8{}
	s.channels = [6]ChannelState{}
}

func (s *VSUState) ChannelCount() int { return 6 }

func (s *VSUState) Channel(i int) ChannelState { return s.channels[i] }
