package state

import "github.com/intuitionamiga/soundlog/chip"

// SN76489State tracks the Texas Instruments PSG's internal latch. Unlike
// the FM chips, the VGM command stream gives this chip one byte at a time
// with no separate register address: the byte's own top bit says whether
// it is a new latch (selecting a channel and register type) or a data byte
// continuing the previously latched tone register. OnRegisterWrite's reg
// parameter is unused for this chip and is always 0; value carries the
// single data byte in its low 8 bits.
type SN76489State struct {
	instance      chip.Instance
	masterClockHz float64

	// latchedChannel/latchedIsVolume record the most recent latch byte, so
	// a following data byte knows what it continues.
	latchedChannel  int
	latchedIsVolume bool

	tone        [4]uint16 // 10-bit period for channels 0-2, noise control for channel 3
	attenuation [4]uint8  // 4-bit, 0 = loudest, 0xF = silent
	channels    [4]ChannelState
}

// NewSN76489State constructs a tracker with all four channels silent, for
// a master clock in Hz (the NTSC value is 3579545).
func NewSN76489State(inst chip.Instance, masterClockHz float64) *SN76489State {
	s := &SN76489State{instance: inst, masterClockHz: masterClockHz}
	for i := range s.attenuation {
		s.attenuation[i] = 0xF
	}
	return s
}

func (s *SN76489State) Chip() chip.Chip { return chip.SN76489 }

func (s *SN76489State) OnRegisterWrite(_ uint16, value uint16) []StateEvent {
	b := uint8(value)
	out := newEvents()

	if b&0x80 != 0 {
		channel := int(b>>5) & 0x03
		isVolume := b&0x10 != 0
		data := b & 0x0F
		s.latchedChannel = channel
		s.latchedIsVolume = isVolume

		if isVolume {
			s.attenuation[channel] = data
			return s.evaluateChannel(channel, out)
		}
		s.tone[channel] = (s.tone[channel] &^ 0x000F) | uint16(data)
		return s.evaluateChannel(channel, out)
	}

	// Data byte: only tone registers have a second byte (the high 6 bits
	// of a 10-bit period); a data byte following a volume latch is
	// spurious and ignored, matching real hardware's latch behavior.
	if s.latchedIsVolume {
		return out
	}
	channel := s.latchedChannel
	s.tone[channel] = (s.tone[channel] & 0x000F) | (uint16(b&0x3F) << 4)
	return s.evaluateChannel(channel, out)
}

func (s *SN76489State) evaluateChannel(channel int, out []StateEvent) []StateEvent {
	goingOn := s.attenuation[channel] < 0xF
	tone := ToneInfo{FNum: s.tone[channel]}
	if channel != 3 && s.masterClockHz > 0 && s.tone[channel] > 0 {
		// PSG period -> Hz: the tone generator divides the clock by 32
		// and then by the 10-bit period register.
		hz := s.masterClockHz / (32.0 * float64(s.tone[channel]))
		tone.FreqHz = &hz
	}
	return applyKeyTransition(&s.channels[channel], channel, goingOn, tone, out)
}

func (s *SN76489State) ReadRegister(reg uint16) (uint16, bool) {
	if reg > 3 {
		return 0, false
	}
	return s.tone[reg], true
}

func (s *SN76489State) Reset() {
	for i := range s.channels {
		s.channels[i] = ChannelState{}
		s.tone[i] = 0
		s.attenuation[i] = 0xF
	}
	s.latchedChannel = 0
	s.latchedIsVolume = false
}

func (s *SN76489State) ChannelCount() int { return 4 }

func (s *SN76489State) Channel(i int) ChannelState { return s.channels[i] }
