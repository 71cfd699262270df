package state

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/fnumber"
)

// YM2151State tracks the Yamaha OPM: eight FM channels on a single port.
// Unlike the OPN/OPL families, OPM addresses pitch as a key code (octave
// plus a 12-tone, gap-coded note number) and a 6-bit key fraction rather
// than a linear F-number; fnumber.OPMKeyCodeToFNumber converts that pair
// into the same (F-number, block) shape the rest of the package shares.
type YM2151State struct {
	instance      chip.Instance
	masterClockHz float64

	regs map[uint16]uint8

	kc      [8]uint8
	kf      [8]uint8
	keyBits [8]uint8

	channels [8]ChannelState
}

// NewYM2151State constructs a tracker for a master clock in Hz (the
// standard value is 3579545 or 4000000 depending on platform).
func NewYM2151State(inst chip.Instance, masterClockHz float64) *YM2151State {
	return &YM2151State{instance: inst, masterClockHz: masterClockHz, regs: make(map[uint16]uint8)}
}

func (s *YM2151State) Chip() chip.Chip { return chip.YM2151 }

func (s *YM2151State) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	switch {
	case addr == 0x08:
		ch := b & 0x07
		s.keyBits[ch] = (b >> 3) & 0x0F
		return s.evaluateChannel(int(ch), out)
	case addr >= 0x28 && addr <= 0x2F:
		ch := int(addr - 0x28)
		s.kc[ch] = b & 0x7F
		return s.evaluateChannel(ch, out)
	case addr >= 0x30 && addr <= 0x37:
		ch := int(addr - 0x30)
		s.kf[ch] = b
		return s.evaluateChannel(ch, out)
	}
	return out
}

func (s *YM2151State) evaluateChannel(ch int, out []StateEvent) []StateEvent {
	fnum, block := fnumber.OPMKeyCodeToFNumber(s.kc[ch], s.kf[ch])
	tone := computeTone(fnumber.OPMFamily, fnum, block, s.masterClockHz)
	goingOn := s.keyBits[ch] != 0
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *YM2151State) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *YM2151State) Reset() {
	s.regs = make(map[uint16]uint8)
	s.kc = [8]uint8{}
	s.kf = [8]uint8{}
	s.keyBits = [8]uint8{}
	s.channels = [8]ChannelState{}
}

func (s *YM2151State) ChannelCount() int { return 8 }

func (s *YM2151State) Channel(i int) ChannelState { return s.channels[i] }
