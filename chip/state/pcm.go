package state

import "github.com/intuitionamiga/soundlog/chip"

// PCMState is the shared tracker for chips this package treats as pure
// sample players: SegaPCM, RF5C68, RF5C164, YMZ280B, MultiPCM, UPD7759,
// OKIM6258, OKIM6295, K054539, K053260, QSound, SCSP, ES5503, ES5506,
// X1010, C140, C352, GA20, and PWM. None of these expose a tone/pitch
// abstraction this package's state-tracking vocabulary can meaningfully
// represent (samples are played back verbatim, not synthesized from a
// frequency register), so writes are stored for ReadRegister but never
// produce a StateEvent, and ChannelCount is 0.
type PCMState struct {
	c        chip.Chip
	instance chip.Instance

	regs map[uint16]uint16
}

// NewPCMState constructs a register-only tracker for one of the PCM-class
// chips named above.
func NewPCMState(c chip.Chip, inst chip.Instance) *PCMState {
	return &PCMState{c: c, instance: inst, regs: make(map[uint16]uint16)}
}

func (s *PCMState) Chip() chip.Chip { return s.c }

func (s *PCMState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	s.regs[reg] = value
	return nil
}

func (s *PCMState) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return v, ok
}

func (s *PCMState) Reset() {
	s.regs = make(map[uint16]uint16)
}

func (s *PCMState) ChannelCount() int { return 0 }

func (s *PCMState) Channel(i int) ChannelState { return ChannelState{} }
