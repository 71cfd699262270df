package state

import "github.com/intuitionamiga/soundlog/chip"

// GameBoyDMGState tracks the Game Boy's four built-in channels (two pulse,
// one user-wave, one noise), addressed as 0x00-0x14 offsets relative to
// the APU's 0xFF10 base register. As with NESAPUState, length-counter
// decay isn't modelled: a channel counts as sounding while its envelope
// volume (or, for the wave channel, its DAC-enable and output-level
// fields) is nonzero.
type GameBoyDMGState struct {
	instance chip.Instance

	regs map[uint16]uint8

	pulseEnvelope [2]uint8
	pulseFreqLo   [2]uint8
	pulseFreqHi   [2]uint8

	waveDACEnabled bool
	waveLevel      uint8
	waveFreqLo     uint8
	waveFreqHi     uint8

	noiseEnvelope uint8
	noisePoly     uint8

	channels [4]ChannelState // 0,1 pulse; 2 wave; 3 noise
}

// NewGameBoyDMGState constructs a tracker with all channels silent.
func NewGameBoyDMGState(inst chip.Instance) *GameBoyDMGState {
	return &GameBoyDMGState{instance: inst, regs: make(map[uint16]uint8)}
}

func (s *GameBoyDMGState) Chip() chip.Chip { return chip.GameBoyDMG }

func (s *GameBoyDMGState) OnRegisterWrite(reg uint16, value uint16) []StateEvent {
	out := newEvents()
	addr := uint8(reg)
	b := uint8(value)
	s.regs[reg] = b

	switch addr {
	case 0x02:
		s.pulseEnvelope[0] = b >> 4
		return s.evaluatePulse(0, out)
	case 0x03:
		s.pulseFreqLo[0] = b
		return s.evaluatePulse(0, out)
	case 0x04:
		s.pulseFreqHi[0] = b & 0x07
		return s.evaluatePulse(0, out)
	case 0x07:
		s.pulseEnvelope[1] = b >> 4
		return s.evaluatePulse(1, out)
	case 0x08:
		s.pulseFreqLo[1] = b
		return s.evaluatePulse(1, out)
	case 0x09:
		s.pulseFreqHi[1] = b & 0x07
		return s.evaluatePulse(1, out)
	case 0x0A:
		s.waveDACEnabled = b&0x80 != 0
		return s.evaluateWave(out)
	case 0x0C:
		s.waveLevel = (b >> 5) & 0x03
		return s.evaluateWave(out)
	case 0x0D:
		s.waveFreqLo = b
		return s.evaluateWave(out)
	case 0x0E:
		s.waveFreqHi = b & 0x07
		return s.evaluateWave(out)
	case 0x11:
		s.noiseEnvelope = b >> 4
		return s.evaluateNoise(out)
	case 0x12:
		s.noisePoly = b
		return s.evaluateNoise(out)
	}
	return out
}

func (s *GameBoyDMGState) evaluatePulse(ch int, out []StateEvent) []StateEvent {
	period := uint16(s.pulseFreqHi[ch])<<8 | uint16(s.pulseFreqLo[ch])
	goingOn := s.pulseEnvelope[ch] > 0
	tone := ToneInfo{FNum: period}
	return applyKeyTransition(&s.channels[ch], ch, goingOn, tone, out)
}

func (s *GameBoyDMGState) evaluateWave(out []StateEvent) []StateEvent {
	period := uint16(s.waveFreqHi)<<8 | uint16(s.waveFreqLo)
	goingOn := s.waveDACEnabled && s.waveLevel > 0
	tone := ToneInfo{FNum: period}
	return applyKeyTransition(&s.channels[2], 2, goingOn, tone, out)
}

func (s *GameBoyDMGState) evaluateNoise(out []StateEvent) []StateEvent {
	goingOn := s.noiseEnvelope > 0
	tone := ToneInfo{FNum: uint16(s.noisePoly)}
	return applyKeyTransition(&s.channels[3], 3, goingOn, tone, out)
}

func (s *GameBoyDMGState) ReadRegister(reg uint16) (uint16, bool) {
	v, ok := s.regs[reg]
	return uint16(v), ok
}

func (s *GameBoyDMGState) Reset() {
	s.regs = make(map[uint16]uint8)
	s.pulseEnvelope = [2]uint8{}
	s.pulseFreqLo = [2]uint8{}
	s.pulseFreqHi = [2]uint8{}
	s.waveDACEnabled = false
	s.waveLevel = 0
	s.waveFreqLo = 0
	s.waveFreqHi = 0
	s.noiseEnvelope = 0
	s.noisePoly = 0
	s.channels = [4]ChannelState{}
}

func (s *GameBoyDMGState) ChannelCount() int { return 4 }

func (s *GameBoyDMGState) Channel(i int) ChannelState { return s.channels[i] }
