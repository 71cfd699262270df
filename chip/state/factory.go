package state

import "github.com/intuitionamiga/soundlog/chip"

// New constructs the appropriate ChipState tracker for c. masterClockHz is
// the chip's configured clock in Hz (0 if unknown or not applicable);
// trackers for chip families without a pitch formula ignore it.
func New(c chip.Chip, inst chip.Instance, masterClockHz float64) ChipState {
	switch c {
	case chip.SN76489:
		return NewSN76489State(inst, masterClockHz)
	case chip.AY8910:
		return NewAY8910State(inst, masterClockHz)
	case chip.YM2413:
		return NewYM2413State(inst, masterClockHz)
	case chip.YM2612:
		return NewYM2612State(inst, masterClockHz)
	case chip.YM2151:
		return NewYM2151State(inst, masterClockHz)
	case chip.YM2203:
		return NewYM2203State(inst, masterClockHz)
	case chip.YM2608:
		return NewYM2608State(inst, masterClockHz)
	case chip.YM2610B:
		return NewYM2610BState(inst, masterClockHz)
	case chip.YM3812, chip.YM3526, chip.Y8950:
		return NewOPLState(c, inst, masterClockHz)
	case chip.YMF262:
		return NewYMF262State(inst, masterClockHz)
	case chip.YMF278B:
		return NewYMF278BState(inst, masterClockHz)
	case chip.YMF271:
		return NewYMF271State(inst, masterClockHz)
	case chip.GameBoyDMG:
		return NewGameBoyDMGState(inst)
	case chip.NESAPU:
		return NewNESAPUState(inst)
	case chip.K051649:
		return NewK051649State(inst)
	case chip.HuC6280:
		return NewHuC6280State(inst)
	case chip.POKEY:
		return NewPOKEYState(inst)
	case chip.WonderSwan:
		return NewWonderSwanState(inst)
	case chip.VSU:
		return NewVSUState(inst)
	case chip.SAA1099:
		return NewSAA1099State(inst)
	case chip.Mikey:
		return NewMikeyState(inst)
	default:
		return NewPCMState(c, inst)
	}
}
