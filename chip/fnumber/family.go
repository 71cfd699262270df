// Package fnumber implements the F-number/Block/master-clock <-> Hz math
// shared across Yamaha FM chip families, plus a reverse lookup used only
// by test harnesses to build "which F-number is closest to note X" tables.
package fnumber

import (
	"fmt"
	"math"
)

// Family describes one F-number encoding convention. freq_hz is derived as
//
//	freq_hz = F * (clockHz * Prescaler) / (Denom * 2^(Exp - block))
//
// Denom/Exp/Prescaler reconcile the different conventions chip designers
// documented for the same underlying idea: a fixed-point fractional
// frequency stepped by an octave-selecting Block field. Constants below
// mirror each chip's application-manual formula.
type Family struct {
	Name       string
	Denom      float64
	Exp        int
	Prescaler  float64
	FNumBits   int // width of the F-number field
	BlockBits  int // width of the Block field
	A4Block    uint8
	DefaultClk float64
}

// OPN is the YM2203 application-manual formula: freq = FN*fM/(144*2^(20-B)),
// expressed with prescaler 2 against a shared Exp=21 so the family table
// lines up with OPNA/OPN2 (fn = FN*fM*2/(144*2^(21-B)) is the same value).
var OPN = Family{Name: "OPN", Denom: 144, Exp: 21, Prescaler: 2, FNumBits: 11, BlockBits: 3, A4Block: 6, DefaultClk: 4000000}

// OPNA covers YM2608/YM2610(B); OPN2 covers YM2612. Both run the OPN2 FM
// engine at fM/144 with prescaler 1: freq = FN*fM/(144*2^(21-B)).
var OPNA = Family{Name: "OPNA", Denom: 144, Exp: 21, Prescaler: 1, FNumBits: 11, BlockBits: 3, A4Block: 4, DefaultClk: 8000000}
var OPN2 = Family{Name: "OPN2", Denom: 144, Exp: 21, Prescaler: 1, FNumBits: 11, BlockBits: 3, A4Block: 4, DefaultClk: 7670454}

// OPL covers YM3526, OPL2 covers YM3812/Y8950: freq = FN*fM/(72*2^(20-B)).
var OPL = Family{Name: "OPL", Denom: 72, Exp: 20, Prescaler: 1, FNumBits: 11, BlockBits: 3, A4Block: 4, DefaultClk: 14318180}
var OPL2 = Family{Name: "OPL2", Denom: 72, Exp: 20, Prescaler: 1, FNumBits: 10, BlockBits: 3, A4Block: 5, DefaultClk: 3579545}

// OPLL (YM2413) is the same OPL-family formula with a 9-bit F-number.
var OPLL = Family{Name: "OPLL", Denom: 72, Exp: 20, Prescaler: 1, FNumBits: 9, BlockBits: 3, A4Block: 6, DefaultClk: 3579545}

// OPL3 (YMF262) widens the constant to 288 against its ~14.3 MHz clock:
// freq = FN*fM/(288*2^(20-B)). Structurally the same ratio as OPL2.
var OPL3 = Family{Name: "OPL3", Denom: 288, Exp: 20, Prescaler: 1, FNumBits: 10, BlockBits: 3, A4Block: 5, DefaultClk: 14318180}

// OPX (YMF271) is the OPL3 formula with a 12-bit F-number and its own
// 16.9344 MHz crystal.
var OPX = Family{Name: "OPX", Denom: 288, Exp: 20, Prescaler: 1, FNumBits: 12, BlockBits: 3, A4Block: 4, DefaultClk: 16934400}

// ToHz computes the produced frequency for an F-number/Block pair under a
// family at a given master clock. It validates clockHz is finite and
// positive and F fits the family's bit width, returning an error
// otherwise (§4.2's "must validate" contract).
func (f Family) ToHz(fnum uint32, block uint8, clockHz float64) (float64, error) {
	if math.IsNaN(clockHz) || math.IsInf(clockHz, 0) || clockHz <= 0 {
		return 0, fmt.Errorf("fnumber: invalid master clock %v for family %s", clockHz, f.Name)
	}
	maxF := uint32(1)<<f.FNumBits - 1
	if fnum > maxF {
		return 0, fmt.Errorf("fnumber: F-number %d exceeds %d-bit width for family %s", fnum, f.FNumBits, f.Name)
	}
	maxBlock := uint8(1)<<f.BlockBits - 1
	if block > maxBlock {
		return 0, fmt.Errorf("fnumber: block %d exceeds %d-bit width for family %s", block, f.BlockBits, f.Name)
	}
	shift := f.Exp - int(block)
	denomPow := math.Ldexp(1, shift)
	return float64(fnum) * clockHz * f.Prescaler / (f.Denom * denomPow), nil
}

// FromHz is the inverse of ToHz: the ideal (fractional) F-number that would
// produce targetHz at the given block and clock. Used by the reverse
// lookup table builder, never by the hot tracking path.
func (f Family) FromHz(targetHz float64, block uint8, clockHz float64) float64 {
	shift := f.Exp - int(block)
	denomPow := math.Ldexp(1, shift)
	return targetHz * f.Denom * denomPow / (clockHz * f.Prescaler)
}

// OPMKeyCodeToFNumber synthesizes an F-number-shaped value from the
// YM2151's proprietary note-code + key-fraction encoding:
// fnum = (note_code * 64) + (kf >> 2).
//
// kc is the raw 0x28+ channel register (bits 6-4: octave/block, bits 3-0:
// note code with values 0,1,2,4,5,6,8,9,10,12,13,14 mapping to the 12
// semitones — 3,7,11,15 are gaps in the YM2151's note encoding and fold
// down to the preceding semitone). kf is the raw 0x30+ channel register (top 6 bits
// used as key fraction).
func OPMKeyCodeToFNumber(kc, kf uint8) (fnum uint16, block uint8) {
	block = (kc >> 4) & 0x07
	note := kc & 0x0F
	noteCode := opmNoteTable[note]
	kfTop := uint16(kf) >> 2
	return uint16(noteCode)*64 + kfTop, block
}

// opmNoteTable maps the YM2151's gapped 4-bit note field to a dense
// 0..11 semitone index, folding each unused code (3, 7, 11, 15) down to
// the semitone of the defined code just below it.
var opmNoteTable = [16]uint8{
	0, 1, 2, 2, 3, 4, 5, 5, 6, 7, 8, 8, 9, 10, 11, 11,
}

// OPMFamily treats the synthesized note-code/key-fraction F-number as an
// 11-bit field under the OPN2 ratio, which is the convention real YM2151
// drivers use when deriving a displayable Hz value from KC/KF.
var OPMFamily = Family{Name: "OPM", Denom: 144, Exp: 21, Prescaler: 1, FNumBits: 11, BlockBits: 3, A4Block: 5, DefaultClk: 3579545}
