package vgm

import "github.com/intuitionamiga/soundlog/chip"

// chipWriteRow is one row of the declarative opcode table: everything the
// parser and serializer need to handle a simple chip-write command without
// a dedicated switch case. Two lookup directions are built from the same
// table (opcode -> row, chip+port -> opcode) so the parse and serialize
// paths, and the builder's AddChipWrite convenience, never fall out of
// sync with each other.
type chipWriteRow struct {
	opcode byte
	chip   chip.Chip
	// port is the bank this opcode addresses on a multi-port chip (0 or 1).
	// For single-port chips and chips whose wire layout carries its own
	// Port field (ShapePortRegVal8), this is the fixed port implied by the
	// opcode itself.
	port  uint8
	shape ChipWriteShape
}

var chipWriteTable = []chipWriteRow{
	{0x50, chip.SN76489, 0, ShapeRegVal8},
	{0x51, chip.YM2413, 0, ShapeRegVal8},
	{0x52, chip.YM2612, 0, ShapeRegVal8},
	{0x53, chip.YM2612, 1, ShapeRegVal8},
	{0x54, chip.YM2151, 0, ShapeRegVal8},
	{0x55, chip.YM2203, 0, ShapeRegVal8},
	{0x56, chip.YM2608, 0, ShapeRegVal8},
	{0x57, chip.YM2608, 1, ShapeRegVal8},
	{0x58, chip.YM2610B, 0, ShapeRegVal8},
	{0x59, chip.YM2610B, 1, ShapeRegVal8},
	{0x5A, chip.YM3812, 0, ShapeRegVal8},
	{0x5B, chip.YM3526, 0, ShapeRegVal8},
	{0x5C, chip.Y8950, 0, ShapeRegVal8},
	{0x5D, chip.YMZ280B, 0, ShapeRegVal8},
	{0x5E, chip.YMF262, 0, ShapeRegVal8},
	{0x5F, chip.YMF262, 1, ShapeRegVal8},
	{0xA0, chip.AY8910, 0, ShapeRegVal8},
	{0xB0, chip.RF5C68, 0, ShapeRegVal8},
	{0xB1, chip.RF5C164, 0, ShapeRegVal8},
	{0xB2, chip.PWM, 0, ShapeValue24},
	{0xB3, chip.GameBoyDMG, 0, ShapeRegVal8},
	{0xB4, chip.NESAPU, 0, ShapeRegVal8},
	{0xB5, chip.MultiPCM, 0, ShapeOffsetVal8},
	{0xB6, chip.UPD7759, 0, ShapeRegVal8},
	{0xB7, chip.OKIM6258, 0, ShapeRegVal8},
	{0xB8, chip.OKIM6295, 0, ShapeRegVal8},
	{0xB9, chip.HuC6280, 0, ShapeRegVal8},
	{0xBA, chip.K053260, 0, ShapeRegVal8},
	{0xBB, chip.POKEY, 0, ShapeRegVal8},
	{0xBC, chip.WonderSwan, 0, ShapeRegVal8},
	{0xBD, chip.SAA1099, 0, ShapeRegVal8},
	{0xBE, chip.ES5506, 0, ShapeOffsetVal8},
	{0xBF, chip.GA20, 0, ShapeRegVal8},
	{0xC0, chip.SegaPCM, 0, ShapeOffsetVal8},
	{0xC1, chip.K051649, 0, ShapePortRegVal8},
	{0xC2, chip.YMF278B, 0, ShapePortRegVal8},
	{0xC3, chip.YMF271, 0, ShapePortRegVal8},
	{0xC4, chip.QSound, 0, ShapeRegVal16},
	{0xC5, chip.SCSP, 0, ShapeOffsetVal8},
	{0xC6, chip.ES5503, 0, ShapeOffsetVal8},
	{0xC7, chip.X1010, 0, ShapeOffsetVal8},
	{0xC8, chip.C140, 0, ShapeOffsetVal8},
	{0xC9, chip.K054539, 0, ShapeOffsetVal8},
	{0xCA, chip.VSU, 0, ShapeRegVal8},
	{0xCB, chip.Mikey, 0, ShapeRegVal8},
	{0xE1, chip.C352, 0, ShapeReg16Val16},
}

var (
	chipWriteByOpcode    = make(map[byte]chipWriteRow, len(chipWriteTable))
	chipWriteByChipPort  = make(map[chip.Key]byte, len(chipWriteTable))
)

func init() {
	for _, row := range chipWriteTable {
		chipWriteByOpcode[row.opcode] = row
		// A chip with two port opcodes is keyed by (chip,port) via the
		// low byte of chip.Key.Instance borrowed as a port slot only in
		// this lookup; ports are otherwise unrelated to Instance.
		chipWriteByChipPort[chip.Key{Chip: row.chip, Instance: chip.Instance(row.port)}] = row.opcode
	}
}

// payloadLength returns the number of bytes following the opcode byte for
// a chip-write shape.
func (s ChipWriteShape) payloadLength() int {
	switch s {
	case ShapeRegVal8:
		return 2
	case ShapePortRegVal8:
		return 3
	case ShapeOffsetVal8:
		return 3
	case ShapeRegVal16:
		return 3
	case ShapeReg16Val16:
		return 4
	case ShapeValue24:
		return 3
	default:
		return 2
	}
}

// opcodeForChipWrite resolves the opcode byte a Command with the given
// chip and port should serialize to. Used by the builder so callers never
// need to know opcode numbers.
func opcodeForChipWrite(c chip.Chip, port uint8) (byte, bool) {
	op, ok := chipWriteByChipPort[chip.Key{Chip: c, Instance: chip.Instance(port)}]
	return op, ok
}

// ResolveChipWriteOpcode is the exported form of opcodeForChipWrite, for
// callers outside the package that synthesize KindChipWrite commands of
// their own (the stream processor's DAC-stream emitter is the only one
// today) and need the opcode byte serialization keys off of.
func ResolveChipWriteOpcode(c chip.Chip, port uint8) (byte, bool) {
	return opcodeForChipWrite(c, port)
}
