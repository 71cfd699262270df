package vgm

import (
	"fmt"

	"github.com/intuitionamiga/soundlog/binutil"
	"github.com/intuitionamiga/soundlog/chip"
)

// instanceBit is the VGM convention this codec follows for chip writes
// that have no dedicated port field: the high bit of the register byte
// flags the secondary instance of that chip model. Chips with a port byte
// carry the same bit on the port byte instead, since the register byte
// there is already fully used by the chip's own addressing.
const instanceBit = 0x80

func splitInstance(b byte) (value byte, inst chip.Instance) {
	if b&instanceBit != 0 {
		return b &^ instanceBit, chip.Secondary
	}
	return b, chip.Primary
}

func joinInstance(b byte, inst chip.Instance) byte {
	if inst == chip.Secondary {
		return b | instanceBit
	}
	return b
}

// parseCommand decodes a single command at the reader's current position,
// advancing the cursor past it. offset is the command's position in the
// original buffer, used to stamp Command.Offset for later loop-index
// resolution.
func parseCommand(r *binutil.Reader, offset int, dataBlocks *[]*DataBlock) (*Command, error) {
	start := r.Pos()
	op, err := r.U8()
	if err != nil {
		return nil, err
	}

	switch {
	case op == 0x66:
		return &Command{Opcode: op, Kind: KindEndOfData, Offset: offset, Length: r.Pos() - start}, nil

	case op == 0x61:
		n, err := r.U16LE()
		if err != nil {
			return nil, binutil.WithContext(err.(*binutil.Error), "command:wait_samples")
		}
		return &Command{Opcode: op, Kind: KindWait, WaitSamples: n, Offset: offset, Length: r.Pos() - start}, nil

	case op == 0x62:
		return &Command{Opcode: op, Kind: KindWait, WaitSamples: 735, Offset: offset, Length: r.Pos() - start}, nil

	case op == 0x63:
		return &Command{Opcode: op, Kind: KindWait, WaitSamples: 882, Offset: offset, Length: r.Pos() - start}, nil

	case op >= 0x70 && op <= 0x7F:
		n := op - 0x70
		return &Command{Opcode: op, Kind: KindWait, WaitSamples: uint16(n) + 1, N: n, Offset: offset, Length: r.Pos() - start}, nil

	case op >= 0x80 && op <= 0x8F:
		n := op - 0x80
		return &Command{Opcode: op, Kind: KindYM2612DACWriteWait, WaitSamples: uint16(n), N: n, Offset: offset, Length: r.Pos() - start}, nil

	case op == 0x67:
		return parseDataBlockCommand(r, start, offset, op, dataBlocks)

	case op == 0x68:
		compat, err := r.U8()
		if err != nil {
			return nil, err
		}
		_ = compat
		chipType, err := r.U8()
		if err != nil {
			return nil, err
		}
		readOff, err := readU24LE(r)
		if err != nil {
			return nil, err
		}
		writeOff, err := readU24LE(r)
		if err != nil {
			return nil, err
		}
		size, err := readU24LE(r)
		if err != nil {
			return nil, err
		}
		return &Command{Opcode: op, Kind: KindPCMRamWrite, Offset: offset, Length: r.Pos() - start,
			PCMRAM: &PCMRamWrite{ChipType: chipType, ReadOffset: readOff, WriteOffset: writeOff, Size: size}}, nil

	case op == 0xE0:
		v, err := r.U32LE()
		if err != nil {
			return nil, err
		}
		return &Command{Opcode: op, Kind: KindSeek, SeekOffset: v, Offset: offset, Length: r.Pos() - start}, nil

	case op >= 0x90 && op <= 0x95:
		return parseStreamControl(r, start, offset, op)
	}

	if row, ok := chipWriteByOpcode[op]; ok {
		return parseChipWrite(r, start, offset, op, row)
	}

	n := reservedPayloadLength(op)
	payload, err := r.Bytes(n)
	if err != nil {
		return nil, err
	}
	reserved := make([]byte, n)
	copy(reserved, payload)
	return &Command{Opcode: op, Kind: KindReserved, Reserved: reserved, Offset: offset, Length: r.Pos() - start}, nil
}

// reservedPayloadLength gives the byte count following an opcode this
// codec does not interpret, following the VGM format's documented
// reserved-opcode width ranges so unknown commands still round-trip.
func reservedPayloadLength(op byte) int {
	switch {
	case op >= 0x30 && op <= 0x3F:
		return 1
	case op >= 0x40 && op <= 0x4E:
		return 2
	case op == 0x4F:
		return 1
	case op >= 0xA1 && op <= 0xAF:
		return 2
	case op >= 0xCC && op <= 0xCF:
		return 3
	case op >= 0xD0 && op <= 0xDF:
		return 3
	case op >= 0xE2 && op <= 0xFF:
		return 4
	default:
		return 0
	}
}

func readU24LE(r *binutil.Reader) (uint32, error) {
	b, err := r.Bytes(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

func writeU24LE(w *binutil.Writer, v uint32) {
	w.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
}

func parseChipWrite(r *binutil.Reader, start, offset int, op byte, row chipWriteRow) (*Command, error) {
	cmd := &Command{Opcode: op, Kind: KindChipWrite, Chip: row.chip, Port: row.port, Offset: offset}
	switch row.shape {
	case ShapeRegVal8:
		regByte, err := r.U8()
		if err != nil {
			return nil, err
		}
		val, err := r.U8()
		if err != nil {
			return nil, err
		}
		reg, inst := splitInstance(regByte)
		cmd.Register = uint16(reg)
		cmd.Instance = inst
		cmd.Value = uint32(val)

	case ShapePortRegVal8:
		portByte, err := r.U8()
		if err != nil {
			return nil, err
		}
		reg, err := r.U8()
		if err != nil {
			return nil, err
		}
		val, err := r.U8()
		if err != nil {
			return nil, err
		}
		port, inst := splitInstance(portByte)
		cmd.Port = port
		cmd.Instance = inst
		cmd.Register = uint16(reg)
		cmd.Value = uint32(val)

	case ShapeOffsetVal8:
		hi, err := r.U8()
		if err != nil {
			return nil, err
		}
		lo, err := r.U8()
		if err != nil {
			return nil, err
		}
		val, err := r.U8()
		if err != nil {
			return nil, err
		}
		hiClean, inst := splitInstance(hi)
		cmd.Register = uint16(hiClean)<<8 | uint16(lo)
		cmd.Instance = inst
		cmd.Value = uint32(val)

	case ShapeRegVal16:
		reg, err := r.U8()
		if err != nil {
			return nil, err
		}
		val, err := r.U16LE()
		if err != nil {
			return nil, err
		}
		cmd.Register = uint16(reg)
		cmd.Value = uint32(val)

	case ShapeReg16Val16:
		reg, err := r.U16LE()
		if err != nil {
			return nil, err
		}
		val, err := r.U16LE()
		if err != nil {
			return nil, err
		}
		cmd.Register = reg
		cmd.Value = uint32(val)

	case ShapeValue24:
		v, err := readU24LE(r)
		if err != nil {
			return nil, err
		}
		cmd.Value = v
	}
	cmd.Length = r.Pos() - start
	return cmd, nil
}

func (cmd *Command) serializeChipWrite(w *binutil.Writer) error {
	row, ok := chipWriteByOpcode[cmd.Opcode]
	if !ok {
		return binutil.ErrDataInconsistency(fmt.Sprintf("no opcode table row for chip write opcode 0x%02X", cmd.Opcode))
	}
	w.U8(cmd.Opcode)
	switch row.shape {
	case ShapeRegVal8:
		w.U8(joinInstance(byte(cmd.Register), cmd.Instance))
		w.U8(byte(cmd.Value))
	case ShapePortRegVal8:
		w.U8(joinInstance(cmd.Port, cmd.Instance))
		w.U8(byte(cmd.Register))
		w.U8(byte(cmd.Value))
	case ShapeOffsetVal8:
		hi := joinInstance(byte(cmd.Register>>8), cmd.Instance)
		w.U8(hi)
		w.U8(byte(cmd.Register))
		w.U8(byte(cmd.Value))
	case ShapeRegVal16:
		w.U8(byte(cmd.Register))
		w.U16LE(uint16(cmd.Value))
	case ShapeReg16Val16:
		w.U16LE(cmd.Register)
		w.U16LE(uint16(cmd.Value))
	case ShapeValue24:
		writeU24LE(w, cmd.Value)
	}
	return nil
}

func parseStreamControl(r *binutil.Reader, start, offset int, op byte) (*Command, error) {
	sc := &StreamControl{}
	switch op {
	case 0x90:
		sc.Kind = StreamSetup
		id, err := r.U8()
		if err != nil {
			return nil, err
		}
		chipType, err := r.U8()
		if err != nil {
			return nil, err
		}
		port, err := r.U8()
		if err != nil {
			return nil, err
		}
		reg, err := r.U8()
		if err != nil {
			return nil, err
		}
		sc.StreamID = id
		sc.Chip = chip.Chip(chipType)
		sc.Port = port
		sc.Register = uint16(reg)
	case 0x91:
		sc.Kind = StreamSetData
		id, err := r.U8()
		if err != nil {
			return nil, err
		}
		bank, err := r.U8()
		if err != nil {
			return nil, err
		}
		step, err := r.U8()
		if err != nil {
			return nil, err
		}
		base, err := r.U8()
		if err != nil {
			return nil, err
		}
		sc.StreamID = id
		sc.DataBlockID = bank
		sc.StepSize = step
		sc.StepBase = base
	case 0x92:
		sc.Kind = StreamSetFrequency
		id, err := r.U8()
		if err != nil {
			return nil, err
		}
		freq, err := r.U32LE()
		if err != nil {
			return nil, err
		}
		sc.StreamID = id
		sc.Frequency = freq
	case 0x93:
		sc.Kind = StreamStart
		id, err := r.U8()
		if err != nil {
			return nil, err
		}
		off, err := r.U32LE()
		if err != nil {
			return nil, err
		}
		mode, err := r.U8()
		if err != nil {
			return nil, err
		}
		length, err := r.U32LE()
		if err != nil {
			return nil, err
		}
		sc.StreamID = id
		sc.DataStartOffset = off
		sc.LengthMode = mode
		sc.DataLength = length
	case 0x94:
		sc.Kind = StreamStop
		id, err := r.U8()
		if err != nil {
			return nil, err
		}
		sc.StreamID = id
	case 0x95:
		sc.Kind = StreamStartFastCall
		id, err := r.U8()
		if err != nil {
			return nil, err
		}
		block, err := r.U16LE()
		if err != nil {
			return nil, err
		}
		flags, err := r.U8()
		if err != nil {
			return nil, err
		}
		sc.StreamID = id
		sc.BlockOrdinal = block
		sc.Flags = flags
	}
	return &Command{Opcode: op, Kind: KindStreamControl, Stream: sc, Offset: offset, Length: r.Pos() - start}, nil
}

func (cmd *Command) serializeStreamControl(w *binutil.Writer) {
	sc := cmd.Stream
	w.U8(cmd.Opcode)
	switch sc.Kind {
	case StreamSetup:
		w.U8(sc.StreamID)
		w.U8(byte(sc.Chip))
		w.U8(sc.Port)
		w.U8(byte(sc.Register))
	case StreamSetData:
		w.U8(sc.StreamID)
		w.U8(sc.DataBlockID)
		w.U8(sc.StepSize)
		w.U8(sc.StepBase)
	case StreamSetFrequency:
		w.U8(sc.StreamID)
		w.U32LE(sc.Frequency)
	case StreamStart:
		w.U8(sc.StreamID)
		w.U32LE(sc.DataStartOffset)
		w.U8(sc.LengthMode)
		w.U32LE(sc.DataLength)
	case StreamStop:
		w.U8(sc.StreamID)
	case StreamStartFastCall:
		w.U8(sc.StreamID)
		w.U16LE(sc.BlockOrdinal)
		w.U8(sc.Flags)
	}
}

// serialize appends cmd's wire encoding to w. dataBlocks resolves
// KindDataBlock commands' DataBlockIndex against the owning document.
func (cmd *Command) serialize(w *binutil.Writer, dataBlocks []*DataBlock) error {
	switch cmd.Kind {
	case KindEndOfData:
		w.U8(cmd.Opcode)
	case KindWait:
		switch cmd.Opcode {
		case 0x61:
			w.U8(cmd.Opcode)
			w.U16LE(cmd.WaitSamples)
		case 0x62, 0x63:
			w.U8(cmd.Opcode)
		default:
			w.U8(cmd.Opcode)
		}
	case KindYM2612DACWriteWait:
		w.U8(cmd.Opcode)
	case KindDataBlock:
		return cmd.serializeDataBlockCommand(w, dataBlocks)
	case KindPCMRamWrite:
		w.U8(cmd.Opcode)
		w.U8(0x66)
		w.U8(cmd.PCMRAM.ChipType)
		writeU24LE(w, cmd.PCMRAM.ReadOffset)
		writeU24LE(w, cmd.PCMRAM.WriteOffset)
		writeU24LE(w, cmd.PCMRAM.Size)
	case KindStreamControl:
		cmd.serializeStreamControl(w)
	case KindSeek:
		w.U8(cmd.Opcode)
		w.U32LE(cmd.SeekOffset)
	case KindChipWrite:
		return cmd.serializeChipWrite(w)
	case KindReserved:
		w.U8(cmd.Opcode)
		w.Write(cmd.Reserved)
	}
	return nil
}
