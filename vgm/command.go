// Package vgm implements the VGM container format: header, GD3 metadata,
// typed data blocks, and the command stream that drives chip writes and
// waits. It is the binary codec layer; the stream processor and per-chip
// state trackers build on top of the types defined here.
package vgm

import "github.com/intuitionamiga/soundlog/chip"

// Kind discriminates the command variants the command stream can carry.
// Simple chip writes (the large majority of opcodes) share one of three
// wire shapes and are distinguished by ChipWriteShape, not by a dedicated
// Kind each.
type Kind uint8

const (
	KindWait Kind = iota
	KindEndOfData
	KindDataBlock
	KindPCMRamWrite
	KindYM2612DACWriteWait
	KindChipWrite
	KindStreamControl
	KindSeek
	KindReserved
)

// ChipWriteShape identifies the wire layout of a simple chip-write command,
// keyed by the declarative opcode table in opcode_table.go.
type ChipWriteShape uint8

const (
	ShapeRegVal8     ChipWriteShape = iota // register:u8, value:u8
	ShapePortRegVal8                       // port:u8, register:u8, value:u8
	ShapeOffsetVal8                        // offset:u16, value:u8
	ShapeRegVal16                          // register:u8, value:u16 (QSound)
	ShapeReg16Val16                        // register:u16, value:u16 (C352)
	ShapeValue24                           // value:u32, low 24 bits only (PWM)
)

// StreamControlKind distinguishes the six 0x90-0x95 DAC-stream opcodes.
type StreamControlKind uint8

const (
	StreamSetup StreamControlKind = iota
	StreamSetData
	StreamSetFrequency
	StreamStart
	StreamStop
	StreamStartFastCall
)

// StreamControl carries the payload of a DAC-stream control command. Only
// the fields relevant to StreamControlKind are meaningful; the stream
// processor's scheduler reads them by kind.
type StreamControl struct {
	Kind     StreamControlKind
	StreamID uint8

	// StreamSetup
	Chip     chip.Chip
	Instance chip.Instance
	Port     uint8
	Register uint16

	// StreamSetData
	DataBlockID uint8
	StepSize    uint8
	StepBase    uint8

	// StreamSetFrequency
	Frequency uint32

	// StreamStart
	DataStartOffset uint32
	LengthMode      uint8
	DataLength      uint32

	// StreamStartFastCall: the fast-call opcode references a previously
	// parsed data block by ordinal, not by the id used in SetData.
	BlockOrdinal uint16
	Flags        uint8
}

// PCMRamWrite carries the 0x68 command's payload: a chip-tagged copy from
// a data block's decompressed RAM image into the chip's addressable RAM.
type PCMRamWrite struct {
	ChipType    uint8
	ReadOffset  uint32
	WriteOffset uint32
	Size        uint32
}

// Command is one entry in a VGM command stream. Its meaning is determined
// by Kind (and, for chip writes, by the opcode's row in the opcode table).
// Offset and Length are filled in by the container parser and describe the
// command's position in the original byte stream; they are what the
// document's loop-resolution logic and the stream processor's diagnostics
// key off of.
type Command struct {
	Opcode byte
	Kind   Kind

	Offset int
	Length int // total length including the opcode byte

	// KindChipWrite
	Chip     chip.Chip
	Instance chip.Instance
	Port     uint8
	Register uint16
	Value    uint32

	// KindWait: the resolved sample count regardless of which of the wait
	// opcodes (explicit/735/882/packed-n) produced it.
	WaitSamples uint16
	// N is the raw packed nibble for WaitNSample and the YM2612
	// DAC-write-and-wait command (0-15); needed to reproduce the exact
	// opcode byte on serialization.
	N uint8

	// KindDataBlock
	DataBlockIndex int

	// KindPCMRamWrite
	PCMRAM *PCMRamWrite

	// KindStreamControl
	Stream *StreamControl

	// KindSeek
	SeekOffset uint32

	// KindReserved: the opcode's raw payload, preserved verbatim for
	// lossless round-trip of commands this implementation does not
	// interpret.
	Reserved []byte
}
