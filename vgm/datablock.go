package vgm

import (
	"fmt"

	"github.com/intuitionamiga/soundlog/binutil"
)

// DataBlockKind partitions the data-block type-byte space per §4 of the
// container format: uncompressed chip-typed streams, compressed streams,
// the decompression table block, ROM/RAM dumps, and the two RAM-write
// widths.
type DataBlockKind int

const (
	DataBlockUncompressed DataBlockKind = iota
	DataBlockCompressed
	DataBlockDecompressionTable
	DataBlockRomRamDump
	DataBlockRamWrite16
	DataBlockRamWrite32
)

// CompressionSubType identifies how a compressed data block's bitstream
// values map back to full-width samples.
type CompressionSubType uint8

const (
	SubTypeCopy CompressionSubType = iota
	SubTypeShiftLeft
	SubTypeTable
	SubTypeDPCM
)

// DataBlock is the typed, already-parsed form of a 0x67 command's payload.
type DataBlock struct {
	TypeByte byte
	Kind     DataBlockKind
	ChipTag  byte // low bits of TypeByte, meaningful for Uncompressed/Compressed

	// Compressed
	CompressionType  byte
	UncompressedSize uint32
	BitsDecompressed uint8
	BitsCompressed   uint8
	SubType          CompressionSubType
	AddOrStart       uint16
	Bitstream        []byte

	// DecompressionTable
	TableBitsDecompressed uint8
	TableBitsCompressed   uint8
	TableValues           []uint16

	// RomRamDump
	RomSize      uint32
	StartAddress uint32

	// RamWrite16 / RamWrite32
	WriteOffset uint32

	// Raw holds the payload bytes for Uncompressed blocks and the trailing
	// data for RomRamDump/RamWrite blocks.
	Raw []byte
}

func classifyDataBlockType(t byte) DataBlockKind {
	switch {
	case t <= 0x3F:
		return DataBlockUncompressed
	case t <= 0x7E:
		return DataBlockCompressed
	case t == 0x7F:
		return DataBlockDecompressionTable
	case t <= 0xBF:
		return DataBlockRomRamDump
	case t <= 0xDF:
		return DataBlockRamWrite16
	default:
		return DataBlockRamWrite32
	}
}

func parseDataBlockCommand(r *binutil.Reader, start, offset int, op byte, dataBlocks *[]*DataBlock) (*Command, error) {
	compat, err := r.U8()
	if err != nil {
		return nil, binutil.WithContext(err.(*binutil.Error), "command:data_block")
	}
	if compat != 0x66 {
		return nil, binutil.ErrDataInconsistency(fmt.Sprintf("data block at offset %d missing 0x66 compat byte", offset))
	}
	typeByte, err := r.U8()
	if err != nil {
		return nil, err
	}
	size, err := r.U32LE()
	if err != nil {
		return nil, err
	}
	payload, err := r.Bytes(int(size))
	if err != nil {
		return nil, err
	}

	db, err := parseDataBlockPayload(typeByte, payload)
	if err != nil {
		return nil, err
	}

	idx := len(*dataBlocks)
	*dataBlocks = append(*dataBlocks, db)

	cmd := &Command{Opcode: op, Kind: KindDataBlock, DataBlockIndex: idx, Offset: offset, Length: r.Pos() - start}
	return cmd, nil
}

// parseDataBlockPayload decodes the bytes following the 0x67/0x66/type/size
// prelude into a typed DataBlock.
func parseDataBlockPayload(typeByte byte, payload []byte) (*DataBlock, error) {
	db := &DataBlock{TypeByte: typeByte, Kind: classifyDataBlockType(typeByte), ChipTag: typeByte & 0x3F}

	switch db.Kind {
	case DataBlockUncompressed:
		db.Raw = append([]byte(nil), payload...)

	case DataBlockCompressed:
		pr := binutil.NewReader(payload)
		compType, err := pr.U8()
		if err != nil {
			return nil, binutil.WithContext(err.(*binutil.Error), "data_block:compression_type")
		}
		uncompSize, err := pr.U32LE()
		if err != nil {
			return nil, err
		}
		bitsDecomp, err := pr.U8()
		if err != nil {
			return nil, err
		}
		bitsComp, err := pr.U8()
		if err != nil {
			return nil, err
		}
		subType, err := pr.U8()
		if err != nil {
			return nil, err
		}
		addOrStart, err := pr.U16LE()
		if err != nil {
			return nil, err
		}
		rest, err := pr.Bytes(pr.Remaining())
		if err != nil {
			return nil, err
		}
		db.CompressionType = compType
		db.UncompressedSize = uncompSize
		db.BitsDecompressed = bitsDecomp
		db.BitsCompressed = bitsComp
		db.SubType = CompressionSubType(subType)
		db.AddOrStart = addOrStart
		db.Bitstream = append([]byte(nil), rest...)

	case DataBlockDecompressionTable:
		pr := binutil.NewReader(payload)
		compType, err := pr.U8()
		if err != nil {
			return nil, err
		}
		subType, err := pr.U8()
		if err != nil {
			return nil, err
		}
		bitsDecomp, err := pr.U8()
		if err != nil {
			return nil, err
		}
		bitsComp, err := pr.U8()
		if err != nil {
			return nil, err
		}
		count, err := pr.U16LE()
		if err != nil {
			return nil, err
		}
		values := make([]uint16, 0, count)
		for i := 0; i < int(count); i++ {
			v, err := pr.U16LE()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		db.CompressionType = compType
		db.SubType = CompressionSubType(subType)
		db.TableBitsDecompressed = bitsDecomp
		db.TableBitsCompressed = bitsComp
		db.TableValues = values

	case DataBlockRomRamDump:
		pr := binutil.NewReader(payload)
		romSize, err := pr.U32LE()
		if err != nil {
			return nil, err
		}
		startAddr, err := pr.U32LE()
		if err != nil {
			return nil, err
		}
		rest, err := pr.Bytes(pr.Remaining())
		if err != nil {
			return nil, err
		}
		db.RomSize = romSize
		db.StartAddress = startAddr
		db.Raw = append([]byte(nil), rest...)

	case DataBlockRamWrite16:
		pr := binutil.NewReader(payload)
		off, err := pr.U16LE()
		if err != nil {
			return nil, err
		}
		rest, err := pr.Bytes(pr.Remaining())
		if err != nil {
			return nil, err
		}
		db.WriteOffset = uint32(off)
		db.Raw = append([]byte(nil), rest...)

	case DataBlockRamWrite32:
		pr := binutil.NewReader(payload)
		off, err := pr.U32LE()
		if err != nil {
			return nil, err
		}
		rest, err := pr.Bytes(pr.Remaining())
		if err != nil {
			return nil, err
		}
		db.WriteOffset = off
		db.Raw = append([]byte(nil), rest...)
	}
	return db, nil
}

// serializePayload rebuilds the payload bytes (everything after the
// 0x67/0x66/type/size prelude) for this block.
func (db *DataBlock) serializePayload() []byte {
	w := binutil.NewWriter(len(db.Raw) + len(db.Bitstream) + 16)
	switch db.Kind {
	case DataBlockUncompressed:
		w.Write(db.Raw)
	case DataBlockCompressed:
		w.U8(db.CompressionType)
		w.U32LE(db.UncompressedSize)
		w.U8(db.BitsDecompressed)
		w.U8(db.BitsCompressed)
		w.U8(byte(db.SubType))
		w.U16LE(db.AddOrStart)
		w.Write(db.Bitstream)
	case DataBlockDecompressionTable:
		w.U8(db.CompressionType)
		w.U8(byte(db.SubType))
		w.U8(db.TableBitsDecompressed)
		w.U8(db.TableBitsCompressed)
		w.U16LE(uint16(len(db.TableValues)))
		for _, v := range db.TableValues {
			w.U16LE(v)
		}
	case DataBlockRomRamDump:
		w.U32LE(db.RomSize)
		w.U32LE(db.StartAddress)
		w.Write(db.Raw)
	case DataBlockRamWrite16:
		w.U16LE(uint16(db.WriteOffset))
		w.Write(db.Raw)
	case DataBlockRamWrite32:
		w.U32LE(db.WriteOffset)
		w.Write(db.Raw)
	}
	return w.Bytes()
}

// serializeDataBlockCommand writes cmd's 0x67 encoding, resolving its
// DataBlockIndex against the document's data-block list.
func (cmd *Command) serializeDataBlockCommand(w *binutil.Writer, dataBlocks []*DataBlock) error {
	if cmd.DataBlockIndex < 0 || cmd.DataBlockIndex >= len(dataBlocks) {
		return binutil.ErrDataInconsistency(fmt.Sprintf("data block command references index %d, document has %d blocks", cmd.DataBlockIndex, len(dataBlocks)))
	}
	db := dataBlocks[cmd.DataBlockIndex]
	payload := db.serializePayload()
	w.U8(cmd.Opcode)
	w.U8(0x66)
	w.U8(db.TypeByte)
	w.U32LE(uint32(len(payload)))
	w.Write(payload)
	return nil
}

// outputWidth returns how many bytes ceil(bits/8) each decompressed value
// occupies on the wire.
func outputWidth(bits uint8) int {
	return (int(bits) + 7) / 8
}

// Decompress runs this block's compressed bitstream through its declared
// sub-type, returning the little-endian decompressed byte stream. table is
// required (and used) only for SubTypeTable and SubTypeDPCM.
func (db *DataBlock) Decompress(table *DataBlock) ([]byte, error) {
	if db.Kind != DataBlockCompressed {
		return nil, binutil.ErrDataInconsistency("Decompress called on a non-compressed data block")
	}
	br := newBitReader(db.Bitstream)
	width := outputWidth(db.BitsDecompressed)
	out := make([]byte, 0, db.UncompressedSize)

	state := uint32(db.AddOrStart)
	count := int(db.UncompressedSize) / width

	for i := 0; i < count; i++ {
		v, err := br.readBits(int(db.BitsCompressed))
		if err != nil {
			return nil, err
		}
		var decoded uint32
		switch db.SubType {
		case SubTypeCopy:
			decoded = v + uint32(db.AddOrStart)
		case SubTypeShiftLeft:
			shift := int(db.BitsDecompressed) - int(db.BitsCompressed)
			if shift < 0 {
				return nil, binutil.ErrDataInconsistency("shift-left sub-type with bits_compressed > bits_decompressed")
			}
			decoded = (v << uint(shift)) + uint32(db.AddOrStart)
		case SubTypeTable:
			if table == nil {
				return nil, binutil.ErrDataInconsistency("table sub-type decompression requires a decompression table")
			}
			if int(v) >= len(table.TableValues) {
				return nil, binutil.ErrDataInconsistency(fmt.Sprintf("table index %d out of range (table has %d entries)", v, len(table.TableValues)))
			}
			decoded = uint32(table.TableValues[v])
		case SubTypeDPCM:
			if table == nil {
				return nil, binutil.ErrDataInconsistency("DPCM decompression requires a delta table")
			}
			if int(v) >= len(table.TableValues) {
				return nil, binutil.ErrDataInconsistency(fmt.Sprintf("delta table index %d out of range", v))
			}
			state += uint32(table.TableValues[v])
			decoded = state
		default:
			return nil, binutil.ErrDataInconsistency(fmt.Sprintf("unknown compression sub-type %d", db.SubType))
		}

		for b := 0; b < width; b++ {
			out = append(out, byte(decoded>>(8*uint(b))))
		}
	}
	return out, nil
}

// CompressCopy re-packs a little-endian decompressed stream under the
// Copy sub-type with add=0, the inverse used by P8's round-trip check.
func CompressCopy(decoded []byte, bitsDecompressed, bitsCompressed uint8) []byte {
	width := outputWidth(bitsDecompressed)
	bw := newBitWriter()
	for i := 0; i+width <= len(decoded); i += width {
		var v uint32
		for b := width - 1; b >= 0; b-- {
			v = (v << 8) | uint32(decoded[i+b])
		}
		bw.writeBits(v, int(bitsCompressed))
	}
	return bw.bytes()
}
