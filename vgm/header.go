package vgm

import (
	"github.com/intuitionamiga/soundlog/binutil"
	"github.com/intuitionamiga/soundlog/chip"
)

var magic = [4]byte{'V', 'g', 'm', ' '}

// chipClockOffset gives the absolute byte offset of each chip's 32-bit
// clock field in the header, following the VGM format's version-gated
// layout (earlier chips at lower, always-present offsets; later chips
// added in successive format revisions at higher offsets gated by the
// effective header size).
var chipClockOffset = map[chip.Chip]int{
	chip.SN76489:    0x0C,
	chip.YM2413:     0x10,
	chip.YM2612:     0x2C,
	chip.YM2151:     0x30,
	chip.SegaPCM:    0x38,
	chip.RF5C68:     0x40,
	chip.YM2203:     0x44,
	chip.YM2608:     0x48,
	chip.YM2610B:    0x4C,
	chip.YM3812:     0x50,
	chip.YM3526:     0x54,
	chip.Y8950:      0x58,
	chip.YMF262:     0x5C,
	chip.YMF278B:    0x60,
	chip.YMF271:     0x64,
	chip.YMZ280B:    0x68,
	chip.RF5C164:    0x6C,
	chip.PWM:        0x70,
	chip.AY8910:     0x74,
	chip.GameBoyDMG: 0x84,
	chip.NESAPU:     0x88,
	chip.MultiPCM:   0x8C,
	chip.UPD7759:    0x90,
	chip.OKIM6258:   0x94,
	chip.OKIM6295:   0x9C,
	chip.K051649:    0xA0,
	chip.K054539:    0xA4,
	chip.HuC6280:    0xA8,
	chip.C140:       0xAC,
	chip.K053260:    0xB0,
	chip.POKEY:      0xB4,
	chip.QSound:     0xB8,
	chip.SCSP:       0xC0,
	chip.WonderSwan: 0xC4,
	chip.VSU:        0xC8,
	chip.SAA1099:    0xCC,
	chip.ES5503:     0xD0,
	chip.ES5506:     0xD4,
	// 0xD8-0xDB holds ES5506's channel/cd/reserved config bytes.
	chip.X1010: 0xDC,
	chip.C352:  0xE0,
	chip.GA20:  0xE4,
	chip.Mikey: 0xE8,
}

// ChipConfig holds the handful of chip-specific configuration bytes that
// ride alongside clock fields in the header rather than forming a command
// in the stream: feedback masks, flag bytes, and interface selectors.
type ChipConfig struct {
	SNFeedback           uint16
	SNShiftRegisterWidth uint8
	SNFlags              uint8
	AYChipType           uint8
	AYFlags              uint8
	SegaPCMInterface     uint32
	OKIM6258Flags        uint8
	ES5506Channels       uint8
	ES5506CD             uint8
	ES5506Reserved       uint8
}

// VgmHeader is the fixed-plus-versioned-tail portion of a VGM file. Offsets
// stored here (LoopOffset, DataOffset, GD3Offset, ExtraHeaderOffset) are
// relative to their documented anchors, matching the wire format exactly
// so Parse and VgmDocument.LoopCommandIndex can turn them into absolute
// positions by adding the anchor, without guessing.
type VgmHeader struct {
	EOFOffset uint32 // relative to 0x04
	Version   uint32 // BCD, e.g. 0x00000171 for 1.71

	TotalSamples uint32
	LoopOffset   uint32 // relative to 0x1C; 0 = no loop
	LoopSamples  uint32
	Rate         uint32

	DataOffset        uint32 // relative to 0x34; 0 = pre-1.50 default layout
	GD3Offset         uint32 // relative to 0x14; 0 = no GD3
	ExtraHeaderOffset uint32 // relative to 0xBC; 0 = no extra header

	// ClockHz maps a chip to its raw 32-bit header clock value, including
	// the Secondary-instance high bit (see chip.InstanceFromClock). A chip
	// absent from the map, or present with value 0, is not in the file.
	ClockHz map[chip.Chip]uint32

	Config ChipConfig
}

// EffectiveSize is the header's size as the container codec should treat
// it: 0x40 for the pre-1.50 fixed layout (DataOffset == 0), or
// 0x34 + DataOffset otherwise. Fields at or past this size are not
// present in this file and read as zero.
func (h *VgmHeader) EffectiveSize() int {
	if h.DataOffset == 0 {
		return 0x40
	}
	return 0x34 + int(h.DataOffset)
}

// clockOf returns the raw clock word for c, or 0 if c has no field in this
// header (absent chip).
func (h *VgmHeader) clockOf(c chip.Chip) uint32 {
	return h.ClockHz[c]
}

// fieldPresent reports whether a field of width bytes starting at offset
// falls within the header's effective (version-gated) size effSize.
func fieldPresent(effSize, offset, width int) bool {
	return offset+width <= effSize
}

func parseHeader(data []byte) (*VgmHeader, error) {
	if len(data) < 4 || data[0] != magic[0] || data[1] != magic[1] || data[2] != magic[2] || data[3] != magic[3] {
		var ident [4]byte
		copy(ident[:], data)
		return nil, binutil.ErrInvalidIdent(ident)
	}

	r := binutil.NewReader(data)
	r.Seek(0x04)
	eofOffset, err := r.U32LE()
	if err != nil {
		return nil, binutil.WithContext(err.(*binutil.Error), "header:eof_offset")
	}
	r.Seek(0x08)
	version, err := r.U32LE()
	if err != nil {
		return nil, binutil.WithContext(err.(*binutil.Error), "header:version")
	}

	h := &VgmHeader{EOFOffset: eofOffset, Version: version, ClockHz: make(map[chip.Chip]uint32)}

	// data_offset must be read before the effective size can be computed;
	// treat a too-short buffer (pre-1.50 file) as data_offset == 0.
	if len(data) >= 0x38 {
		r.Seek(0x34)
		v, err := r.U32LE()
		if err != nil {
			return nil, binutil.WithContext(err.(*binutil.Error), "header:data_offset")
		}
		h.DataOffset = v
	}

	effSize := h.EffectiveSize()
	if effSize > len(data) {
		return nil, binutil.ErrHeaderTooShort("declared data_offset places the command stream past the end of the file")
	}

	readU32 := func(offset int) (uint32, error) {
		if !fieldPresent(effSize, offset, 4) {
			return 0, nil
		}
		r.Seek(offset)
		return r.U32LE()
	}
	readU16 := func(offset int) (uint16, error) {
		if !fieldPresent(effSize, offset, 2) {
			return 0, nil
		}
		r.Seek(offset)
		return r.U16LE()
	}
	readU8 := func(offset int) (uint8, error) {
		if !fieldPresent(effSize, offset, 1) {
			return 0, nil
		}
		r.Seek(offset)
		return r.U8()
	}

	must := func(v uint32, err error) uint32 {
		if err != nil {
			panic(err)
		}
		return v
	}

	err = func() (rerr error) {
		defer func() {
			if p := recover(); p != nil {
				rerr = p.(error)
			}
		}()
		h.TotalSamples = must(readU32(0x18))
		h.LoopOffset = must(readU32(0x1C))
		h.LoopSamples = must(readU32(0x20))
		h.Rate = must(readU32(0x24))
		h.GD3Offset = must(readU32(0x14))

		for c, off := range chipClockOffset {
			h.ClockHz[c] = must(readU32(off))
		}

		fb, e := readU16(0x28)
		if e != nil {
			return e
		}
		h.Config.SNFeedback = fb
		sw, e := readU8(0x2A)
		if e != nil {
			return e
		}
		h.Config.SNShiftRegisterWidth = sw
		fl, e := readU8(0x2B)
		if e != nil {
			return e
		}
		h.Config.SNFlags = fl

		h.Config.SegaPCMInterface = must(readU32(0x3C))

		ayType, e := readU8(0x78)
		if e != nil {
			return e
		}
		h.Config.AYChipType = ayType
		ayFlags, e := readU8(0x79)
		if e != nil {
			return e
		}
		h.Config.AYFlags = ayFlags

		okiFlags, e := readU8(0x94 + 4)
		if e != nil {
			return e
		}
		h.Config.OKIM6258Flags = okiFlags

		es5506Ch, e := readU8(0xD8)
		if e != nil {
			return e
		}
		h.Config.ES5506Channels = es5506Ch
		es5506CD, e := readU8(0xD9)
		if e != nil {
			return e
		}
		h.Config.ES5506CD = es5506CD
		es5506Res, e := readU8(0xDA)
		if e != nil {
			return e
		}
		h.Config.ES5506Reserved = es5506Res

		h.ExtraHeaderOffset = must(readU32(0xBC))
		return nil
	}()
	if err != nil {
		return nil, err
	}

	return h, nil
}

func (h *VgmHeader) serialize(w *binutil.Writer) {
	w.Write(magic[:])
	w.U32LE(h.EOFOffset)
	w.U32LE(h.Version)
	w.U32LE(h.clockOf(chip.SN76489))
	w.U32LE(h.clockOf(chip.YM2413))
	w.U32LE(h.GD3Offset)
	w.U32LE(h.TotalSamples)
	w.U32LE(h.LoopOffset)
	w.U32LE(h.LoopSamples)
	w.U32LE(h.Rate)
	w.U16LE(h.Config.SNFeedback)
	w.U8(h.Config.SNShiftRegisterWidth)
	w.U8(h.Config.SNFlags)
	w.U32LE(h.clockOf(chip.YM2612))
	w.U32LE(h.clockOf(chip.YM2151))
	w.U32LE(h.DataOffset)
	w.U32LE(h.clockOf(chip.SegaPCM))
	w.U32LE(h.Config.SegaPCMInterface)
	w.U32LE(h.clockOf(chip.RF5C68))
	w.U32LE(h.clockOf(chip.YM2203))
	w.U32LE(h.clockOf(chip.YM2608))
	w.U32LE(h.clockOf(chip.YM2610B))
	w.U32LE(h.clockOf(chip.YM3812))
	w.U32LE(h.clockOf(chip.YM3526))
	w.U32LE(h.clockOf(chip.Y8950))
	w.U32LE(h.clockOf(chip.YMF262))
	w.U32LE(h.clockOf(chip.YMF278B))
	w.U32LE(h.clockOf(chip.YMF271))
	w.U32LE(h.clockOf(chip.YMZ280B))
	w.U32LE(h.clockOf(chip.RF5C164))
	w.U32LE(h.clockOf(chip.PWM))
	w.U32LE(h.clockOf(chip.AY8910))
	w.U8(h.Config.AYChipType)
	w.U8(h.Config.AYFlags)
	w.PadTo(0x84)
	w.U32LE(h.clockOf(chip.GameBoyDMG))
	w.U32LE(h.clockOf(chip.NESAPU))
	w.U32LE(h.clockOf(chip.MultiPCM))
	w.U32LE(h.clockOf(chip.UPD7759))
	w.U32LE(h.clockOf(chip.OKIM6258))
	w.U8(h.Config.OKIM6258Flags)
	w.PadTo(0x9C)
	w.U32LE(h.clockOf(chip.OKIM6295))
	w.U32LE(h.clockOf(chip.K051649))
	w.U32LE(h.clockOf(chip.K054539))
	w.U32LE(h.clockOf(chip.HuC6280))
	w.U32LE(h.clockOf(chip.C140))
	w.U32LE(h.clockOf(chip.K053260))
	w.U32LE(h.clockOf(chip.POKEY))
	w.U32LE(h.clockOf(chip.QSound))
	w.U32LE(h.ExtraHeaderOffset)
	w.U32LE(h.clockOf(chip.SCSP))
	w.U32LE(h.clockOf(chip.WonderSwan))
	w.U32LE(h.clockOf(chip.VSU))
	w.U32LE(h.clockOf(chip.SAA1099))
	w.U32LE(h.clockOf(chip.ES5503))
	w.U32LE(h.clockOf(chip.ES5506))
	w.U8(h.Config.ES5506Channels)
	w.U8(h.Config.ES5506CD)
	w.U8(h.Config.ES5506Reserved)
	w.U8(0)
	w.U32LE(h.clockOf(chip.X1010))
	w.U32LE(h.clockOf(chip.C352))
	w.U32LE(h.clockOf(chip.GA20))
	w.U32LE(h.clockOf(chip.Mikey))
	w.PadTo(BaseHeaderSize)
}

// BaseHeaderSize is the fixed length of the header region this package
// always writes, covering every chip clock and config field it knows
// about (through Mikey's clock at 0xE8). The container codec's Serialize
// treats this as the start of whatever follows (extra header, then the
// command stream), and recomputes DataOffset from it rather than trusting
// a stale value carried over from a prior parse.
const BaseHeaderSize = 0xEC
