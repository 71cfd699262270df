package vgm

import "github.com/intuitionamiga/soundlog/binutil"

// ClockOverride is one entry in the extra header's chip-clock sub-table: a
// chip identified by its VGM chip-type byte given an additional clock the
// main header's single clock field cannot express (e.g. a chip that needs
// two distinct clock inputs).
type ClockOverride struct {
	ChipType byte
	ClockHz  uint32
}

// VolumeOverride is one entry in the extra header's chip-volume sub-table.
type VolumeOverride struct {
	ChipType byte
	Flags    byte
	Volume   uint16
}

// VgmExtraHeader is the optional post-1.70 block of supplementary clock
// and volume entries. Per §3, two extra headers compare equal by payload
// only: Offset is placement metadata the builder recomputes on finalize.
type VgmExtraHeader struct {
	Offset uint32 // absolute file offset; recomputed by the builder

	ClockOverrides  []ClockOverride
	VolumeOverrides []VolumeOverride
}

// Equal reports whether h and other carry the same clock and volume
// payloads, ignoring Offset.
func (h *VgmExtraHeader) Equal(other *VgmExtraHeader) bool {
	if h == nil || other == nil {
		return h == other
	}
	if len(h.ClockOverrides) != len(other.ClockOverrides) || len(h.VolumeOverrides) != len(other.VolumeOverrides) {
		return false
	}
	for i := range h.ClockOverrides {
		if h.ClockOverrides[i] != other.ClockOverrides[i] {
			return false
		}
	}
	for i := range h.VolumeOverrides {
		if h.VolumeOverrides[i] != other.VolumeOverrides[i] {
			return false
		}
	}
	return true
}

func parseExtraHeader(data []byte, absOffset uint32) (*VgmExtraHeader, error) {
	r := binutil.NewReader(data)
	headerSize, err := r.U32LE()
	if err != nil {
		return nil, binutil.WithContext(err.(*binutil.Error), "extra_header:size")
	}
	clockTableOffset, err := r.U32LE()
	if err != nil {
		return nil, err
	}
	volumeTableOffset, err := r.U32LE()
	if err != nil {
		return nil, err
	}
	_ = headerSize

	h := &VgmExtraHeader{Offset: absOffset}

	if clockTableOffset != 0 {
		cr := binutil.NewReader(data)
		cr.Seek(4 + int(clockTableOffset))
		count, err := cr.U8()
		if err != nil {
			return nil, binutil.WithContext(err.(*binutil.Error), "extra_header:clock_count")
		}
		for i := 0; i < int(count); i++ {
			chipType, err := cr.U8()
			if err != nil {
				return nil, err
			}
			clk, err := cr.U32LE()
			if err != nil {
				return nil, err
			}
			h.ClockOverrides = append(h.ClockOverrides, ClockOverride{ChipType: chipType, ClockHz: clk})
		}
	}

	if volumeTableOffset != 0 {
		vr := binutil.NewReader(data)
		vr.Seek(8 + int(volumeTableOffset))
		count, err := vr.U8()
		if err != nil {
			return nil, binutil.WithContext(err.(*binutil.Error), "extra_header:volume_count")
		}
		for i := 0; i < int(count); i++ {
			chipType, err := vr.U8()
			if err != nil {
				return nil, err
			}
			flags, err := vr.U8()
			if err != nil {
				return nil, err
			}
			vol, err := vr.U16LE()
			if err != nil {
				return nil, err
			}
			h.VolumeOverrides = append(h.VolumeOverrides, VolumeOverride{ChipType: chipType, Flags: flags, Volume: vol})
		}
	}

	return h, nil
}

// serialize writes the extra header's full encoding (size-prefixed, with
// its two sub-tables immediately following the fixed 12-byte prelude).
func (h *VgmExtraHeader) serialize(w *binutil.Writer) {
	const prelude = 12
	clockTableAbs := prelude
	clockTableRelOffset := uint32(clockTableAbs - 4)
	volumeTableAbs := clockTableAbs + 1 + len(h.ClockOverrides)*5
	volumeTableRelOffset := uint32(volumeTableAbs - 8)

	totalSize := uint32(volumeTableAbs + 1 + len(h.VolumeOverrides)*4)

	w.U32LE(totalSize)
	if len(h.ClockOverrides) > 0 {
		w.U32LE(clockTableRelOffset)
	} else {
		w.U32LE(0)
	}
	if len(h.VolumeOverrides) > 0 {
		w.U32LE(volumeTableRelOffset)
	} else {
		w.U32LE(0)
	}

	w.U8(byte(len(h.ClockOverrides)))
	for _, c := range h.ClockOverrides {
		w.U8(c.ChipType)
		w.U32LE(c.ClockHz)
	}
	w.U8(byte(len(h.VolumeOverrides)))
	for _, v := range h.VolumeOverrides {
		w.U8(v.ChipType)
		w.U8(v.Flags)
		w.U16LE(v.Volume)
	}
}

// byteLen is this extra header's total serialized size.
func (h *VgmExtraHeader) byteLen() int {
	return 12 + 1 + len(h.ClockOverrides)*5 + 1 + len(h.VolumeOverrides)*4
}
