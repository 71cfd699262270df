package vgm

import (
	"github.com/intuitionamiga/soundlog/binutil"
)

// Parse decodes a complete VGM file image into a VgmDocument. Bit-exact
// round-trip (P1) depends on every field this package knows about being
// captured here rather than silently dropped.
func Parse(data []byte) (*VgmDocument, error) {
	header, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	doc := &VgmDocument{Header: header}

	if header.GD3Offset != 0 {
		absOffset := 0x14 + int(header.GD3Offset)
		rest, err := sliceFrom(data, absOffset)
		if err != nil {
			return nil, binutil.WithContext(err.(*binutil.Error), "gd3")
		}
		gd3, err := parseGd3(rest)
		if err != nil {
			return nil, err
		}
		doc.Gd3 = gd3
	}

	if header.ExtraHeaderOffset != 0 {
		absOffset := 0xBC + int(header.ExtraHeaderOffset)
		rest, err := sliceFrom(data, absOffset)
		if err != nil {
			return nil, binutil.WithContext(err.(*binutil.Error), "extra_header")
		}
		eh, err := parseExtraHeader(rest, uint32(absOffset))
		if err != nil {
			return nil, err
		}
		doc.ExtraHeader = eh
	}

	streamStart := header.EffectiveSize()
	r := binutil.NewReader(data)
	r.Seek(streamStart)

	var dataBlocks []*DataBlock
	var commands []*Command
	for r.Remaining() > 0 {
		offset := r.Pos()
		cmd, err := parseCommand(r, offset, &dataBlocks)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
		if cmd.Kind == KindEndOfData {
			break
		}
	}
	doc.Commands = commands
	doc.DataBlocks = dataBlocks

	return doc, nil
}

func sliceFrom(data []byte, offset int) ([]byte, error) {
	if offset < 0 || offset > len(data) {
		return nil, binutil.ErrOffsetOutOfRange(int64(offset), 0, int64(len(data)), "")
	}
	return data[offset:], nil
}

// Serialize rebuilds the byte image for d. The header fields that place
// the payloads (DataOffset, GD3Offset, ExtraHeaderOffset, EOFOffset) are
// recomputed from the actual command stream and GD3/extra-header payloads
// rather than trusted from a prior parse. TotalSamples and LoopOffset are
// written as stored in d.Header; Builder.Finalize is what derives them from
// the command list.
func (d *VgmDocument) Serialize() ([]byte, error) {
	w := binutil.NewWriter(BaseHeaderSize + 4096)
	w.PadTo(BaseHeaderSize) // reserved; the real header is built separately below

	extraHeaderAbs := 0
	if d.ExtraHeader != nil {
		extraHeaderAbs = w.Len()
		d.ExtraHeader.serialize(w)
	}

	streamStart := w.Len()
	for _, cmd := range d.Commands {
		if err := cmd.serialize(w, d.DataBlocks); err != nil {
			return nil, err
		}
	}

	gd3Abs := 0
	if d.Gd3 != nil {
		gd3Abs = w.Len()
		d.Gd3.serialize(w)
	}

	finalLen := w.Len()

	// Every byte position is now known; recompute the header's derived
	// offset fields instead of trusting whatever a prior parse stored.
	hdr := *d.Header
	hdr.DataOffset = uint32(streamStart - 0x34)
	if d.ExtraHeader != nil {
		hdr.ExtraHeaderOffset = uint32(extraHeaderAbs - 0xBC)
	} else {
		hdr.ExtraHeaderOffset = 0
	}
	if d.Gd3 != nil {
		hdr.GD3Offset = uint32(gd3Abs - 0x14)
	} else {
		hdr.GD3Offset = 0
	}
	hdr.EOFOffset = uint32(finalLen - 0x04)

	headerBuf := binutil.NewWriter(BaseHeaderSize)
	hdr.serialize(headerBuf)
	out := append(headerBuf.Bytes(), w.Bytes()[BaseHeaderSize:]...)
	return out, nil
}
