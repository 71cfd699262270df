package vgm

// VgmDocument is the root in-memory aggregate: a header, an optional extra
// header, the ordered command sequence, the data blocks those commands
// reference by index, and optional GD3 metadata. Parsing and the builder
// both produce one; Serialize turns it back into bytes.
type VgmDocument struct {
	Header      *VgmHeader
	ExtraHeader *VgmExtraHeader
	Commands    []*Command
	DataBlocks  []*DataBlock
	Gd3         *Gd3
}

// TotalWaitSamples sums every wait-like command's sample count: WaitSamples
// entries (explicit, 735, 882, packed-n) and the YM2612 DAC-write-and-wait
// shortcut's N. This is what Builder.Finalize stores into Header.TotalSamples.
func (d *VgmDocument) TotalWaitSamples() uint32 {
	var total uint64
	for _, cmd := range d.Commands {
		switch cmd.Kind {
		case KindWait:
			total += uint64(cmd.WaitSamples)
		case KindYM2612DACWriteWait:
			total += uint64(cmd.N)
		}
	}
	return uint32(total)
}

// LoopCommandIndex returns the index into Commands whose byte offset
// equals 0x1C + Header.LoopOffset, or -1 if there is no loop or the offset
// does not land exactly on a command boundary.
func (d *VgmDocument) LoopCommandIndex() int {
	if d.Header == nil || d.Header.LoopOffset == 0 {
		return -1
	}
	target := 0x1C + int(d.Header.LoopOffset)
	for i, cmd := range d.Commands {
		if cmd.Offset == target {
			return i
		}
	}
	return -1
}

// DataBlockCounts returns how many data blocks of each DataBlockKind this
// document holds.
func (d *VgmDocument) DataBlockCounts() map[DataBlockKind]int {
	counts := make(map[DataBlockKind]int)
	for _, db := range d.DataBlocks {
		counts[db.Kind]++
	}
	return counts
}

// CommandAt returns the command whose absolute byte offset in the file
// (Command.Offset) equals offset, and whether one was found.
func (d *VgmDocument) CommandAt(offset int) (*Command, bool) {
	for _, cmd := range d.Commands {
		if cmd.Offset == offset {
			return cmd, true
		}
	}
	return nil, false
}
