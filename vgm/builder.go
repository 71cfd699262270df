package vgm

import (
	"github.com/intuitionamiga/soundlog/binutil"
	"github.com/intuitionamiga/soundlog/chip"
)

// Builder accumulates chip registrations, commands, an optional loop point,
// and optional GD3/extra-header payloads, then computes every derived
// header field in Finalize.
type Builder struct {
	doc       *VgmDocument
	loopIndex *int
}

// NewBuilder starts an empty document.
func NewBuilder() *Builder {
	return &Builder{doc: &VgmDocument{Header: &VgmHeader{ClockHz: make(map[chip.Chip]uint32)}}}
}

// RegisterChip records a chip instance's master clock in the header.
func (b *Builder) RegisterChip(c chip.Chip, inst chip.Instance, clockHz uint32) {
	b.doc.Header.ClockHz[c] = chip.EncodeClock(clockHz, inst)
}

// AddCommand appends a command to the stream being built.
func (b *Builder) AddCommand(cmd *Command) {
	b.doc.Commands = append(b.doc.Commands, cmd)
}

// CommandCount returns how many commands have been added so far, the index
// AddCommand's next call will occupy. Callers that need to mark a loop
// point while streaming commands in (rather than after the fact) use this
// instead of tracking the count themselves.
func (b *Builder) CommandCount() int {
	return len(b.doc.Commands)
}

// AddDataBlock appends a data block and returns its index, the value a
// KindDataBlock command's DataBlockIndex must reference.
func (b *Builder) AddDataBlock(db *DataBlock) int {
	b.doc.DataBlocks = append(b.doc.DataBlocks, db)
	return len(b.doc.DataBlocks) - 1
}

// SetLoopIndex marks the command (by index into the accumulated command
// slice) that finalize should resolve into Header.LoopOffset.
func (b *Builder) SetLoopIndex(i int) {
	b.loopIndex = &i
}

// SetGd3 attaches track metadata.
func (b *Builder) SetGd3(g *Gd3) {
	b.doc.Gd3 = g
}

// SetExtraHeader attaches a post-1.70 supplementary header. Its Offset is
// ignored and recomputed by Finalize.
func (b *Builder) SetExtraHeader(eh *VgmExtraHeader) {
	b.doc.ExtraHeader = eh
}

// Finalize runs the derivation pipeline described in §4.7 and returns the
// completed document. It is infallible: every field is computed, not
// validated, matching the "finalize() is infallible by construction"
// contract.
func (b *Builder) Finalize() *VgmDocument {
	doc := b.doc

	// 1. total_samples from the wait-like commands.
	doc.Header.TotalSamples = doc.TotalWaitSamples()

	// 2 & 3. Header size, pushed past an extra header allocated immediately
	// after the fixed header region if one is present and unplaced.
	dataOffset := BaseHeaderSize - 0x34
	if doc.ExtraHeader != nil {
		if doc.ExtraHeader.Offset == 0 {
			doc.ExtraHeader.Offset = uint32(BaseHeaderSize)
		}
		streamStart := int(doc.ExtraHeader.Offset) + doc.ExtraHeader.byteLen()
		dataOffset = streamStart - 0x34
	}
	doc.Header.DataOffset = uint32(dataOffset)

	assignCommandPositions(doc)

	// 4. Resolve the loop index to a byte offset, if one was set and is in
	// range.
	doc.Header.LoopOffset = 0
	if b.loopIndex != nil && *b.loopIndex >= 0 && *b.loopIndex < len(doc.Commands) {
		target := doc.Commands[*b.loopIndex]
		doc.Header.LoopOffset = uint32(target.Offset - 0x1C)
	}

	return doc
}

// assignCommandPositions stamps every command's Offset and Length by
// measuring its serialized width, without mutating the shared DataBlocks
// slice.
func assignCommandPositions(doc *VgmDocument) {
	streamStart := 0x34 + int(doc.Header.DataOffset)
	pos := streamStart
	for _, cmd := range doc.Commands {
		scratch := binutil.NewWriter(16)
		_ = cmd.serialize(scratch, doc.DataBlocks)
		cmd.Offset = pos
		cmd.Length = scratch.Len()
		pos += scratch.Len()
	}
}
