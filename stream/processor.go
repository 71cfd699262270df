// Package stream walks a parsed VGM document's command sequence, expanding
// DAC-stream control commands into the individual chip writes they imply
// and splitting wait commands so those injected writes land at the correct
// sample offset. It produces no audio; it reconstructs the write sequence
// a real chip would have seen.
package stream

import (
	"fmt"
	"math"
	"sort"

	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/vgm"
)

// sampleRate is the VGM format's fixed master sample rate: every wait
// command and DAC-stream frequency is expressed relative to it.
const sampleRate = 44100.0

// Event is one unit of output from Processor.Next: either a command from
// the parsed stream or a chip write synthesized from an active DAC stream.
// EndOfStream is set once, after which further Next calls keep returning
// it (the processor does not reset itself).
type Event struct {
	Command     *vgm.Command
	Sample      int64
	Injected    bool
	EndOfStream bool
}

// MissingDataBlockError reports a DAC-stream control command that
// referenced a data block the document does not have. The processor
// remains usable after returning one.
type MissingDataBlockError struct {
	StreamID uint8
	Index    int
}

func (e *MissingDataBlockError) Error() string {
	return fmt.Sprintf("stream %d: data block index %d not present in document", e.StreamID, e.Index)
}

// dacStream is the scheduler's per-stream-id state, matching the fields
// §4.8 lists: a chip target, a bound data block, an emission frequency,
// the next sample at which a write is due, a read pointer/remaining
// length into the data block, a looping flag, and whether it is active.
type dacStream struct {
	active bool

	targetChip chip.Chip
	instance   chip.Instance
	port       uint8
	register   uint16

	opcode byte

	dataBlockIndex int
	stepSize       uint8
	stepBase       uint8
	data           []byte

	frequencyHz    uint32
	interval       float64 // sampleRate / frequencyHz
	nextEmitSample float64

	pointer   int
	remaining int
	looping   bool
}

// Processor is an iterator-style walker over a VgmDocument's commands. It
// is single-threaded, pull-based, and holds no resources that need
// releasing: a consumer simply stops calling Next.
type Processor struct {
	doc    *vgm.VgmDocument
	cursor int
	sample int64

	streams map[uint8]*dacStream

	queue []Event

	pendingWaitCmd   *vgm.Command
	pendingRemaining int64
	inFadeout        bool

	loopsRemaining int // -1 = unbounded, 0 = no further looping
	fadeoutTotal   int64

	done         bool
	pendingError error
}

// NewProcessor wraps doc for iteration. By default the processor does not
// loop (equivalent to "0 loops requested": the file plays through once)
// and has no fadeout tail.
func NewProcessor(doc *vgm.VgmDocument) *Processor {
	return &Processor{doc: doc, streams: make(map[uint8]*dacStream)}
}

// SetLoopCount sets how many additional times the processor replays from
// the document's loop point after EndOfData, provided the document has a
// resolvable loop command (VgmDocument.LoopCommandIndex). n <= 0 disables
// looping. Negative values are clamped to 0; pass a large n for
// "effectively unbounded" looping.
func (p *Processor) SetLoopCount(n int) {
	if n < 0 {
		n = 0
	}
	p.loopsRemaining = n
}

// SetFadeout adds samples of extra playback after the final EndOfData
// (DAC streams still active keep emitting during the tail).
func (p *Processor) SetFadeout(samples int64) {
	if samples < 0 {
		samples = 0
	}
	p.fadeoutTotal = samples
}

// Next returns the next event, or an error from a malformed DAC-stream
// reference. On error the processor remains usable; call Next again to
// continue past it. Once an Event with EndOfStream set is returned, every
// subsequent call returns the same thing.
func (p *Processor) Next() (Event, error) {
	for {
		if p.pendingError != nil {
			err := p.pendingError
			p.pendingError = nil
			return Event{}, err
		}

		if len(p.queue) > 0 {
			ev := p.queue[0]
			p.queue = p.queue[1:]
			return ev, nil
		}

		if p.pendingWaitCmd != nil || p.inFadeout {
			w := p.pendingRemaining
			wstar, any := p.minSamplesUntilNextEmit()
			if any && wstar < w {
				p.advance(wstar)
				p.pendingRemaining = w - wstar
				continue
			}
			p.advance(w)
			if p.inFadeout {
				p.inFadeout = false
				p.done = true
				continue
			}
			cmd := p.pendingWaitCmd
			p.pendingWaitCmd = nil
			return Event{Command: cmd, Sample: p.sample}, nil
		}

		if p.done {
			return Event{EndOfStream: true}, nil
		}

		if p.cursor >= len(p.doc.Commands) {
			p.startFadeoutOrFinish()
			continue
		}

		cmd := p.doc.Commands[p.cursor]
		p.cursor++

		switch cmd.Kind {
		case vgm.KindStreamControl:
			p.applyStreamControl(cmd)
			continue
		case vgm.KindWait:
			p.pendingWaitCmd = cmd
			p.pendingRemaining = int64(cmd.WaitSamples)
			continue
		case vgm.KindYM2612DACWriteWait:
			p.pendingWaitCmd = cmd
			p.pendingRemaining = int64(cmd.N)
			continue
		case vgm.KindEndOfData:
			if p.handleLoop() {
				continue
			}
			p.startFadeoutOrFinish()
			continue
		default:
			return Event{Command: cmd, Sample: p.sample}, nil
		}
	}
}

// startFadeoutOrFinish begins the fadeout tail the first time playback
// ends, or marks the processor done.
func (p *Processor) startFadeoutOrFinish() {
	if p.fadeoutTotal > 0 {
		p.inFadeout = true
		p.pendingRemaining = p.fadeoutTotal
		p.fadeoutTotal = 0
		return
	}
	p.done = true
}

func (p *Processor) handleLoop() bool {
	if p.loopsRemaining == 0 {
		return false
	}
	idx := p.doc.LoopCommandIndex()
	if idx < 0 {
		return false
	}
	if p.loopsRemaining > 0 {
		p.loopsRemaining--
	}
	p.cursor = idx
	return true
}

// minSamplesUntilNextEmit returns the fewest samples until some active
// stream's next scheduled emission, and whether any stream is active at
// all (an inactive scheduler never bounds the wait).
func (p *Processor) minSamplesUntilNextEmit() (int64, bool) {
	best := int64(-1)
	any := false
	for _, s := range p.streams {
		if !s.active || s.frequencyHz == 0 {
			continue
		}
		due := int64(math.Floor(s.nextEmitSample)) - p.sample
		if due < 0 {
			due = 0
		}
		any = true
		if best == -1 || due < best {
			best = due
		}
	}
	return best, any
}

// advance moves the sample counter forward n samples, emitting every due
// stream write (queued, not returned directly) along the way.
func (p *Processor) advance(n int64) {
	p.sample += n
	for _, id := range p.sortedStreamIDs() {
		s := p.streams[id]
		if !s.active || s.frequencyHz == 0 {
			continue
		}
		for int64(math.Floor(s.nextEmitSample)) <= p.sample {
			p.emitStreamWrite(s)
			if !s.active {
				break
			}
			s.nextEmitSample += s.interval
		}
	}
}

// sortedStreamIDs returns the scheduler's stream ids in ascending order, so
// that simultaneous emissions from multiple streams queue in a
// deterministic sequence (P3) rather than following Go's randomized map
// iteration order.
func (p *Processor) sortedStreamIDs() []uint8 {
	ids := make([]uint8, 0, len(p.streams))
	for id := range p.streams {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (p *Processor) emitStreamWrite(s *dacStream) {
	if s.remaining <= 0 || s.pointer >= len(s.data) {
		if s.looping && len(s.data) > 0 {
			s.pointer = int(s.stepBase)
			s.remaining = len(s.data) - s.pointer
		} else {
			s.active = false
			return
		}
	}
	value := s.data[s.pointer]
	step := int(s.stepSize)
	if step <= 0 {
		step = 1
	}
	s.pointer += step
	s.remaining--

	cmd := &vgm.Command{
		Opcode:   s.opcode,
		Kind:     vgm.KindChipWrite,
		Chip:     s.targetChip,
		Instance: s.instance,
		Port:     s.port,
		Register: s.register,
		Value:    uint32(value),
	}
	p.queue = append(p.queue, Event{Command: cmd, Sample: p.sample, Injected: true})
}

func (p *Processor) ensureStream(id uint8) *dacStream {
	s, ok := p.streams[id]
	if !ok {
		s = &dacStream{instance: chip.Primary, stepSize: 1, dataBlockIndex: -1}
		p.streams[id] = s
	}
	return s
}

// applyStreamControl updates the scheduler for one of the six DAC-stream
// opcodes. It never yields the control command itself (§4.8 step 3).
func (p *Processor) applyStreamControl(cmd *vgm.Command) {
	sc := cmd.Stream
	switch sc.Kind {
	case vgm.StreamSetup:
		s := p.ensureStream(sc.StreamID)
		s.targetChip = sc.Chip
		s.port = sc.Port
		s.register = sc.Register
		s.opcode, _ = vgm.ResolveChipWriteOpcode(sc.Chip, sc.Port)

	case vgm.StreamSetData:
		s := p.ensureStream(sc.StreamID)
		s.dataBlockIndex = int(sc.DataBlockID)
		s.stepSize = sc.StepSize
		s.stepBase = sc.StepBase

	case vgm.StreamSetFrequency:
		s := p.ensureStream(sc.StreamID)
		s.frequencyHz = sc.Frequency
		if sc.Frequency > 0 {
			s.interval = sampleRate / float64(sc.Frequency)
		}

	case vgm.StreamStart:
		s := p.ensureStream(sc.StreamID)
		if s.dataBlockIndex < 0 || s.dataBlockIndex >= len(p.doc.DataBlocks) {
			p.pendingError = &MissingDataBlockError{StreamID: sc.StreamID, Index: s.dataBlockIndex}
			return
		}
		block := p.doc.DataBlocks[s.dataBlockIndex]
		s.data = block.Raw
		s.pointer = int(sc.DataStartOffset) + int(s.stepBase)
		length := int(sc.DataLength)
		if length <= 0 || sc.DataLength == 0xFFFFFFFF {
			length = len(s.data) - s.pointer
		}
		s.remaining = length
		s.nextEmitSample = float64(p.sample)
		s.active = true

	case vgm.StreamStop:
		if s, ok := p.streams[sc.StreamID]; ok {
			s.active = false
		}

	case vgm.StreamStartFastCall:
		s := p.ensureStream(sc.StreamID)
		idx := int(sc.BlockOrdinal)
		if idx < 0 || idx >= len(p.doc.DataBlocks) {
			p.pendingError = &MissingDataBlockError{StreamID: sc.StreamID, Index: idx}
			return
		}
		block := p.doc.DataBlocks[idx]
		s.dataBlockIndex = idx
		s.data = block.Raw
		s.pointer = 0
		s.remaining = len(block.Raw)
		s.nextEmitSample = float64(p.sample)
		s.active = true
	}
}
