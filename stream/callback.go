package stream

import (
	"github.com/intuitionamiga/soundlog/chip"
	"github.com/intuitionamiga/soundlog/chip/state"
	"github.com/intuitionamiga/soundlog/vgm"
)

// WriteCallback is invoked for a chip-write event (parsed or DAC-injected)
// once the matching tracker, if any, has already applied the write.
// events is nil when no tracker is registered for (cmd.Chip, inst).
type WriteCallback func(inst chip.Instance, cmd *vgm.Command, sample int64, events []state.StateEvent)

// AnyCommandCallback is invoked for every event Next produces except the
// final EndOfStream event, after any chip-specific callback has run.
type AnyCommandCallback func(ev Event)

// CallbackStream composes a Processor with a set of per-chip trackers and
// registered callbacks. Registration happens once, before iteration
// starts; Next drives the processor and fans each event out per §4.10:
// tracker update, then chip-specific callback, then any-command callback.
type CallbackStream struct {
	proc *Processor

	trackers map[chip.Key]state.ChipState
	writers  map[chip.Chip]WriteCallback
	anyCbs   []AnyCommandCallback
}

// NewCallbackStream wraps proc. proc should not be driven directly once
// wrapped; call CallbackStream.Next instead.
func NewCallbackStream(proc *Processor) *CallbackStream {
	return &CallbackStream{
		proc:     proc,
		trackers: make(map[chip.Key]state.ChipState),
		writers:  make(map[chip.Chip]WriteCallback),
	}
}

// TrackState instantiates a state tracker for (c, inst) with the given
// master clock and registers it to receive every matching chip write. The
// tracker is also returned so callers can read channel state directly.
func (cs *CallbackStream) TrackState(c chip.Chip, inst chip.Instance, masterClockHz float64) state.ChipState {
	tracker := state.New(c, inst, masterClockHz)
	cs.trackers[chip.Key{Chip: c, Instance: inst}] = tracker
	return tracker
}

// OnWrite registers a callback for every write targeting chip c, across
// both its instances. Only one callback per chip is kept; a second
// registration replaces the first.
func (cs *CallbackStream) OnWrite(c chip.Chip, cb WriteCallback) {
	cs.writers[c] = cb
}

// OnAnyCommand registers a sink invoked for every event except the final
// EndOfStream event, in registration order, after chip-specific dispatch.
func (cs *CallbackStream) OnAnyCommand(cb AnyCommandCallback) {
	cs.anyCbs = append(cs.anyCbs, cb)
}

// Next drives the wrapped processor one step and fans the result out to
// registered trackers and callbacks before returning it.
func (cs *CallbackStream) Next() (Event, error) {
	ev, err := cs.proc.Next()
	if err != nil {
		return ev, err
	}
	if ev.EndOfStream {
		return ev, nil
	}
	if ev.Command == nil {
		cs.dispatchAny(ev)
		return ev, nil
	}

	if ev.Command.Kind == vgm.KindChipWrite {
		key := chip.Key{Chip: ev.Command.Chip, Instance: ev.Command.Instance}
		var events []state.StateEvent
		if tracker, ok := cs.trackers[key]; ok {
			events = tracker.OnRegisterWrite(trackerAddress(ev.Command), uint16(ev.Command.Value))
		}
		if cb, ok := cs.writers[ev.Command.Chip]; ok {
			cb(ev.Command.Instance, ev.Command, ev.Sample, events)
		}
	}

	cs.dispatchAny(ev)
	return ev, nil
}

func (cs *CallbackStream) dispatchAny(ev Event) {
	for _, cb := range cs.anyCbs {
		cb(ev)
	}
}

// trackerAddress folds a chip write's port into the register address the
// way the multi-port trackers (YM2612, YM2608, YM2610B, YMF262, YMF271,
// YMF278B) expect: port<<8 | register. Single-port chips always carry
// Port == 0, so the fold is a no-op for them. The K051649 tracker reads
// only the low byte of the address, so the port of its writes is dropped.
func trackerAddress(cmd *vgm.Command) uint16 {
	return uint16(cmd.Port)<<8 | cmd.Register
}
