package state

import "github.com/intuitionamiga/soundlog/chip/fnumber"

// computeTone builds a ToneInfo for (fnum, block), filling FreqHz via
// family's Hz formula unless masterClockHz is 0 (the "construct a tracker
// with clock 0 and only miss Hz, never crash" contract), in which case
// FreqHz stays nil.
func computeTone(f fnumber.Family, fnum uint16, block uint8, masterClockHz float64) ToneInfo {
	if masterClockHz <= 0 {
		return ToneInfo{FNum: fnum, Block: block}
	}
	hz, err := f.ToHz(uint32(fnum), block, masterClockHz)
	if err != nil {
		return ToneInfo{FNum: fnum, Block: block}
	}
	return ToneInfo{FNum: fnum, Block: block, FreqHz: &hz}
}

// applyKeyTransition is the shared "is the channel now on, and did its
// tone change" logic almost every FM/PSG/wavetable tracker needs: it
// mutates ch in place and appends the resulting event (if any) to out.
//
// goingOn is the freshly-evaluated condition for "should this channel
// sound right now" (a key bit, a mixer bit, a nonzero volume — whatever
// the chip's own rule is). tone is only read when goingOn is true.
func applyKeyTransition(ch *ChannelState, channel int, goingOn bool, tone ToneInfo, out []StateEvent) []StateEvent {
	if goingOn {
		if ch.Key == KeyOff {
			ch.Key = KeyOn
			t := tone
			ch.Tone = &t
			out = append(out, StateEvent{Kind: EventKeyOn, Channel: channel, Tone: &t})
		} else if ch.Tone == nil || !ch.Tone.Equal(tone) {
			t := tone
			ch.Tone = &t
			out = append(out, StateEvent{Kind: EventToneChange, Channel: channel, Tone: &t})
		}
		return out
	}
	if ch.Key == KeyOn {
		ch.Key = KeyOff
		out = append(out, StateEvent{Kind: EventKeyOff, Channel: channel})
	}
	return out
}
