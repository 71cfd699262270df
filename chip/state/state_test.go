package state

import (
	"testing"

	"github.com/intuitionamiga/soundlog/chip"
)

// TestFactoryProducesATrackerPerChip checks that every known chip gets a
// distinct, correctly self-identifying tracker from New.
func TestFactoryProducesATrackerPerChip(t *testing.T) {
	chips := []chip.Chip{
		chip.SN76489, chip.YM2413, chip.YM2612, chip.YM2151, chip.YM2203,
		chip.YM2608, chip.YM2610B, chip.YM3812, chip.YM3526, chip.Y8950,
		chip.YMF262, chip.YMF278B, chip.YMF271, chip.YMZ280B, chip.RF5C164,
		chip.PWM, chip.AY8910, chip.GameBoyDMG, chip.NESAPU, chip.MultiPCM,
		chip.UPD7759, chip.OKIM6258, chip.OKIM6295, chip.K051649, chip.K054539,
		chip.HuC6280, chip.C140, chip.K053260, chip.POKEY, chip.QSound,
		chip.SCSP, chip.WonderSwan, chip.VSU, chip.SAA1099, chip.ES5503,
		chip.ES5506, chip.X1010, chip.C352, chip.GA20, chip.RF5C68,
		chip.SegaPCM, chip.Mikey,
	}
	for _, c := range chips {
		tr := New(c, chip.Primary, 0)
		if tr == nil {
			t.Fatalf("%s: New returned nil", c)
		}
		if tr.Chip() != c {
			t.Errorf("%s: tracker reports Chip() == %s", c, tr.Chip())
		}
		if tr.ChannelCount() < 0 {
			t.Errorf("%s: negative channel count", c)
		}
		for i := 0; i < tr.ChannelCount(); i++ {
			if tr.Channel(i).Key != KeyOff {
				t.Errorf("%s: channel %d not KeyOff at construction", c, i)
			}
		}
	}
}

// TestPCMTrackersStoreWithoutEvents checks S-level expectations for the
// shared pure-sample-player tracker: writes are stored but never emit a
// StateEvent, and ChannelCount is 0.
func TestPCMTrackersStoreWithoutEvents(t *testing.T) {
	tr := New(chip.SegaPCM, chip.Primary, 0)
	if tr.ChannelCount() != 0 {
		t.Fatalf("expected 0 channels for a PCM tracker, got %d", tr.ChannelCount())
	}
	if ev := tr.OnRegisterWrite(5, 0x42); ev != nil {
		t.Fatalf("expected no events from a PCM register write, got %+v", ev)
	}
	v, ok := tr.ReadRegister(5)
	if !ok || v != 0x42 {
		t.Fatalf("expected stored value 0x42, got %d (ok=%v)", v, ok)
	}
}

// TestResetClearsChannelsAndRegisters is a generic smoke test that Reset
// returns a tracker to its just-constructed state.
func TestResetClearsChannelsAndRegisters(t *testing.T) {
	tr := New(chip.SN76489, chip.Primary, 3579545)
	tr.OnRegisterWrite(0, 0x8E)
	tr.OnRegisterWrite(0, 0x0F)
	tr.OnRegisterWrite(0, 0x90)
	if tr.Channel(0).Key != KeyOn {
		t.Fatalf("setup failed: expected channel 0 to be KeyOn before Reset")
	}
	tr.Reset()
	if tr.Channel(0).Key != KeyOff {
		t.Fatalf("expected Reset to silence all channels")
	}
}

// TestGameBoyDMGReadRegisterReflectsLastWrite guards a tracker whose
// ReadRegister once unconditionally returned (0, false) regardless of
// prior writes.
func TestGameBoyDMGReadRegisterReflectsLastWrite(t *testing.T) {
	tr := New(chip.GameBoyDMG, chip.Primary, 0)
	tr.OnRegisterWrite(0x03, 0x5A)
	v, ok := tr.ReadRegister(0x03)
	if !ok || v != 0x5A {
		t.Fatalf("expected stored value 0x5A at 0x03, got %d (ok=%v)", v, ok)
	}
	if _, ok := tr.ReadRegister(0x01); ok {
		t.Fatalf("expected no stored value at an address never written")
	}
}
