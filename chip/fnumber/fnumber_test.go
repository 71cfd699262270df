package fnumber

import (
	"math"
	"testing"
)

func TestToHzValidatesClock(t *testing.T) {
	if _, err := OPN2.ToHz(100, 4, 0); err == nil {
		t.Fatal("expected error for zero clock")
	}
	if _, err := OPN2.ToHz(100, 4, math.Inf(1)); err == nil {
		t.Fatal("expected error for infinite clock")
	}
	if _, err := OPN2.ToHz(100, 4, math.NaN()); err == nil {
		t.Fatal("expected error for NaN clock")
	}
}

func TestToHzValidatesFNumberWidth(t *testing.T) {
	if _, err := OPN2.ToHz(1<<11, 4, OPN2.DefaultClk); err == nil {
		t.Fatal("expected error for out-of-range F-number")
	}
	if _, err := OPN2.ToHz(1<<11-1, 8, OPN2.DefaultClk); err == nil {
		t.Fatal("expected error for out-of-range block")
	}
}

// TestOPN2A4FNumberMatchesDatasheetFormula checks the well-known
// approximation: at the NTSC Genesis clock, F-num 1083 block 4 is the
// accepted "A4 falls in block 4" F-number for the OPN2 family.
func TestOPN2A4FNumberMatchesDatasheetFormula(t *testing.T) {
	freq, err := OPN2.ToHz(1083, 4, 7670454)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(freq-440.0) > 2.0 {
		t.Fatalf("expected ~440 Hz, got %v", freq)
	}
}

func TestGenerateTableAndFindClosestRoundTripsA4(t *testing.T) {
	table, err := GenerateTable(OPN2, OPN2.DefaultClk)
	if err != nil {
		t.Fatal(err)
	}
	entry, err := FindClosest(table, A4Hz)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(entry.ActualHz-A4Hz) > 2.0 {
		t.Fatalf("closest A4 entry off by more than 2Hz: %+v", entry)
	}
	if entry.Block != OPN2.A4Block {
		t.Fatalf("expected A4 entry at configured A4Block %d, got %d", OPN2.A4Block, entry.Block)
	}
}

func TestFindAndTuneImprovesOrMatchesClosest(t *testing.T) {
	table, err := GenerateTable(OPL2, OPL2.DefaultClk)
	if err != nil {
		t.Fatal(err)
	}
	closest, err := FindClosest(table, A4Hz)
	if err != nil {
		t.Fatal(err)
	}
	tuned, err := FindAndTune(OPL2, table, A4Hz, OPL2.DefaultClk)
	if err != nil {
		t.Fatal(err)
	}
	if tuned.ErrorHz > closest.ErrorHz+1e-9 {
		t.Fatalf("tuned result should never be worse: closest=%v tuned=%v", closest.ErrorHz, tuned.ErrorHz)
	}
}

func TestAllFamiliesProduceA4Within2Hz(t *testing.T) {
	families := []Family{OPN, OPNA, OPN2, OPL, OPL2, OPLL, OPL3, OPX, OPMFamily}
	for _, f := range families {
		table, err := GenerateTable(f, f.DefaultClk)
		if err != nil {
			t.Fatalf("%s: %v", f.Name, err)
		}
		entry, err := FindAndTune(f, table, A4Hz, f.DefaultClk)
		if err != nil {
			t.Fatalf("%s: %v", f.Name, err)
		}
		if math.Abs(entry.ActualHz-A4Hz) > 2.0 {
			t.Errorf("%s: A4 F-number produced %v Hz, want within 2Hz of 440", f.Name, entry.ActualHz)
		}
	}
}

func TestOPMKeyCodeToFNumber(t *testing.T) {
	// kc: block=4 (bits 6-4 = 100), note code 8 (one of the 12 valid codes)
	kc := uint8(0b0100_1000)
	kf := uint8(0)
	fnum, block := OPMKeyCodeToFNumber(kc, kf)
	if block != 4 {
		t.Fatalf("expected block 4, got %d", block)
	}
	if fnum == 0 {
		t.Fatalf("expected nonzero fnum")
	}
}
