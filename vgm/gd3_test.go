package vgm

import (
	"testing"

	"github.com/intuitionamiga/soundlog/binutil"
)

// TestGd3RoundTripsNonASCII is S4: a GD3 block carrying non-ASCII (Japanese)
// text in several fields survives a serialize/parse cycle exactly.
func TestGd3RoundTripsNonASCII(t *testing.T) {
	g := &Gd3{
		Version:      0x100,
		TrackNameEN:  "Mystic Cave Zone",
		TrackNameJP:  "ミスティックケイブゾーン",
		GameNameEN:   "Sonic the Hedgehog 2",
		GameNameJP:   "ソニック・ザ・ヘッジホッグ2",
		SystemNameEN: "Sega Genesis",
		SystemNameJP: "セガメガドライブ",
		AuthorEN:     "Masato Nakamura",
		ReleaseDate:  "1992/11/21",
		Converter:    "soundlog",
		Notes:        "ripped for round-trip testing",
	}

	w := binutil.NewWriter(256)
	g.serialize(w)
	encoded := w.Bytes()

	if len(encoded) != g.byteLen() {
		t.Fatalf("byteLen() reported %d, serialize produced %d bytes", g.byteLen(), len(encoded))
	}

	decoded, err := parseGd3(encoded)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if *decoded != *g {
		t.Fatalf("round-trip mismatch:\n got  %+v\n want %+v", *decoded, *g)
	}
}

// TestGd3RejectsTruncatedLength checks that a corrupted length prefix is
// caught rather than silently accepted.
func TestGd3RejectsTruncatedLength(t *testing.T) {
	g := &Gd3{TrackNameEN: "short"}
	w := binutil.NewWriter(64)
	g.serialize(w)
	encoded := w.Bytes()

	// Corrupt the length field (bytes 8-11) to a too-small value.
	encoded[8] = 0x01
	encoded[9] = 0x00
	encoded[10] = 0x00
	encoded[11] = 0x00

	if _, err := parseGd3(encoded); err == nil {
		t.Fatalf("expected a length-mismatch error")
	}
}
