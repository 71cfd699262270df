package vgm

import (
	"unicode/utf16"

	"github.com/intuitionamiga/soundlog/binutil"
)

var gd3Magic = [4]byte{'G', 'd', '3', ' '}

// Gd3 is the track-metadata block appended after the command stream (or
// wherever GD3Offset points). Fields are paired English/Japanese strings
// in the order the format defines them.
type Gd3 struct {
	Version uint32

	TrackNameEN string
	TrackNameJP string
	GameNameEN  string
	GameNameJP  string
	SystemNameEN string
	SystemNameJP string
	AuthorEN    string
	AuthorJP    string
	ReleaseDate string
	Converter   string
	Notes       string
}

func (g *Gd3) strings() []string {
	return []string{
		g.TrackNameEN, g.TrackNameJP,
		g.GameNameEN, g.GameNameJP,
		g.SystemNameEN, g.SystemNameJP,
		g.AuthorEN, g.AuthorJP,
		g.ReleaseDate, g.Converter, g.Notes,
	}
}

func (g *Gd3) setStrings(s []string) {
	g.TrackNameEN, g.TrackNameJP = s[0], s[1]
	g.GameNameEN, g.GameNameJP = s[2], s[3]
	g.SystemNameEN, g.SystemNameJP = s[4], s[5]
	g.AuthorEN, g.AuthorJP = s[6], s[7]
	g.ReleaseDate, g.Converter, g.Notes = s[8], s[9], s[10]
}

func encodeUTF16NullTerminated(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, (len(units)+1)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	out = append(out, 0, 0)
	return out
}

func decodeUTF16NullTerminated(r *binutil.Reader) (string, error) {
	var units []uint16
	for {
		u, err := r.U16LE()
		if err != nil {
			return "", binutil.WithContext(err.(*binutil.Error), "gd3:string")
		}
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// parseGd3 decodes a GD3 block starting at the "Gd3 " magic.
func parseGd3(data []byte) (*Gd3, error) {
	r := binutil.NewReader(data)
	ident, err := r.Bytes(4)
	if err != nil {
		return nil, binutil.WithContext(err.(*binutil.Error), "gd3:magic")
	}
	for i := 0; i < 4; i++ {
		if ident[i] != gd3Magic[i] {
			var got [4]byte
			copy(got[:], ident)
			return nil, binutil.ErrInvalidIdent(got)
		}
	}
	version, err := r.U32LE()
	if err != nil {
		return nil, binutil.WithContext(err.(*binutil.Error), "gd3:version")
	}
	length, err := r.U32LE()
	if err != nil {
		return nil, binutil.WithContext(err.(*binutil.Error), "gd3:length")
	}
	bodyStart := r.Pos()

	g := &Gd3{Version: version}
	strs := make([]string, 0, 11)
	for i := 0; i < 11; i++ {
		s, err := decodeUTF16NullTerminated(r)
		if err != nil {
			return nil, err
		}
		strs = append(strs, s)
	}
	g.setStrings(strs)

	if uint32(r.Pos()-bodyStart) != length {
		return nil, binutil.ErrDataInconsistency("GD3 recorded length does not match the sum of encoded string lengths")
	}
	return g, nil
}

// serialize appends this GD3 block's full wire encoding (magic through the
// last null terminator) to w.
func (g *Gd3) serialize(w *binutil.Writer) {
	bodyBuf := binutil.NewWriter(256)
	for _, s := range g.strings() {
		bodyBuf.Write(encodeUTF16NullTerminated(s))
	}
	body := bodyBuf.Bytes()

	w.Write(gd3Magic[:])
	w.U32LE(g.Version)
	w.U32LE(uint32(len(body)))
	w.Write(body)
}

// byteLen returns the total serialized size of this GD3 block, including
// the 12-byte prelude.
func (g *Gd3) byteLen() int {
	n := 0
	for _, s := range g.strings() {
		n += len(encodeUTF16NullTerminated(s))
	}
	return 12 + n
}
