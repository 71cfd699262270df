package binutil

// Reader is a bounds-checked cursor over a byte slice. Every read method
// validates the requested range before touching the slice and returns
// ErrOffsetOutOfRange (never panics) when the buffer is short — the
// contract every higher layer in soundlog depends on.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential bounds-checked reads starting at
// offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current read cursor.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total length of the wrapped buffer.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Seek moves the cursor to an absolute offset. It does not itself bounds
// check against the end of the buffer; the next read will.
func (r *Reader) Seek(offset int) { r.pos = offset }

func (r *Reader) checkRange(n int) error {
	if r.pos < 0 || n < 0 || r.pos+n > len(r.data) {
		avail := len(r.data) - r.pos
		if avail < 0 {
			avail = 0
		}
		return ErrOffsetOutOfRange(int64(r.pos), int64(n), int64(avail), "")
	}
	return nil
}

// U8 reads one byte.
func (r *Reader) U8() (byte, error) {
	if err := r.checkRange(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// U16LE reads a little-endian 16-bit unsigned integer.
func (r *Reader) U16LE() (uint16, error) {
	if err := r.checkRange(2); err != nil {
		return 0, err
	}
	v := uint16(r.data[r.pos]) | uint16(r.data[r.pos+1])<<8
	r.pos += 2
	return v, nil
}

// U16BE reads a big-endian 16-bit unsigned integer.
func (r *Reader) U16BE() (uint16, error) {
	if err := r.checkRange(2); err != nil {
		return 0, err
	}
	v := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
	r.pos += 2
	return v, nil
}

// U24BE reads a big-endian 24-bit unsigned integer into the low 24 bits of
// a uint32.
func (r *Reader) U24BE() (uint32, error) {
	if err := r.checkRange(3); err != nil {
		return 0, err
	}
	v := uint32(r.data[r.pos])<<16 | uint32(r.data[r.pos+1])<<8 | uint32(r.data[r.pos+2])
	r.pos += 3
	return v, nil
}

// U32LE reads a little-endian 32-bit unsigned integer.
func (r *Reader) U32LE() (uint32, error) {
	if err := r.checkRange(4); err != nil {
		return 0, err
	}
	v := uint32(r.data[r.pos]) | uint32(r.data[r.pos+1])<<8 | uint32(r.data[r.pos+2])<<16 | uint32(r.data[r.pos+3])<<24
	r.pos += 4
	return v, nil
}

// U32BE reads a big-endian 32-bit unsigned integer.
func (r *Reader) U32BE() (uint32, error) {
	if err := r.checkRange(4); err != nil {
		return 0, err
	}
	v := uint32(r.data[r.pos])<<24 | uint32(r.data[r.pos+1])<<16 | uint32(r.data[r.pos+2])<<8 | uint32(r.data[r.pos+3])
	r.pos += 4
	return v, nil
}

// I32LE reads a little-endian signed 32-bit integer.
func (r *Reader) I32LE() (int32, error) {
	v, err := r.U32LE()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// Bytes borrows (does not copy) the next n bytes. The returned slice is
// only valid as long as the Reader's backing array is not mutated.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.checkRange(n); err != nil {
		return nil, err
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// PeekBytes borrows the next n bytes without advancing the cursor.
func (r *Reader) PeekBytes(n int) ([]byte, error) {
	if err := r.checkRange(n); err != nil {
		return nil, err
	}
	return r.data[r.pos : r.pos+n], nil
}

// BytesAt borrows n bytes at an absolute offset without disturbing the
// cursor. Used by the container codec for the GD3/loop/extra-header
// pointers, which are relative to anchors other than the current position.
func (r *Reader) BytesAt(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(r.data) {
		avail := len(r.data) - offset
		if avail < 0 {
			avail = 0
		}
		return nil, ErrOffsetOutOfRange(int64(offset), int64(n), int64(avail), "")
	}
	return r.data[offset : offset+n], nil
}
