// Package binread provides a bounds-checked cursor over little-endian binary data.
package binread

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// OffsetError reports a read that ran past the end of the buffer.
type OffsetError struct {
	Offset int // Position where the read started
	Need   int // Bytes requested
	Have   int // Bytes available from Offset
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("read of %d bytes at offset 0x%X exceeds buffer (%d available)", e.Need, e.Offset, e.Have)
}

// Reader is a sequential cursor over a byte slice.
// All explicit-offset reads leave the cursor untouched.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current cursor position.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of bytes after the cursor.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.check(r.pos, n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

func (r *Reader) check(off, n int) error {
	if off < 0 || n < 0 || off+n > len(r.data) {
		have := len(r.data) - off
		if have < 0 {
			have = 0
		}
		return &OffsetError{Offset: off, Need: n, Have: have}
	}
	return nil
}

// BytesAt returns a sub-slice of n bytes at off. The slice aliases the buffer.
func (r *Reader) BytesAt(off, n int) ([]byte, error) {
	if err := r.check(off, n); err != nil {
		return nil, err
	}
	return r.data[off : off+n], nil
}

// Uint16At reads a little-endian uint16 at off.
func (r *Reader) Uint16At(off int) (uint16, error) {
	if err := r.check(off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.data[off:]), nil
}

// Uint32At reads a little-endian uint32 at off.
func (r *Reader) Uint32At(off int) (uint32, error) {
	if err := r.check(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.data[off:]), nil
}

// UintAt reads a little-endian unsigned integer of width 1, 2 or 4 bytes.
func (r *Reader) UintAt(off, width int) (uint32, error) {
	switch width {
	case 1:
		if err := r.check(off, 1); err != nil {
			return 0, err
		}
		return uint32(r.data[off]), nil
	case 2:
		v, err := r.Uint16At(off)
		return uint32(v), err
	case 4:
		return r.Uint32At(off)
	default:
		return 0, fmt.Errorf("unsupported integer width %d", width)
	}
}

// Uint32 reads a little-endian uint32 and advances the cursor.
func (r *Reader) Uint32() (uint32, error) {
	v, err := r.Uint32At(r.pos)
	if err != nil {
		return 0, err
	}
	r.pos += 4
	return v, nil
}

// FixedStringAt returns the bytes of a fixed-width, NUL-padded field at off,
// trimmed at the first NUL.
func (r *Reader) FixedStringAt(off, width int) ([]byte, error) {
	b, err := r.BytesAt(off, width)
	if err != nil {
		return nil, err
	}
	return TrimNull(b), nil
}

// CString reads a NUL-terminated byte string at the cursor and advances past
// the terminator. ok is false when no terminator exists before the end of data.
func (r *Reader) CString() (s []byte, ok bool) {
	i := bytes.IndexByte(r.data[r.pos:], 0)
	if i < 0 {
		return r.data[r.pos:], false
	}
	s = r.data[r.pos : r.pos+i]
	r.pos += i + 1
	return s, true
}

// TrimNull returns b up to (not including) the first NUL byte.
func TrimNull(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

// AllZero reports whether every byte in b is zero.
func AllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
