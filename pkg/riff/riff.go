// Package riff finds RIFF containers in raw data and unwraps WAVE files.
package riff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Form types seen in sound-effect archives.
const (
	FormWAVE = "WAVE"
	FormDMSG = "DMSG" // DirectMusic segment
	FormDMUS = "DMUS"
)

// HeaderSize covers "RIFF", the size field and the form type.
const HeaderSize = 12

var (
	ErrNotRIFF   = errors.New("not a RIFF container")
	ErrNotWAVE   = errors.New("RIFF form is not WAVE")
	ErrTruncated = errors.New("RIFF container shorter than declared size")
)

var magic = []byte("RIFF")

// Container is a RIFF container located in a larger buffer.
type Container struct {
	Offset   uint64
	Length   uint64 // Including the 8-byte RIFF id and size
	Form     string
	Declared uint64 // Length declared by the size field (+8)
	Clamped  bool
}

// IsSegment reports whether the container holds a DirectMusic segment.
func (c Container) IsSegment() bool {
	return c.Form == FormDMSG || c.Form == FormDMUS
}

// Scan returns every RIFF container in data. Containers whose declared size
// runs past the end of data are clamped. Headers declaring no payload are
// ignored and the search continues one byte later.
func Scan(data []byte) []Container {
	var found []Container
	pos := 0
	for pos < len(data) {
		i := bytes.Index(data[pos:], magic)
		if i < 0 {
			break
		}
		start := pos + i
		if start+HeaderSize > len(data) {
			break
		}

		size := binary.LittleEndian.Uint32(data[start+4:])
		declared := uint64(size) + 8
		if declared <= 8 {
			pos = start + 1
			continue
		}

		length := declared
		clamped := false
		if uint64(start)+length > uint64(len(data)) {
			length = uint64(len(data) - start)
			clamped = true
		}

		found = append(found, Container{
			Offset:   uint64(start),
			Length:   length,
			Form:     string(data[start+8 : start+12]),
			Declared: declared,
			Clamped:  clamped,
		})
		pos = start + int(length)
	}
	return found
}

// UnwrapWAVE validates a RIFF/WAVE container and returns it trimmed to its
// declared size.
func UnwrapWAVE(data []byte) ([]byte, error) {
	if len(data) < HeaderSize || !bytes.Equal(data[:4], magic) {
		return nil, ErrNotRIFF
	}
	if form := string(data[8:12]); form != FormWAVE {
		return nil, fmt.Errorf("%w: %q", ErrNotWAVE, form)
	}

	declared := uint64(binary.LittleEndian.Uint32(data[4:])) + 8
	if declared > uint64(len(data)) {
		return nil, fmt.Errorf("%w: declared %d, have %d", ErrTruncated, declared, len(data))
	}
	if _, err := findChunk(data[HeaderSize:declared], "fmt "); err != nil {
		return nil, err
	}
	return data[:declared], nil
}

// findChunk walks RIFF sub-chunks (id, size, body, pad to even).
func findChunk(body []byte, id string) ([]byte, error) {
	pos := 0
	for pos+8 <= len(body) {
		cid := string(body[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(body[pos+4:]))
		start := pos + 8
		if size < 0 || start+size > len(body) {
			break
		}
		if cid == id {
			return body[start : start+size], nil
		}
		pos = start + size + size%2
	}
	return nil, fmt.Errorf("WAVE container has no %q chunk", id)
}
