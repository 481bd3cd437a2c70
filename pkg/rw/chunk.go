// Package rw locates RenderWare binary stream chunks inside raw data.
package rw

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Chunk IDs used by the archives.
const (
	ChunkClump     uint32 = 0x10
	ChunkAnimation uint32 = 0x1B
)

// HeaderSize is the size of a chunk header: id, body size, library version.
const HeaderSize = 12

// Header is a RenderWare chunk header.
type Header struct {
	ID      uint32
	Size    uint32 // Body size, excluding the header
	Version uint32
}

// Total returns the chunk size including its header.
func (h Header) Total() uint64 { return HeaderSize + uint64(h.Size) }

// ReadHeader decodes a chunk header at off.
func ReadHeader(data []byte, off int) (Header, error) {
	if off < 0 || off+HeaderSize > len(data) {
		return Header{}, io.ErrUnexpectedEOF
	}
	return Header{
		ID:      binary.LittleEndian.Uint32(data[off:]),
		Size:    binary.LittleEndian.Uint32(data[off+4:]),
		Version: binary.LittleEndian.Uint32(data[off+8:]),
	}, nil
}

// Span is a located chunk.
type Span struct {
	Offset  uint64
	Length  uint64
	Header  Header
	Clamped bool // Declared size ran past the end of data
}

// Scan walks data looking for chunks with the given id. After a chunk is
// found the search resumes at its end, so nested chunks are not reported.
// A chunk whose declared size runs past the end of data is clamped.
func Scan(data []byte, id uint32) []Span {
	var marker [4]byte
	binary.LittleEndian.PutUint32(marker[:], id)

	var spans []Span
	pos := 0
	for pos < len(data) {
		i := bytes.Index(data[pos:], marker[:])
		if i < 0 {
			break
		}
		start := pos + i

		hdr, err := ReadHeader(data, start)
		if err != nil {
			// Marker too close to the end to hold a header.
			break
		}

		total := hdr.Total()
		clamped := false
		if uint64(start)+total > uint64(len(data)) {
			total = uint64(len(data) - start)
			clamped = true
		}

		spans = append(spans, Span{
			Offset:  uint64(start),
			Length:  total,
			Header:  hdr,
			Clamped: clamped,
		})
		pos = start + int(total)
	}

	return spans
}

// Split cuts data at every occurrence of marker. Each block runs from one
// marker to the next, the last to the end of data. Bytes before the first
// marker are discarded.
func Split(data, marker []byte) [][]byte {
	if len(marker) == 0 {
		return nil
	}

	var starts []int
	for pos := 0; ; {
		i := bytes.Index(data[pos:], marker)
		if i < 0 {
			break
		}
		starts = append(starts, pos+i)
		pos += i + 1
	}

	blocks := make([][]byte, 0, len(starts))
	for n, start := range starts {
		end := len(data)
		if n+1 < len(starts) {
			end = starts[n+1]
		}
		blocks = append(blocks, data[start:end])
	}
	return blocks
}

// Marker returns the 4-byte little-endian encoding of a chunk id.
func Marker(id uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, id)
}
