package rw

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(id uint32, body []byte) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, id)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(body)))
	buf = binary.LittleEndian.AppendUint32(buf, 0x1803FFFF)
	return append(buf, body...)
}

func TestScan(t *testing.T) {
	first := chunk(ChunkClump, []byte("model-one"))
	second := chunk(ChunkClump, []byte("two"))

	data := append([]byte{0xAA, 0xBB}, first...)
	data = append(data, 0xCC)
	data = append(data, second...)

	spans := Scan(data, ChunkClump)
	require.Len(t, spans, 2)

	assert.Equal(t, uint64(2), spans[0].Offset)
	assert.Equal(t, uint64(len(first)), spans[0].Length)
	assert.Equal(t, uint32(0x1803FFFF), spans[0].Header.Version)
	assert.Equal(t, first, data[spans[0].Offset:spans[0].Offset+spans[0].Length])
	assert.Equal(t, uint64(2+len(first)+1), spans[1].Offset)
	assert.False(t, spans[1].Clamped)
}

func TestScanSkipsNestedMarkers(t *testing.T) {
	// The body of the outer chunk contains another 0x10 marker.
	inner := chunk(ChunkClump, []byte("x"))
	outer := chunk(ChunkClump, inner)

	spans := Scan(outer, ChunkClump)
	require.Len(t, spans, 1)
	assert.Equal(t, uint64(len(outer)), spans[0].Length)
}

func TestScanClamped(t *testing.T) {
	c := chunk(ChunkAnimation, make([]byte, 32))
	data := c[:20]

	spans := Scan(data, ChunkAnimation)
	require.Len(t, spans, 1)
	assert.True(t, spans[0].Clamped)
	assert.Equal(t, uint64(20), spans[0].Length)
}

func TestScanMarkerAtEnd(t *testing.T) {
	data := []byte{0x00, 0x10, 0x00, 0x00, 0x00}
	assert.Empty(t, Scan(data, ChunkClump))
}

func TestReadHeader(t *testing.T) {
	hdr, err := ReadHeader(chunk(ChunkAnimation, []byte{1, 2, 3}), 0)
	require.NoError(t, err)
	assert.Equal(t, ChunkAnimation, hdr.ID)
	assert.Equal(t, uint64(15), hdr.Total())

	_, err = ReadHeader([]byte{1, 2, 3}, 0)
	require.Error(t, err)
}

func TestSplit(t *testing.T) {
	marker := Marker(ChunkAnimation)
	data := append([]byte("lead"), marker...)
	data = append(data, []byte("aaa")...)
	data = append(data, marker...)
	data = append(data, []byte("bb")...)

	blocks := Split(data, marker)
	require.Len(t, blocks, 2)
	assert.Equal(t, append(Marker(ChunkAnimation), []byte("aaa")...), blocks[0])
	assert.Equal(t, append(Marker(ChunkAnimation), []byte("bb")...), blocks[1])

	assert.Empty(t, Split([]byte("nothing here"), marker))
	assert.Nil(t, Split(data, nil))
}
