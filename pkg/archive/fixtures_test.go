package archive

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwtools/pkg/texture"
)

type tableEntry struct {
	name           string
	offset, length uint32
}

// windowInfo builds a counted 44-byte table.
func windowInfo(count uint32, entries ...tableEntry) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, count)
	return append(buf, packInfo(entries...)...)
}

// packInfo builds a headerless 44-byte table.
func packInfo(entries ...tableEntry) []byte {
	var buf []byte
	for _, e := range entries {
		name := make([]byte, 32)
		copy(name, e.name)
		buf = append(buf, name...)
		buf = binary.LittleEndian.AppendUint32(buf, e.length)
		buf = binary.LittleEndian.AppendUint32(buf, e.length)
		buf = binary.LittleEndian.AppendUint32(buf, e.offset)
	}
	return buf
}

func idtblInfo(entries ...[3]uint32) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(entries)))
	for _, e := range entries {
		for _, v := range e {
			buf = binary.LittleEndian.AppendUint32(buf, v)
		}
	}
	return buf
}

// namedInfo builds name\0 + 26-byte tail entries. lengthAt is 14 for
// textures and 18 for particles; the offset is always at 22.
func namedInfo(lengthAt int, entries ...tableEntry) []byte {
	var buf []byte
	for _, e := range entries {
		buf = append(buf, e.name...)
		buf = append(buf, 0)
		tail := make([]byte, 26)
		binary.LittleEndian.PutUint32(tail[lengthAt:], e.length)
		binary.LittleEndian.PutUint32(tail[22:], e.offset)
		buf = append(buf, tail...)
	}
	return buf
}

func rwChunk(id uint32, body []byte) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, id)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(body)))
	buf = binary.LittleEndian.AppendUint32(buf, 0x1803FFFF)
	return append(buf, body...)
}

func riffContainer(form string, body []byte) []byte {
	buf := []byte("RIFF")
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+len(body)))
	buf = append(buf, form...)
	return append(buf, body...)
}

func waveFile(samples int) []byte {
	body := []byte("fmt ")
	body = binary.LittleEndian.AppendUint32(body, 16)
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBody[0:], 1)
	binary.LittleEndian.PutUint16(fmtBody[2:], 1)
	binary.LittleEndian.PutUint32(fmtBody[4:], 22050)
	binary.LittleEndian.PutUint32(fmtBody[8:], 44100)
	binary.LittleEndian.PutUint16(fmtBody[12:], 2)
	binary.LittleEndian.PutUint16(fmtBody[14:], 16)
	body = append(body, fmtBody...)
	body = append(body, "data"...)
	body = binary.LittleEndian.AppendUint32(body, uint32(samples*2))
	body = append(body, make([]byte, samples*2)...)
	return riffContainer("WAVE", body)
}

func rawTexture(t *testing.T, width, height uint32, flag [4]byte, pixels ...uint16) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, texture.WriteHeader(&buf, &texture.Header{Width: width, Height: height, Flag: flag}))
	for _, p := range pixels {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, p))
	}
	return buf.Bytes()
}

// writePair stores info and data in a temp dir and returns the pair.
func writePair(t *testing.T, format Format, info, data []byte) Pair {
	t.Helper()
	dir := t.TempDir()
	pair := Pair{
		Format:    format,
		InfoPath:  filepath.Join(dir, "TestInfo_000.bin"),
		DataPath:  filepath.Join(dir, "Test_000.bin"),
		OutputDir: filepath.Join(dir, "out"),
	}
	require.NoError(t, os.WriteFile(pair.InfoPath, info, 0644))
	require.NoError(t, os.WriteFile(pair.DataPath, data, 0644))
	return pair
}

func readOutput(t *testing.T, pair Pair, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(pair.OutputDir, name))
	require.NoError(t, err)
	return b
}
