package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAnimations(t *testing.T) {
	dir := t.TempDir()
	first := rwChunk(0x1B, []byte("walk"))
	second := rwChunk(0x1B, []byte("run!"))
	src := filepath.Join(dir, "000_000_00001_000.ame")
	require.NoError(t, os.WriteFile(src, append(append([]byte{0xAA, 0xBB}, first...), second...), 0644))

	out := filepath.Join(dir, "anm")
	paths, err := SplitAnimations(src, out)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(out, "000_000_00001_000_0.anm"), paths[0])
	got, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSplitAnimationsNoMarker(t *testing.T) {
	src := filepath.Join(t.TempDir(), "empty.ame")
	require.NoError(t, os.WriteFile(src, []byte("nothing here"), 0644))

	_, err := SplitAnimations(src, t.TempDir())
	assert.ErrorIs(t, err, ErrChunkNotFound)
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	for _, name := range []string{"b.DFF", "a.dff", "sub/c.dff", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	files, err := FindFiles(dir, ".dff")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.dff"),
		filepath.Join(dir, "b.DFF"),
		filepath.Join(dir, "sub", "c.dff"),
	}, files)

	single := filepath.Join(dir, "notes.txt")
	files, err = FindFiles(single, ".dff")
	require.NoError(t, err)
	assert.Equal(t, []string{single}, files)

	_, err = FindFiles(filepath.Join(dir, "missing"), ".dff")
	assert.Error(t, err)
}
