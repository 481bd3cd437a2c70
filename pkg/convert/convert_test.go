package convert

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeBlender = `#!/bin/sh
printf '%s\n' "$@" >> "$FAKE_BLENDER_ARGS"
while [ "$1" != "--" ]; do shift; done
shift
case "$1" in
*broken*) echo "import failed" >&2; exit 1 ;;
esac
printf 'fbx' > "$2"
`

func newFakeBlender(t *testing.T) (*Blender, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script executable")
	}

	dir := t.TempDir()
	exe := filepath.Join(dir, "blender")
	require.NoError(t, os.WriteFile(exe, []byte(fakeBlender), 0755))

	argsFile := filepath.Join(dir, "args.txt")
	t.Setenv("FAKE_BLENDER_ARGS", argsFile)

	return &Blender{
		Executable: exe,
		Addon:      "DragonFF",
		Options:    []string{"--maya"},
		OutputDir:  filepath.Join(dir, "fbx"),
	}, argsFile
}

func TestBlenderConvert(t *testing.T) {
	b, argsFile := newFakeBlender(t)
	model := filepath.Join(t.TempDir(), "000_000_00001.dff")
	require.NoError(t, os.WriteFile(model, []byte("dff"), 0644))

	out, err := b.Convert(context.Background(), model)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(b.OutputDir, "000_000_00001.fbx"), out)
	assert.FileExists(t, out)

	raw, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, args, 9)
	assert.Equal(t, []string{"--background", "--addons", "DragonFF", "--python"}, args[:4])
	assert.True(t, strings.HasSuffix(args[4], ".py"))
	assert.Equal(t, []string{"--", model, out, "--maya"}, args[5:])

	assert.NoFileExists(t, args[4], "helper script is removed afterwards")
}

func TestBlenderConvertFailure(t *testing.T) {
	b, _ := newFakeBlender(t)
	b.Script = "helper.py"

	_, err := b.Convert(context.Background(), "broken.dff")
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "broken.dff", te.Input)
	assert.Contains(t, err.Error(), "import failed")
}

func TestBlenderMissingExecutable(t *testing.T) {
	b := &Blender{Executable: filepath.Join(t.TempDir(), "nope"), Script: "x.py", OutputDir: t.TempDir()}
	_, err := b.Convert(context.Background(), "a.dff")
	assert.Error(t, err)
}

func TestConvertDir(t *testing.T) {
	b, _ := newFakeBlender(t)
	b.Script = "helper.py"

	in := t.TempDir()
	for _, name := range []string{"a.dff", "broken.dff", "c.dff", "skip.txd"} {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), nil, 0644))
	}

	res, err := ConvertDir(context.Background(), b, in)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(b.OutputDir, "a.fbx"),
		filepath.Join(b.OutputDir, "c.fbx"),
	}, res.Converted)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, filepath.Join(in, "broken.dff"), res.Failed[0].Input)
}

func TestConvertDirEmpty(t *testing.T) {
	_, err := ConvertDir(context.Background(), &Blender{}, t.TempDir())
	assert.Error(t, err)
}

type countingConverter struct{ calls int }

func (c *countingConverter) Convert(ctx context.Context, model string) (string, error) {
	c.calls++
	return model + ".fbx", nil
}

func TestConvertDirCancelled(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.dff"), nil, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &countingConverter{}
	_, err := ConvertDir(ctx, conv, in)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, conv.calls)
}
