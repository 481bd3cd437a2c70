package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwtools/pkg/archive"
	"github.com/rwtools/pkg/binread"
	"github.com/rwtools/pkg/texture"
)

const sample = `log_level = debug
jobs = 4
name_encoding = shift-jis

[paths]
bin_dir = bin
output_dir = /srv/out
blender_executable = tools/blender

[decode]
mode = both
image = bmp

[convert]
addon = DragonFF
options = --maya --keep

[pair.tex_000]
format = tex
info = TexInfo_000.bin
data = Tex_000.bin
output = tex

[pair.clump]
format = CLUMP
info = /abs/ClumpInfo.bin
data = Clump.bin
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, sample)
	dir := filepath.Dir(path)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, filepath.Join(dir, "bin"), cfg.BinDir)
	assert.Equal(t, "/srv/out", cfg.OutputDir)
	assert.Equal(t, filepath.Join(dir, "tools", "blender"), cfg.BlenderExecutable)
	assert.Equal(t, []string{"--maya", "--keep"}, cfg.Convert.Options)
	assert.Equal(t, filepath.Join(dir, "output", "clump"), cfg.Convert.InputDir)

	require.Len(t, cfg.Entries, 2)
	assert.Equal(t, "clump", cfg.Entries[0].Name)
	assert.Equal(t, "/abs/ClumpInfo.bin", cfg.Entries[0].Info)
	assert.Equal(t, filepath.Join(dir, "bin", "Clump.bin"), cfg.Entries[0].Data)
	assert.Equal(t, filepath.Join("/srv/out", "clump"), cfg.Entries[0].Output)

	pairs, err := cfg.Pairs()
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, archive.FormatClump, pairs[0].Format)
	assert.Equal(t, archive.FormatTex, pairs[1].Format)
	assert.Equal(t, filepath.Join(dir, "bin", "TexInfo_000.bin"), pairs[1].InfoPath)
	assert.Equal(t, filepath.Join("/srv/out", "tex"), pairs[1].OutputDir)

	opts, err := cfg.ArchiveOptions()
	require.NoError(t, err)
	assert.Equal(t, archive.DecodeBoth, opts.Decode)
	assert.Equal(t, texture.ImageBMP, opts.Image)
	assert.Equal(t, binread.EncodingShiftJIS, opts.NameEncoding)
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.ini")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDefaultsForEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""), true)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Equal(t, "blender", cfg.BlenderExecutable, "bare command stays a PATH lookup")
	assert.Empty(t, cfg.Entries)

	opts, err := cfg.ArchiveOptions()
	require.NoError(t, err)
	assert.Equal(t, archive.DecodeDecoded, opts.Decode)
	assert.Equal(t, texture.ImagePNG, opts.Image)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad jobs", "jobs = 0\n"},
		{"incomplete pair", "[pair.x]\nformat = tex\ninfo = a.bin\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), true)
			assert.Error(t, err)
		})
	}
}

func TestPairsUnknownFormat(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[pair.x]\nformat = zip\ninfo = a\ndata = b\n"), true)
	require.NoError(t, err)

	_, err = cfg.Pairs()
	assert.ErrorIs(t, err, archive.ErrUnknownFormat)
}

func TestArchiveOptionsRejectsBadValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[decode]\nmode = sideways\n"), true)
	require.NoError(t, err)

	_, err = cfg.ArchiveOptions()
	assert.Error(t, err)
}
