package texture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTexture(t *testing.T, width, height uint32, flag [4]byte, pixels ...uint16) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, &Header{Width: width, Height: height, Flag: flag}))
	for _, p := range pixels {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, p))
	}
	return buf.Bytes()
}

func TestUnpackRGB565(t *testing.T) {
	data := buildTexture(t, 2, 2, FlagRGB565, 0xF800, 0x07E0, 0x001F, 0xFFFF)

	res, err := Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, FormatRGB565, res.Format)
	assert.Equal(t, 2, res.Image.Bounds().Dx())

	assert.Equal(t, color.NRGBA{R: 255, A: 255}, res.Image.At(0, 0))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, res.Image.At(1, 0))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, res.Image.At(0, 1))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, res.Image.At(1, 1))
}

func TestUnpackRGB565Rounding(t *testing.T) {
	// r5=1, g6=1, b5=1
	data := buildTexture(t, 1, 1, FlagRGB565, 1<<11|1<<5|1)

	res, err := Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 8, G: 4, B: 8, A: 255}, res.Image.At(0, 0))
}

func TestUnpackARGB4444(t *testing.T) {
	data := buildTexture(t, 2, 1, FlagARGB4444, 0xF0F0, 0x8F00)
	// trailing bytes beyond width*height are ignored
	data = append(data, 0xAB, 0xCD)

	res, err := Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, FormatARGB4444, res.Format)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, res.Image.At(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, A: 136}, res.Image.At(1, 0))
}

func TestUnpackErrors(t *testing.T) {
	_, err := Unpack(make([]byte, HeaderSize))
	require.ErrorIs(t, err, ErrTooSmall)

	_, err = Unpack(buildTexture(t, 0, 4, FlagRGB565, 0))
	require.ErrorIs(t, err, ErrBadDimensions)

	_, err = Unpack(buildTexture(t, 8192, 1, FlagRGB565, 0))
	require.ErrorIs(t, err, ErrBadDimensions)

	_, err = Unpack(buildTexture(t, 4, 4, FlagRGB565, 0, 0))
	require.ErrorIs(t, err, ErrShortPixels)

	_, err = Unpack(buildTexture(t, 1, 1, [4]byte{0x04, 0x09, 0, 0}, 0))
	var ue *UnknownFormatError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, [4]byte{0x04, 0x09, 0, 0}, ue.Flag)
	assert.Contains(t, ue.Error(), "04090000")
}

func TestEncodeAndWrite(t *testing.T) {
	res, err := Unpack(buildTexture(t, 2, 1, FlagARGB4444, 0xF0F0, 0x8F00))
	require.NoError(t, err)

	encoded, err := Encode(res.Image, ImagePNG)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 136}, color.NRGBAModel.Convert(img.At(1, 0)))

	dir := t.TempDir()
	for _, format := range []ImageFormat{ImagePNG, ImageBMP} {
		path := filepath.Join(dir, "tex"+format.Ext())
		require.NoError(t, res.WriteFile(path, format))

		back, err := imgio.Open(path)
		require.NoError(t, err)
		assert.Equal(t, res.Image.Bounds(), back.Bounds())
	}
}

func TestParseImageFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ImageFormat
		wantErr bool
	}{
		{"", ImagePNG, false},
		{"PNG", ImagePNG, false},
		{".bmp", ImageBMP, false},
		{"jpeg", "", true},
	}
	for _, tt := range tests {
		got, err := ParseImageFormat(tt.in)
		if tt.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
