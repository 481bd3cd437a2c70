package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"os"
)

// UnpackResult holds a decoded texture.
type UnpackResult struct {
	Header *Header
	Format PixelFormat
	Image  image.Image
}

// Unpack decodes a raw texture slice (header + pixels). Pixel data beyond
// width*height is ignored.
func Unpack(data []byte) (*UnpackResult, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	format := hdr.Format()
	if format == FormatUnknown {
		return nil, &UnknownFormatError{Flag: hdr.Flag}
	}

	width, height := int(hdr.Width), int(hdr.Height)
	pixels := data[HeaderSize:]
	need := width * height * format.BytesPerPixel()
	if len(pixels) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrShortPixels, need, len(pixels))
	}

	var img image.Image
	switch format {
	case FormatRGB565:
		img = decodeRGB565(pixels, width, height)
	case FormatARGB4444:
		img = decodeARGB4444(pixels, width, height)
	}

	return &UnpackResult{Header: hdr, Format: format, Image: img}, nil
}

// UnpackFile decodes a raw texture slice from disk.
func UnpackFile(path string) (*UnpackResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read texture: %w", err)
	}
	return Unpack(data)
}

// decodeRGB565 expands little-endian RGB565 into an opaque RGBA image.
func decodeRGB565(data []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		p := binary.LittleEndian.Uint16(data[i*2:])
		r5 := uint32(p>>11) & 0x1F
		g6 := uint32(p>>5) & 0x3F
		b5 := uint32(p) & 0x1F
		img.SetNRGBA(i%width, i/width, color.NRGBA{
			R: uint8((r5*255 + 15) / 31),
			G: uint8((g6*255 + 31) / 63),
			B: uint8((b5*255 + 15) / 31),
			A: 0xFF,
		})
	}
	return img
}

// decodeARGB4444 expands little-endian ARGB4444 into a non-premultiplied
// RGBA image.
func decodeARGB4444(data []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		p := binary.LittleEndian.Uint16(data[i*2:])
		img.SetNRGBA(i%width, i/width, color.NRGBA{
			R: uint8((p>>8)&0x0F) * 17,
			G: uint8((p>>4)&0x0F) * 17,
			B: uint8(p&0x0F) * 17,
			A: uint8((p>>12)&0x0F) * 17,
		})
	}
	return img
}
