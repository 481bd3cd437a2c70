// Package texture decodes raw texture slices into images.
package texture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the fixed texture header preceding pixel data.
const HeaderSize = 56

// MaxDimension bounds width and height (exclusive).
const MaxDimension = 8192

// PixelFormat identifies the pixel encoding of a texture.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatRGB565
	FormatARGB4444
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGB565:
		return "RGB565"
	case FormatARGB4444:
		return "ARGB4444"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the encoded pixel size.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGB565, FormatARGB4444:
		return 2
	default:
		return 0
	}
}

// Format flags stored at header offset 40.
var (
	FlagRGB565   = [4]byte{0x04, 0x02, 0x00, 0x00}
	FlagARGB4444 = [4]byte{0x04, 0x03, 0x00, 0x00}
)

var (
	ErrTooSmall      = errors.New("texture slice not larger than its header")
	ErrBadDimensions = errors.New("texture dimensions out of range")
	ErrShortPixels   = errors.New("texture pixel data shorter than width*height")
)

// UnknownFormatError reports an unrecognised format flag.
type UnknownFormatError struct {
	Flag [4]byte
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown texture format flag %x", e.Flag[:])
}

// Header is the 56-byte texture header.
// Layout:
//
//	0x00-0x03: Unknown
//	0x04-0x07: Width
//	0x08-0x0B: Height
//	0x0C-0x27: Unknown
//	0x28-0x2B: Format flag
//	0x2C-0x37: Unknown
type Header struct {
	Unknown0 uint32
	Width    uint32
	Height   uint32
	Unknown1 [28]byte
	Flag     [4]byte
	Unknown2 [12]byte
}

// Format returns the pixel format named by the header flag.
func (h *Header) Format() PixelFormat {
	switch h.Flag {
	case FlagRGB565:
		return FormatRGB565
	case FlagARGB4444:
		return FormatARGB4444
	default:
		return FormatUnknown
	}
}

// ReadHeader reads a texture header from a reader.
func ReadHeader(r io.Reader) (*Header, error) {
	hdr := &Header{}
	if err := binary.Read(r, binary.LittleEndian, hdr); err != nil {
		return nil, fmt.Errorf("failed to read texture header: %w", err)
	}
	if hdr.Width == 0 || hdr.Width >= MaxDimension || hdr.Height == 0 || hdr.Height >= MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, hdr.Width, hdr.Height)
	}
	return hdr, nil
}

// WriteHeader writes a texture header.
func WriteHeader(w io.Writer, hdr *Header) error {
	return binary.Write(w, binary.LittleEndian, hdr)
}

// ParseHeader reads the header from the start of a slice.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) <= HeaderSize {
		return nil, ErrTooSmall
	}
	return ReadHeader(bytes.NewReader(data[:HeaderSize]))
}
