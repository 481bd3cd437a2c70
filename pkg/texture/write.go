package texture

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// ImageFormat selects the encoding of decoded textures.
type ImageFormat string

const (
	ImagePNG ImageFormat = "png"
	ImageBMP ImageFormat = "bmp"
)

// ParseImageFormat maps user input to an ImageFormat.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return ImagePNG, nil
	case "bmp":
		return ImageBMP, nil
	default:
		return "", fmt.Errorf("unsupported image format %q: must be png or bmp", s)
	}
}

// Ext returns the file extension including the dot.
func (f ImageFormat) Ext() string {
	if f == ImageBMP {
		return ".bmp"
	}
	return ".png"
}

func (f ImageFormat) encoder() imgio.Encoder {
	if f == ImageBMP {
		return imgio.BMPEncoder()
	}
	return imgio.PNGEncoder()
}

// Encode serialises img in the given format.
func Encode(img image.Image, format ImageFormat) ([]byte, error) {
	var buf bytes.Buffer
	if err := format.encoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the decoded texture to path.
func (r *UnpackResult) WriteFile(path string, format ImageFormat) error {
	if err := imgio.Save(path, r.Image, format.encoder()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
