package archive

import (
	"fmt"
	"strings"

	"github.com/rwtools/pkg/binread"
	"github.com/rwtools/pkg/texture"
)

// DecodeMode controls what is written for formats with a decode step.
type DecodeMode string

const (
	DecodeRaw     DecodeMode = "raw"     // raw slice only
	DecodeDecoded DecodeMode = "decoded" // decoded file replaces the raw slice
	DecodeBoth    DecodeMode = "both"    // raw slice plus decoded sibling
)

// ParseDecodeMode maps user input to a DecodeMode.
func ParseDecodeMode(s string) (DecodeMode, error) {
	switch m := DecodeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return DecodeDecoded, nil
	case DecodeRaw, DecodeDecoded, DecodeBoth:
		return m, nil
	default:
		return "", fmt.Errorf("invalid decode mode %q: must be one of: raw, decoded, both", s)
	}
}

// Options configures extraction.
type Options struct {
	Decode       DecodeMode
	Image        texture.ImageFormat
	NameEncoding binread.NameEncoding
	Filter       string // Only extract records whose name contains this string (case-insensitive)
}

func (o Options) withDefaults() Options {
	if o.Decode == "" {
		o.Decode = DecodeDecoded
	}
	if o.Image == "" {
		o.Image = texture.ImagePNG
	}
	if o.NameEncoding == "" {
		o.NameEncoding = binread.EncodingUTF8
	}
	return o
}
