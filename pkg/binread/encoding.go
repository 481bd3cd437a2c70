package binread

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// NameEncoding selects how raw name bytes from an index are decoded.
type NameEncoding string

const (
	EncodingUTF8     NameEncoding = "utf-8"
	EncodingShiftJIS NameEncoding = "shift-jis"
	EncodingUTF16LE  NameEncoding = "utf-16le"
)

// ParseNameEncoding maps user input to a NameEncoding.
func ParseNameEncoding(s string) (NameEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "shift-jis", "shift_jis", "sjis", "cp932":
		return EncodingShiftJIS, nil
	case "utf-16le", "utf16le", "utf-16":
		return EncodingUTF16LE, nil
	default:
		return "", fmt.Errorf("unknown name encoding %q: must be one of: utf-8, shift-jis, utf-16le", s)
	}
}

// Decode converts raw name bytes to a Go string. Undecodable bytes are dropped.
func (e NameEncoding) Decode(raw []byte) string {
	switch e {
	case EncodingShiftJIS:
		out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
		if err != nil {
			return dropInvalidUTF8(raw)
		}
		return string(out)
	case EncodingUTF16LE:
		return DecodeUTF16LE(raw)
	default:
		return dropInvalidUTF8(raw)
	}
}

func dropInvalidUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError || size > 1 {
			sb.WriteRune(r)
		}
		b = b[size:]
	}
	return sb.String()
}

// DecodeUTF16LE decodes a UTF-16LE byte slice, stopping at the first 0x0000.
func DecodeUTF16LE(data []byte) string {
	if len(data) < 2 {
		return ""
	}

	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = binary.LittleEndian.Uint16(data[i*2:])
	}

	end := len(u16)
	for i, c := range u16 {
		if c == 0 {
			end = i
			break
		}
	}

	return string(utf16.Decode(u16[:end]))
}
