// Package hexdump renders binary files as offset/hex/ASCII text for
// inspecting unknown archive layouts.
package hexdump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const DefaultWidth = 16

// Options configures Dump.
type Options struct {
	Width    int   // Bytes per line, DefaultWidth when zero
	MaxBytes int64 // Stop before the output would exceed this size; 0 means no limit
}

// Result describes a finished dump.
type Result struct {
	Lines     int
	Written   int64 // Bytes of text written
	Consumed  int64 // Input bytes covered
	Truncated bool  // MaxBytes was reached
}

// Dump reads r to the end and writes one line per Width bytes:
//
//	00000000  52 49 46 46 24 00 00 00  57 41 56 45 66 6d 74 20  |RIFF$...WAVEfmt |
//
// Whole lines only are written; a line that would cross MaxBytes ends the dump.
func Dump(w io.Writer, r io.Reader, opts Options) (Result, error) {
	width := opts.Width
	if width == 0 {
		width = DefaultWidth
	}
	if width < 0 {
		return Result{}, fmt.Errorf("invalid width %d", width)
	}

	var res Result
	bw := bufio.NewWriter(w)
	buf := make([]byte, width)
	var line strings.Builder

	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			line.Reset()
			formatLine(&line, res.Consumed, buf[:n], width)
			if opts.MaxBytes > 0 && res.Written+int64(line.Len()) > opts.MaxBytes {
				res.Truncated = true
				break
			}
			if _, werr := bw.WriteString(line.String()); werr != nil {
				return res, fmt.Errorf("failed to write dump: %w", werr)
			}
			res.Lines++
			res.Written += int64(line.Len())
			res.Consumed += int64(n)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("failed to read input: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return res, fmt.Errorf("failed to write dump: %w", err)
	}
	return res, nil
}

func formatLine(sb *strings.Builder, offset int64, chunk []byte, width int) {
	fmt.Fprintf(sb, "%08x  ", offset)

	half := width / 2
	for i := 0; i < width; i++ {
		if i > 0 {
			if i == half {
				sb.WriteString("  ")
			} else {
				sb.WriteByte(' ')
			}
		}
		if i < len(chunk) {
			fmt.Fprintf(sb, "%02x", chunk[i])
		} else {
			sb.WriteString("  ")
		}
	}

	sb.WriteString("  |")
	for _, c := range chunk {
		if c >= 32 && c <= 126 {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}
	sb.WriteString("|\n")
}
