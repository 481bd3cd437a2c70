package index

import (
	"errors"
	"fmt"
)

var ErrInvalidLayout = errors.New("invalid index layout")

// ParseError reports a malformed or too-short Info file.
type ParseError struct {
	Offset int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at offset 0x%X: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse error at offset 0x%X: %s", e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TruncatedIndexError reports an Info file that ends before all declared
// records could be read.
type TruncatedIndexError struct {
	Declared int // Records declared by the header (or implied by the file size)
	Parsed   int // Complete records read before the end of data
	Offset   int // Where the incomplete record starts
}

func (e *TruncatedIndexError) Error() string {
	return fmt.Sprintf("truncated index: %d of %d records present, record %d at offset 0x%X is incomplete",
		e.Parsed, e.Declared, e.Parsed, e.Offset)
}
