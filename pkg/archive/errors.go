package archive

import (
	"errors"
	"fmt"

	"github.com/rwtools/pkg/index"
)

var (
	ErrUnknownFormat = errors.New("unknown archive format")
	ErrChunkNotFound = errors.New("no payload found in data file")
	ErrNotOpened     = errors.New("archive not opened")
)

// ParseError and TruncatedIndexError are fatal for an archive pair.
type (
	ParseError          = index.ParseError
	TruncatedIndexError = index.TruncatedIndexError
)

// OutOfBoundsError reports a record whose byte range exceeds the Data file.
// The record is skipped; the rest of the pair is still extracted.
type OutOfBoundsError struct {
	Record   index.Record
	DataSize uint64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("record %s out of bounds: [%d, %d) exceeds data size %d",
		e.Record.Identifier(), e.Record.Offset, e.Record.End(), e.DataSize)
}

// IOError wraps a filesystem failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsFatal reports whether err aborts the whole archive pair.
func IsFatal(err error) bool {
	var pe *ParseError
	var te *TruncatedIndexError
	return errors.As(err, &pe) || errors.As(err, &te) || errors.Is(err, ErrUnknownFormat)
}
