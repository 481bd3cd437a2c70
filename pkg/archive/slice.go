package archive

import (
	"fmt"

	"github.com/rwtools/pkg/index"
)

// Slice returns exactly data[r.Offset : r.Offset+r.Length]. The returned
// slice aliases data.
func Slice(data []byte, r index.Record) ([]byte, error) {
	if !r.Located {
		return nil, fmt.Errorf("%w: %s", ErrChunkNotFound, r.Identifier())
	}

	size := uint64(len(data))
	if r.Offset > size || r.Length > size-r.Offset {
		return nil, &OutOfBoundsError{Record: r, DataSize: size}
	}
	return data[r.Offset:r.End()], nil
}
