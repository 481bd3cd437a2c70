package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rwtools/pkg/rw"
)

// SplitAnimations cuts an animation container at every animation chunk
// marker and writes each block to outputDir as <base>_<n>.anm. Bytes before
// the first marker are dropped. It returns the written paths.
func SplitAnimations(path, outputDir string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	blocks := rw.Split(data, rw.Marker(rw.ChunkAnimation))
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrChunkNotFound)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, &IOError{Op: "create output directory", Path: outputDir, Err: err}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	written := make([]string, 0, len(blocks))
	for n, block := range blocks {
		out := filepath.Join(outputDir, fmt.Sprintf("%s_%d.anm", base, n))
		if err := os.WriteFile(out, block, 0644); err != nil {
			return written, &IOError{Op: "write", Path: out, Err: err}
		}
		log.Debug().Str("file", out).Int("size", len(block)).Msg("wrote animation block")
		written = append(written, out)
	}
	return written, nil
}
