package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// RunBatch extracts each pair. Pairs are independent: a fatal error in one
// is recorded in its report and the rest still run. With jobs > 1 up to jobs
// pairs are processed concurrently; records within a pair are always
// sequential. Reports are returned in input order.
//
// Cancelling ctx stops pairs that have not started yet.
func RunBatch(ctx context.Context, pairs []Pair, opts Options, jobs int) *BatchReport {
	if jobs < 1 {
		jobs = 1
	}
	if jobs > len(pairs) {
		jobs = len(pairs)
	}

	reports := make([]*Report, len(pairs))
	taskCh := make(chan int)
	eg, ctx := errgroup.WithContext(ctx)

	for w := 0; w < jobs; w++ {
		eg.Go(func() error {
			for i := range taskCh {
				pair := pairs[i]
				if err := ctx.Err(); err != nil {
					r := newReport(pair)
					r.Err = err
					reports[i] = r
					continue
				}

				log.Info().Str("pair", pair.Label()).Str("format", string(pair.Format)).Msg("extracting")
				reports[i] = Run(pair, opts)
			}
			return nil
		})
	}

	eg.Go(func() error {
		defer close(taskCh)
		for i := range pairs {
			taskCh <- i
		}
		return nil
	})
	_ = eg.Wait()

	return &BatchReport{Reports: reports}
}

// DataPathFor derives the Data file path from an Info file path by replacing
// the first "Info_" in the base name with "_" (TexInfo_000.bin -> Tex_000.bin).
func DataPathFor(infoPath string) (string, error) {
	base := filepath.Base(infoPath)
	if !strings.Contains(base, "Info_") {
		return "", fmt.Errorf("info file name %q does not contain \"Info_\"", base)
	}
	return filepath.Join(filepath.Dir(infoPath), strings.Replace(base, "Info_", "_", 1)), nil
}

// PairsFromGlob builds one pair per Info file matching pattern. Output goes
// to outputDir/<info base name without extension>. A match whose Data file
// cannot be derived is returned with Pair.Err set.
func PairsFromGlob(format Format, pattern, outputDir string) ([]Pair, error) {
	if _, err := Lookup(string(format)); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no info files match %q", pattern)
	}

	pairs := make([]Pair, 0, len(matches))
	for _, info := range matches {
		base := filepath.Base(info)
		pair := Pair{
			Name:      base,
			Format:    format,
			InfoPath:  info,
			OutputDir: filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base))),
		}
		// Only this pair fails when its data file name cannot be derived.
		pair.DataPath, pair.Err = DataPathFor(info)
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
