package archive

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rwtools/pkg/index"
)

// Asset is a file written for a record.
type Asset struct {
	Record  index.Record
	Path    string
	Size    int
	Decoded bool
}

// Skip is a record that was not extracted.
type Skip struct {
	Record index.Record
	Err    error
}

// Report summarises the extraction of one pair.
type Report struct {
	Pair       Pair
	Declared   int // Records in the Info file
	Assets     []Asset
	Skipped    []Skip
	Filtered   int
	Unassigned int // Payloads in the Data file with no record
	// UnknownFlags maps unrecognised texture format flags (hex) to the
	// records that carried them.
	UnknownFlags map[string][]string
	Err          error // Fatal error; nothing after it was processed
}

func newReport(pair Pair) *Report {
	return &Report{Pair: pair}
}

// OK reports whether the pair completed without a fatal error.
func (r *Report) OK() bool { return r.Err == nil }

// OutOfBounds returns the skipped records caused by OutOfBoundsError.
func (r *Report) OutOfBounds() []Skip {
	var out []Skip
	for _, s := range r.Skipped {
		var oob *OutOfBoundsError
		if errors.As(s.Err, &oob) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Report) skip(rec index.Record, err error) {
	log.Warn().Str("pair", r.Pair.Label()).Str("record", rec.Identifier()).Err(err).Msg("skipping record")
	r.Skipped = append(r.Skipped, Skip{Record: rec, Err: err})
}

func (r *Report) noteUnknownFlag(flag, name string) {
	if r.UnknownFlags == nil {
		r.UnknownFlags = make(map[string][]string)
	}
	r.UnknownFlags[flag] = append(r.UnknownFlags[flag], name)
}

// Print writes a human-readable summary.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "%s (%s)\n", r.Pair.Label(), r.Pair.Format)
	if r.Err != nil {
		fmt.Fprintf(w, "  FAILED: %v\n", r.Err)
		return
	}

	fmt.Fprintf(w, "  Records: %d\n", r.Declared)
	fmt.Fprintf(w, "  Written: %d files\n", len(r.Assets))
	if r.Filtered > 0 {
		fmt.Fprintf(w, "  Filtered out: %d\n", r.Filtered)
	}
	if r.Unassigned > 0 {
		fmt.Fprintf(w, "  Unnamed payloads: %d\n", r.Unassigned)
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "  Skipped: %d\n", len(r.Skipped))
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "    %s: %v\n", s.Record.Identifier(), s.Err)
		}
	}

	if len(r.UnknownFlags) > 0 {
		flags := make([]string, 0, len(r.UnknownFlags))
		for f := range r.UnknownFlags {
			flags = append(flags, f)
		}
		// Most frequent first.
		sort.Slice(flags, func(i, j int) bool {
			ni, nj := len(r.UnknownFlags[flags[i]]), len(r.UnknownFlags[flags[j]])
			if ni != nj {
				return ni > nj
			}
			return flags[i] < flags[j]
		})

		fmt.Fprintln(w, "  Unknown texture format flags:")
		for _, f := range flags {
			names := r.UnknownFlags[f]
			sample := names
			suffix := ""
			if len(sample) > 5 {
				sample = sample[:5]
				suffix = ", ..."
			}
			fmt.Fprintf(w, "    %s (%d): %s%s\n", f, len(names), strings.Join(sample, ", "), suffix)
		}
	}
}

// BatchReport collects the reports of a batch run in input order.
type BatchReport struct {
	Reports []*Report
}

// Failed returns the pairs that aborted with a fatal error.
func (b *BatchReport) Failed() []*Report {
	var out []*Report
	for _, r := range b.Reports {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Written returns the total number of files written.
func (b *BatchReport) Written() int {
	n := 0
	for _, r := range b.Reports {
		n += len(r.Assets)
	}
	return n
}

// SkippedCount returns the total number of skipped records.
func (b *BatchReport) SkippedCount() int {
	n := 0
	for _, r := range b.Reports {
		n += len(r.Skipped)
	}
	return n
}

// Print writes every pair summary followed by the totals.
func (b *BatchReport) Print(w io.Writer) {
	for _, r := range b.Reports {
		r.Print(w)
	}

	failed := b.Failed()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Pairs: %d (%d failed)\n", len(b.Reports), len(failed))
	fmt.Fprintf(w, "Files written: %d\n", b.Written())
	fmt.Fprintf(w, "Records skipped: %d\n", b.SkippedCount())
	for _, r := range failed {
		fmt.Fprintf(w, "  failed: %s: %v\n", r.Pair.Label(), r.Err)
	}
}
