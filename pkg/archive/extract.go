package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rwtools/pkg/index"
	"github.com/rwtools/pkg/texture"
)

// Pair is one Info/Data archive and the directory it is extracted to.
type Pair struct {
	Name      string
	Format    Format
	InfoPath  string
	DataPath  string
	OutputDir string

	// Err marks a pair that could not be assembled, such as an Info file
	// with no matching Data file name. Run reports it without reading anything.
	Err error
}

// Label returns Name, or the Info file's base name.
func (p Pair) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return filepath.Base(p.InfoPath)
}

// Extractor parses one archive pair and writes its records.
type Extractor struct {
	pair   Pair
	driver *Driver
	opts   Options

	records    []index.Record
	data       []byte
	unassigned int
	opened     bool
}

// NewExtractor creates an extractor for pair.
func NewExtractor(pair Pair, opts Options) (*Extractor, error) {
	driver, err := Lookup(string(pair.Format))
	if err != nil {
		return nil, err
	}
	if pair.OutputDir == "" {
		pair.OutputDir = "output"
	}

	return &Extractor{
		pair:   pair,
		driver: driver,
		opts:   opts.withDefaults(),
	}, nil
}

// Open reads and parses the Info file, then reads the Data file and locates
// payloads for formats that need it. Nothing is written.
func (e *Extractor) Open() error {
	info, err := os.ReadFile(e.pair.InfoPath)
	if err != nil {
		return &IOError{Op: "read", Path: e.pair.InfoPath, Err: err}
	}

	records, err := index.Parse(e.driver.Layout, info, e.opts.NameEncoding)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(e.pair.InfoPath), err)
	}

	data, err := os.ReadFile(e.pair.DataPath)
	if err != nil {
		return &IOError{Op: "read", Path: e.pair.DataPath, Err: err}
	}

	if e.driver.Locate != nil {
		e.unassigned = e.driver.Locate(records, data)
	}

	e.records = records
	e.data = data
	e.opened = true
	return nil
}

// Records returns the parsed records.
func (e *Extractor) Records() []index.Record {
	return e.records
}

// Driver returns the format driver in use.
func (e *Extractor) Driver() *Driver {
	return e.driver
}

// Extract writes every record to the output directory. Per-record failures
// are collected in the report; the returned error is fatal for the pair.
func (e *Extractor) Extract() (*Report, error) {
	report := newReport(e.pair)
	if !e.opened {
		report.Err = ErrNotOpened
		return report, ErrNotOpened
	}
	report.Declared = len(e.records)
	report.Unassigned = e.unassigned

	if err := os.MkdirAll(e.pair.OutputDir, 0755); err != nil {
		report.Err = &IOError{Op: "create output directory", Path: e.pair.OutputDir, Err: err}
		return report, report.Err
	}

	if e.unassigned > 0 {
		log.Warn().Str("pair", e.pair.Label()).Int("count", e.unassigned).
			Msg("payloads in data file without a matching name")
	}

	written := make(map[string]int)
	for _, rec := range e.records {
		if e.opts.Filter != "" &&
			!strings.Contains(strings.ToLower(rec.Identifier()), strings.ToLower(e.opts.Filter)) {
			report.Filtered++
			continue
		}
		e.extractRecord(rec, report, written)
	}

	return report, nil
}

// written maps each output path to its entry in report.Assets.
func (e *Extractor) extractRecord(rec index.Record, report *Report, written map[string]int) {
	raw, err := Slice(e.data, rec)
	if err != nil {
		report.skip(rec, err)
		return
	}

	rawName := OutputName(e.driver, rec)

	if e.driver.Decode == nil || e.opts.Decode == DecodeRaw {
		e.write(written, rec, rawName, raw, false, report)
		return
	}

	if e.opts.Decode == DecodeBoth {
		// Raw slice is kept on decode failure; skipped only when the decoded name is identical.
		out, ext, derr := e.driver.Decode(rec, raw, e.opts)
		decodedName := replaceExt(rawName, ext)
		if derr != nil || decodedName != rawName {
			e.write(written, rec, rawName, raw, false, report)
		}
		if derr != nil {
			e.decodeFailed(rec, derr, report)
			return
		}
		e.write(written, rec, decodedName, out, true, report)
		return
	}

	out, ext, err := e.driver.Decode(rec, raw, e.opts)
	if err != nil {
		e.decodeFailed(rec, err, report)
		return
	}
	e.write(written, rec, replaceExt(rawName, ext), out, true, report)
}

func (e *Extractor) decodeFailed(rec index.Record, err error, report *Report) {
	var ue *texture.UnknownFormatError
	if errors.As(err, &ue) {
		report.noteUnknownFlag(fmt.Sprintf("%x", ue.Flag[:]), rec.Identifier())
	}
	report.skip(rec, fmt.Errorf("failed to decode: %w", err))
}

func (e *Extractor) write(written map[string]int, rec index.Record, name string, data []byte, decoded bool, report *Report) {
	path := filepath.Join(e.pair.OutputDir, name)
	log.Debug().Str("record", rec.Identifier()).Uint64("offset", rec.Offset).
		Int("size", len(data)).Str("path", path).Msg("writing")

	if err := os.WriteFile(path, data, 0644); err != nil {
		report.skip(rec, &IOError{Op: "write", Path: path, Err: err})
		return
	}
	asset := Asset{
		Record:  rec,
		Path:    path,
		Size:    len(data),
		Decoded: decoded,
	}
	if i, dup := written[path]; dup {
		log.Warn().Str("file", name).Str("record", rec.Identifier()).
			Str("previous", report.Assets[i].Record.Identifier()).
			Msg("duplicate output name, overwriting")
		report.Assets[i] = asset
		return
	}
	written[path] = len(report.Assets)
	report.Assets = append(report.Assets, asset)
}

// Close releases the loaded archive data.
func (e *Extractor) Close() {
	e.records = nil
	e.data = nil
	e.opened = false
}

// Run opens and extracts one pair. A fatal error is recorded in Report.Err.
func Run(pair Pair, opts Options) *Report {
	if pair.Err != nil {
		r := newReport(pair)
		r.Err = pair.Err
		return r
	}

	e, err := NewExtractor(pair, opts)
	if err != nil {
		r := newReport(pair)
		r.Err = err
		return r
	}
	defer e.Close()

	if err := e.Open(); err != nil {
		r := newReport(pair)
		r.Err = err
		return r
	}

	report, _ := e.Extract()
	return report
}
