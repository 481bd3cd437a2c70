package archive

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rwtools/pkg/index"
	"github.com/rwtools/pkg/riff"
	"github.com/rwtools/pkg/rw"
	"github.com/rwtools/pkg/texture"
)

// Format names an asset kind.
type Format string

const (
	FormatAnim   Format = "anim"
	FormatClump  Format = "clump"
	FormatIdTbl  Format = "idtbl"
	FormatPrt    Format = "prt"
	FormatSE     Format = "se"
	FormatTex    Format = "tex"
	FormatWindow Format = "window"
	FormatPack   Format = "pack"
)

// LocateFunc fills in Offset/Length for records whose payload position is
// not stored in the Info file. It returns the number of payloads found in
// data that could not be matched to any record.
type LocateFunc func(records []index.Record, data []byte) (unassigned int)

// DecodeFunc converts a raw slice. It returns the converted bytes and the
// extension of the converted file.
type DecodeFunc func(r index.Record, raw []byte, opts Options) (out []byte, ext string, err error)

// Driver maps a format to its index layout and payload handling.
type Driver struct {
	Format      Format
	Description string
	Layout      index.Layout
	Ext         string // Extension for records without an embedded name
	Locate      LocateFunc
	Decode      DecodeFunc
}

// 44-byte named table entry: name[32], length, length (duplicate), offset.
func namedTable(countWidth int) index.Layout {
	tableOffset := 0
	if countWidth > 0 {
		tableOffset = countWidth
	}
	return index.Layout{
		Kind:        index.KindTable,
		CountWidth:  countWidth,
		TableOffset: tableOffset,
		RecordSize:  44,
		Name:        index.Field{Offset: 0, Width: 32},
		Length:      index.Field{Offset: 32, Width: 4},
		Offset:      index.Field{Offset: 40, Width: 4},
	}
}

var drivers = map[Format]*Driver{
	FormatAnim: {
		Format:      FormatAnim,
		Description: "animation containers (RenderWare chunk 0x1B)",
		Layout: index.Layout{
			Kind:    index.KindPattern,
			Pattern: regexp.MustCompile(`\d{3}_\d{3}_\d{5}_\d{3}\.ame`),
		},
		Ext:    ".ame",
		Locate: locateChunks(rw.ChunkAnimation),
	},
	FormatClump: {
		Format:      FormatClump,
		Description: "clump models (RenderWare chunk 0x10)",
		Layout: index.Layout{
			Kind:    index.KindPattern,
			Pattern: regexp.MustCompile(`\d{3}_\d{3}_\d{5}\.dff`),
		},
		Ext:    ".dff",
		Locate: locateChunks(rw.ChunkClump),
	},
	FormatIdTbl: {
		Format:      FormatIdTbl,
		Description: "id table (count header, id/offset/length records)",
		Layout: index.Layout{
			Kind:        index.KindTable,
			CountWidth:  4,
			TableOffset: 4,
			RecordSize:  12,
			ID:          index.Field{Offset: 0, Width: 4},
			Offset:      index.Field{Offset: 4, Width: 4},
			Length:      index.Field{Offset: 8, Width: 4},
		},
		Ext: ".idt",
	},
	FormatPrt: {
		Format:      FormatPrt,
		Description: "particle definitions (NUL-terminated names)",
		Layout: index.Layout{
			Kind:     index.KindNamed,
			TailSize: 26,
			Length:   index.Field{Offset: 18, Width: 4},
			Offset:   index.Field{Offset: 22, Width: 4},
		},
		Ext: ".prt",
	},
	FormatSE: {
		Format:      FormatSE,
		Description: "sound effects (RIFF WAVE and DirectMusic segments)",
		Layout: index.Layout{
			Kind:    index.KindPattern,
			Pattern: regexp.MustCompile(`\d+_\d+_\d+\.(?:wav|sgt)`),
		},
		Ext:    ".wav",
		Locate: locateRIFF,
		Decode: decodeSound,
	},
	FormatTex: {
		Format:      FormatTex,
		Description: "textures (RGB565/ARGB4444, decoded to PNG or BMP)",
		Layout: index.Layout{
			Kind:     index.KindNamed,
			TailSize: 26,
			Meta:     index.Field{Offset: 0, Width: 14},
			Length:   index.Field{Offset: 14, Width: 4},
			Type:     index.Field{Offset: 18, Width: 4},
			Offset:   index.Field{Offset: 22, Width: 4},
		},
		Ext:    ".ras",
		Decode: decodeTexture,
	},
	FormatWindow: {
		Format:      FormatWindow,
		Description: "window layouts (count header, 44-byte named records)",
		Layout:      namedTable(4),
		Ext:         ".wnd",
	},
	FormatPack: {
		Format:      FormatPack,
		Description: "generic *Info.bin (headerless 44-byte named records)",
		Layout:      namedTable(0),
		Ext:         ".bin",
	},
}

// Lookup returns the driver for a format name.
func Lookup(name string) (*Driver, error) {
	d, ok := drivers[Format(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return d, nil
}

// Drivers returns all drivers ordered by format name.
func Drivers() []*Driver {
	out := make([]*Driver, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format < out[j].Format })
	return out
}

// locateChunks assigns RenderWare chunks with the given id to records in order.
func locateChunks(id uint32) LocateFunc {
	return func(records []index.Record, data []byte) int {
		spans := rw.Scan(data, id)
		for i := range records {
			if i >= len(spans) {
				break
			}
			s := spans[i]
			if s.Clamped {
				log.Warn().
					Str("record", records[i].Identifier()).
					Uint64("offset", s.Offset).
					Uint64("declared", s.Header.Total()).
					Msg("chunk size exceeds data file, clamped")
			}
			records[i].Offset = s.Offset
			records[i].Length = s.Length
			records[i].Located = true
		}
		if len(spans) > len(records) {
			return len(spans) - len(records)
		}
		return 0
	}
}

// locateRIFF assigns WAVE containers to .wav records and DirectMusic segments
// to .sgt records, each list in index order.
func locateRIFF(records []index.Record, data []byte) int {
	var waves, segments []int
	for i, r := range records {
		if strings.EqualFold(filepath.Ext(r.Name), ".sgt") {
			segments = append(segments, i)
		} else {
			waves = append(waves, i)
		}
	}

	unassigned := 0
	for _, c := range riff.Scan(data) {
		var queue *[]int
		switch {
		case c.Form == riff.FormWAVE:
			queue = &waves
		case c.IsSegment():
			queue = &segments
		default:
			log.Debug().Str("form", c.Form).Uint64("offset", c.Offset).Msg("skipping unsupported RIFF form")
			unassigned++
			continue
		}

		if len(*queue) == 0 {
			unassigned++
			continue
		}
		i := (*queue)[0]
		*queue = (*queue)[1:]

		if c.Clamped {
			log.Warn().
				Str("record", records[i].Identifier()).
				Uint64("offset", c.Offset).
				Uint64("declared", c.Declared).
				Msg("RIFF size exceeds data file, clamped")
		}
		records[i].Offset = c.Offset
		records[i].Length = c.Length
		records[i].Located = true
	}
	return unassigned
}

func decodeTexture(_ index.Record, raw []byte, opts Options) ([]byte, string, error) {
	res, err := texture.Unpack(raw)
	if err != nil {
		return nil, "", err
	}
	out, err := texture.Encode(res.Image, opts.Image)
	if err != nil {
		return nil, "", err
	}
	return out, opts.Image.Ext(), nil
}

// decodeSound unwraps WAVE containers; DirectMusic segments pass through.
func decodeSound(r index.Record, raw []byte, _ Options) ([]byte, string, error) {
	if strings.EqualFold(filepath.Ext(r.Name), ".sgt") {
		return raw, ".sgt", nil
	}
	out, err := riff.UnwrapWAVE(raw)
	if err != nil {
		return nil, "", err
	}
	return out, ".wav", nil
}
