package index

import (
	"github.com/rwtools/pkg/binread"
)

// Parse decodes info according to layout and returns its records in file
// order. Names are decoded with enc.
//
// On success the number of records equals the count declared by the header
// (KindTable with a count header) or implied by the file contents.
func Parse(layout Layout, info []byte, enc binread.NameEncoding) ([]Record, error) {
	if err := layout.Validate(); err != nil {
		return nil, &ParseError{Offset: 0, Reason: "layout rejected", Err: err}
	}

	switch layout.Kind {
	case KindTable:
		return parseTable(layout, info, enc)
	case KindNamed:
		return parseNamed(layout, info, enc)
	default:
		return parsePattern(layout, info)
	}
}

func parseTable(l Layout, info []byte, enc binread.NameEncoding) ([]Record, error) {
	r := binread.NewReader(info)

	if len(info) < l.TableOffset {
		return nil, &ParseError{Offset: len(info), Reason: "file shorter than index header"}
	}

	var count int
	if l.CountWidth > 0 {
		v, err := r.UintAt(l.CountOffset, l.CountWidth)
		if err != nil {
			return nil, &ParseError{Offset: l.CountOffset, Reason: "failed to read record count", Err: err}
		}
		count = int(v)
	} else {
		avail := len(info) - l.TableOffset
		count = avail / l.RecordSize
		if avail%l.RecordSize != 0 {
			return nil, &TruncatedIndexError{
				Declared: count + 1,
				Parsed:   count,
				Offset:   l.TableOffset + count*l.RecordSize,
			}
		}
	}

	// The count is untrusted; never preallocate past what the file can hold.
	capHint := count
	if fit := (len(info) - l.TableOffset) / l.RecordSize; fit < capHint {
		capHint = fit
	}
	records := make([]Record, 0, capHint)

	for i := 0; i < count; i++ {
		pos := l.TableOffset + i*l.RecordSize
		if pos+l.RecordSize > len(info) {
			return nil, &TruncatedIndexError{Declared: count, Parsed: i, Offset: pos}
		}

		rec := Record{Index: i, Pos: pos, Located: true}
		if l.Name.present() {
			raw, _ := r.FixedStringAt(pos+l.Name.Offset, l.Name.Width)
			rec.Name = enc.Decode(raw)
		}
		if err := readFields(r, pos, l, &rec); err != nil {
			return nil, &ParseError{Offset: pos, Reason: "failed to read record fields", Err: err}
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseNamed(l Layout, info []byte, enc binread.NameEncoding) ([]Record, error) {
	r := binread.NewReader(info)
	var records []Record

	for r.Remaining() > 0 {
		start := r.Pos()

		// Zero padding after the last entry.
		rest, _ := r.BytesAt(start, r.Remaining())
		if binread.AllZero(rest) {
			break
		}

		raw, ok := r.CString()
		if !ok {
			// Cut off inside the last name.
			return nil, &TruncatedIndexError{
				Declared: len(records) + 1,
				Parsed:   len(records),
				Offset:   start,
			}
		}

		tailPos := r.Pos()
		if err := r.Skip(l.TailSize); err != nil {
			return nil, &TruncatedIndexError{
				Declared: len(records) + 1,
				Parsed:   len(records),
				Offset:   start,
			}
		}

		rec := Record{
			Index:   len(records),
			Pos:     start,
			Name:    enc.Decode(raw),
			Located: true,
		}
		if err := readFields(r, tailPos, l, &rec); err != nil {
			return nil, &ParseError{Offset: tailPos, Reason: "failed to read record fields", Err: err}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, &ParseError{Offset: 0, Reason: "no records"}
	}
	return records, nil
}

func parsePattern(l Layout, info []byte) ([]Record, error) {
	matches := l.Pattern.FindAllIndex(info, -1)
	records := make([]Record, 0, len(matches))
	for i, m := range matches {
		records = append(records, Record{
			Index: i,
			Pos:   m[0],
			Name:  string(info[m[0]:m[1]]),
		})
	}
	if len(records) == 0 {
		return nil, &ParseError{Offset: 0, Reason: "no records"}
	}
	return records, nil
}

func readFields(r *binread.Reader, base int, l Layout, rec *Record) error {
	var err error
	read := func(f Field) uint32 {
		if err != nil || !f.present() {
			return 0
		}
		var v uint32
		v, err = r.UintAt(base+f.Offset, f.Width)
		return v
	}

	rec.ID = read(l.ID)
	rec.Offset = uint64(read(l.Offset))
	rec.Length = uint64(read(l.Length))
	rec.Type = read(l.Type)
	if err != nil {
		return err
	}

	if l.Meta.present() {
		meta, err := r.BytesAt(base+l.Meta.Offset, l.Meta.Width)
		if err != nil {
			return err
		}
		rec.Meta = append([]byte(nil), meta...)
	}
	return nil
}
