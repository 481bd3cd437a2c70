// Package index parses Info files into ordered record lists using
// declarative per-format layouts.
package index

import (
	"fmt"
	"regexp"
)

// Kind selects the record framing of an Info file.
type Kind int

const (
	// KindTable is a table of fixed-size records, optionally preceded by a
	// record count header.
	KindTable Kind = iota
	// KindNamed is a sequence of NUL-terminated names, each followed by a
	// fixed-size tail holding the numeric fields.
	KindNamed
	// KindPattern carries only names, found by a regular expression. Offsets
	// and lengths come from scanning the Data file.
	KindPattern
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindNamed:
		return "named"
	case KindPattern:
		return "pattern"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field locates a value inside a record (KindTable) or a tail (KindNamed).
// A zero Width means the field is absent.
type Field struct {
	Offset int
	Width  int
}

func (f Field) present() bool { return f.Width > 0 }

func (f Field) end() int { return f.Offset + f.Width }

// Layout describes the on-disk shape of one Info file format.
type Layout struct {
	Kind Kind

	// KindTable header. CountWidth 0 means there is no header and the record
	// count is implied by the file size.
	CountOffset int
	CountWidth  int
	TableOffset int
	RecordSize  int

	// KindNamed
	TailSize int

	Name   Field // fixed-width, NUL-padded (KindTable only)
	ID     Field
	Offset Field
	Length Field
	Type   Field
	Meta   Field // copied verbatim to Record.Meta

	// KindPattern
	Pattern *regexp.Regexp
}

// Record is one index entry.
type Record struct {
	Index  int    // Position in the Info file, 0-based
	Pos    int    // Byte offset of the entry in the Info file
	Name   string // Decoded embedded name, empty if the format has none
	ID     uint32 // Numeric identifier for formats without names
	Offset uint64 // Byte offset into the Data file
	Length uint64 // Byte length in the Data file
	Type   uint32 // Format-specific type tag
	Meta   []byte // Format-specific raw metadata

	// Located is false for KindPattern records until the Data file has been
	// scanned for their payload.
	Located bool
}

// Identifier returns a human-readable name for the record.
func (r Record) Identifier() string {
	if r.Name != "" {
		return r.Name
	}
	if r.ID != 0 {
		return fmt.Sprintf("id %d", r.ID)
	}
	return fmt.Sprintf("#%d", r.Index)
}

// End returns Offset+Length.
func (r Record) End() uint64 { return r.Offset + r.Length }

// Validate checks that the layout is internally consistent.
func (l Layout) Validate() error {
	switch l.Kind {
	case KindTable:
		if l.RecordSize <= 0 {
			return fmt.Errorf("%w: table record size must be positive", ErrInvalidLayout)
		}
		if l.CountWidth != 0 && l.CountWidth != 1 && l.CountWidth != 2 && l.CountWidth != 4 {
			return fmt.Errorf("%w: count width %d", ErrInvalidLayout, l.CountWidth)
		}
		if l.CountWidth > 0 && l.CountOffset+l.CountWidth > l.TableOffset {
			return fmt.Errorf("%w: count header overlaps record table", ErrInvalidLayout)
		}
		return l.checkFields(l.RecordSize)
	case KindNamed:
		if l.TailSize <= 0 {
			return fmt.Errorf("%w: named tail size must be positive", ErrInvalidLayout)
		}
		if l.Name.present() {
			return fmt.Errorf("%w: named layouts take the name from the NUL-terminated prefix", ErrInvalidLayout)
		}
		return l.checkFields(l.TailSize)
	case KindPattern:
		if l.Pattern == nil {
			return fmt.Errorf("%w: pattern layout without a pattern", ErrInvalidLayout)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidLayout, int(l.Kind))
	}
}

func (l Layout) checkFields(size int) error {
	if !l.Offset.present() || !l.Length.present() {
		return fmt.Errorf("%w: offset and length fields are required", ErrInvalidLayout)
	}
	for name, f := range map[string]Field{
		"name": l.Name, "id": l.ID, "offset": l.Offset, "length": l.Length, "type": l.Type, "meta": l.Meta,
	} {
		if !f.present() {
			continue
		}
		if f.Offset < 0 || f.end() > size {
			return fmt.Errorf("%w: %s field [%d,%d) outside %d-byte record", ErrInvalidLayout, name, f.Offset, f.end(), size)
		}
		if name != "name" && name != "meta" && f.Width != 1 && f.Width != 2 && f.Width != 4 {
			return fmt.Errorf("%w: %s field width %d", ErrInvalidLayout, name, f.Width)
		}
	}
	return nil
}
