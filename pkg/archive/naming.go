package archive

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rwtools/pkg/index"
)

const invalidNameChars = `<>:"/\|?*`

// SanitizeName replaces characters that are invalid in file names on common
// filesystems. Path separators are replaced too, so a record can never
// escape the output directory.
func SanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r < 0x20 || r == 0x7F || strings.ContainsRune(invalidNameChars, r) {
			sb.WriteByte('_')
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimLeft(strings.TrimRight(sb.String(), ". "), " ")
}

// OutputName returns the file name for a record's raw slice: the sanitized
// embedded name, or a zero-padded index plus the driver's extension.
func OutputName(d *Driver, r index.Record) string {
	if name := SanitizeName(r.Name); name != "" {
		return name
	}
	return fmt.Sprintf("%05d%s", r.Index, d.Ext)
}

// replaceExt swaps the extension of name for ext.
func replaceExt(name, ext string) string {
	if ext == "" {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
