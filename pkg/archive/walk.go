package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
)

// FindFiles returns the regular files under root whose extension matches ext
// (case-insensitive, with the dot), sorted by path. When root is a file it is
// returned as is, whatever its extension.
func FindFiles(root, ext string) ([]string, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !fi.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsRegular() {
				return nil
			}
			if ext == "" || strings.EqualFold(filepath.Ext(path), ext) {
				files = append(files, path)
			}
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
