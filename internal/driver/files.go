package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var sourceExts = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true,
	".ts": true, ".mts": true, ".cts": true, ".tsx": true,
}

// IsSource reports whether path has a JavaScript or TypeScript extension.
func IsSource(path string) bool {
	return sourceExts[strings.ToLower(filepath.Ext(path))]
}

// ListSources expands paths into a sorted, de-duplicated list of source
// files. Directories are walked recursively, skipping node_modules, hidden
// directories and skip (typically the cache directory). Files named
// explicitly are kept whatever their extension.
func ListSources(paths []string, skip string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != root && (name == "node_modules" || strings.HasPrefix(name, ".")) {
					return filepath.SkipDir
				}
				if skip != "" && sameDir(path, skip) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSource(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(files)
	return files, nil
}

func sameDir(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}
