package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	".jsonkraft":   true,
	"dist":         true,
}

// FileScanner implements domain.FileScanner by walking the filesystem.
// Files named explicitly are returned as given; directories contribute
// every *.json file below them.
type FileScanner struct {
	exclude map[string]bool
}

// New creates a scanner that also skips directories named in exclude.
func New(exclude ...string) *FileScanner {
	s := &FileScanner{exclude: make(map[string]bool, len(exclude))}
	for _, p := range exclude {
		s.exclude[strings.TrimSuffix(p, "/")] = true
	}
	return s
}

func (s *FileScanner) Scan(paths ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (skipDirs[d.Name()] || s.exclude[d.Name()]) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(d.Name()), ".json") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}
