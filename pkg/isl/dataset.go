// Package isl maps announcement text onto a dataset of Indian Sign
// Language clips. The dataset is a directory of short videos, one per
// word, phrase, or digit, keyed by filename.
package isl

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

var clipExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
}

// Dataset is an in-memory index of sign clips: normalized word -> clip path.
type Dataset struct {
	dir      string
	index    map[string]string
	maxWords int // longest indexed phrase, in words
}

// LoadDataset scans dir for sign clips. Filenames become lookup keys:
// "Platform_Number.mp4" is indexed as "platform number". Duplicate keys
// keep the first clip found.
func LoadDataset(dir string) (*Dataset, error) {
	ds := &Dataset{dir: dir, index: make(map[string]string)}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !clipExtensions[ext] {
			return nil
		}

		key := normalizeKey(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))
		if key == "" {
			return nil
		}
		if _, exists := ds.index[key]; exists {
			slog.Warn("Duplicate sign clip ignored", "word", key, "path", path)
			return nil
		}
		ds.index[key] = path
		if n := strings.Count(key, " ") + 1; n > ds.maxWords {
			ds.maxWords = n
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan sign dataset %s: %w", dir, err)
	}

	if len(ds.index) == 0 {
		slog.Warn("Sign dataset is empty", "dir", dir)
	} else {
		slog.Info("Sign dataset loaded", "dir", dir, "clips", len(ds.index))
	}
	return ds, nil
}

// Lookup returns the clip path for a normalized word or phrase.
func (ds *Dataset) Lookup(word string) (string, bool) {
	path, ok := ds.index[normalizeKey(word)]
	return path, ok
}

// Size returns the number of indexed clips.
func (ds *Dataset) Size() int {
	return len(ds.index)
}

// Words returns all indexed words. Useful for the dashboard's dataset view.
func (ds *Dataset) Words() []string {
	words := make([]string, 0, len(ds.index))
	for w := range ds.index {
		words = append(words, w)
	}
	return words
}

// normalizeKey lowercases and collapses filename separators to spaces.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
