// Package media manages the generated-asset tree: synthesized audio,
// stitched sign videos, and operator uploads. Assets are addressed by
// root-relative paths so the database rows stay portable.
package media

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	dirAudio   = "audio"
	dirVideo   = "video"
	dirUploads = "uploads"
)

// Store hands out asset paths under a single media root.
type Store struct {
	root string
}

// NewStore creates the media directory layout under root.
func NewStore(root string) (*Store, error) {
	for _, d := range []string{dirAudio, dirVideo, dirUploads} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory %s: %w", d, err)
		}
	}
	return &Store{root: root}, nil
}

// Root returns the media root directory.
func (s *Store) Root() string {
	return s.root
}

// NewAudioPath reserves a fresh audio asset path. ext is given without
// the dot ("mp3"). Returns the root-relative and absolute paths.
func (s *Store) NewAudioPath(ext string) (rel, abs string) {
	return s.newPath(dirAudio, ext)
}

// NewVideoPath reserves a fresh video asset path.
func (s *Store) NewVideoPath(ext string) (rel, abs string) {
	return s.newPath(dirVideo, ext)
}

// NewUploadPath reserves a fresh path for operator-uploaded audio.
func (s *Store) NewUploadPath(ext string) (rel, abs string) {
	return s.newPath(dirUploads, ext)
}

func (s *Store) newPath(dir, ext string) (rel, abs string) {
	name := uuid.NewString()
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	rel = filepath.ToSlash(filepath.Join(dir, name))
	return rel, filepath.Join(s.root, dir, name)
}

// Resolve maps a root-relative asset path to an absolute path, rejecting
// anything that escapes the media root.
func (s *Store) Resolve(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty media path")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("media path must be relative: %s", rel)
	}

	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	inside, err := filepath.Rel(s.root, abs)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("media path escapes root: %s", rel)
	}
	return abs, nil
}

// Remove deletes an asset. Missing files are not an error; the row may
// have outlived a manual cleanup.
func (s *Store) Remove(rel string) error {
	abs, err := s.Resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveAll deletes a set of assets, logging rather than aborting on
// individual failures.
func (s *Store) RemoveAll(rels []string) {
	for _, rel := range rels {
		if rel == "" {
			continue
		}
		if err := s.Remove(rel); err != nil {
			slog.Warn("Failed to remove media asset", "path", rel, "error", err)
		}
	}
}

// CleanOrphans removes generated assets (audio and video, not uploads)
// that no database row references anymore. Returns the number removed.
func (s *Store) CleanOrphans(referenced map[string]bool) (int, error) {
	removed := 0
	for _, dir := range []string{dirAudio, dirVideo} {
		base := filepath.Join(s.root, dir)
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(s.root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if referenced[rel] {
				return nil
			}
			if err := os.Remove(path); err != nil {
				slog.Warn("Failed to remove orphaned asset", "path", rel, "error", err)
				return nil
			}
			removed++
			return nil
		})
		if err != nil {
			return removed, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}
	if removed > 0 {
		slog.Info("Media cleanup removed orphaned assets", "count", removed)
	}
	return removed, nil
}
