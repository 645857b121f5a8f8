package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestNewStoreCreatesLayout(t *testing.T) {
	s := newTestStore(t)
	for _, d := range []string{"audio", "video", "uploads"} {
		if _, err := os.Stat(filepath.Join(s.Root(), d)); err != nil {
			t.Errorf("missing media dir %s: %v", d, err)
		}
	}
}

func TestNewPathsAreUniqueAndRelative(t *testing.T) {
	s := newTestStore(t)

	rel1, abs1 := s.NewAudioPath("mp3")
	rel2, _ := s.NewAudioPath("mp3")
	if rel1 == rel2 {
		t.Error("consecutive paths must be unique")
	}
	if !strings.HasPrefix(rel1, "audio/") || !strings.HasSuffix(rel1, ".mp3") {
		t.Errorf("rel = %q, want audio/<uuid>.mp3", rel1)
	}
	if !strings.HasPrefix(abs1, s.Root()) {
		t.Errorf("abs = %q must live under root", abs1)
	}

	relV, _ := s.NewVideoPath("mp4")
	if !strings.HasPrefix(relV, "video/") {
		t.Errorf("video rel = %q", relV)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	s := newTestStore(t)

	bad := []string{
		"../etc/passwd",
		"audio/../../etc/passwd",
		"/etc/passwd",
		"",
	}
	for _, p := range bad {
		if _, err := s.Resolve(p); err == nil {
			t.Errorf("Resolve(%q) should fail", p)
		}
	}

	rel, abs := s.NewAudioPath("mp3")
	got, err := s.Resolve(rel)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", rel, err)
	}
	if got != abs {
		t.Errorf("Resolve = %q, want %q", got, abs)
	}
}

func TestRemoveMissingIsNoError(t *testing.T) {
	s := newTestStore(t)
	if err := s.Remove("audio/gone.mp3"); err != nil {
		t.Errorf("Remove of missing file should be nil, got %v", err)
	}
}

func TestCleanOrphans(t *testing.T) {
	s := newTestStore(t)

	keepRel, keepAbs := s.NewAudioPath("mp3")
	_, orphanAbs := s.NewAudioPath("mp3")
	_, orphanVideo := s.NewVideoPath("mp4")
	for _, p := range []string{keepAbs, orphanAbs, orphanVideo} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// Uploads are never garbage collected.
	_, uploadAbs := s.NewUploadPath("wav")
	if err := os.WriteFile(uploadAbs, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := s.CleanOrphans(map[string]bool{keepRel: true})
	if err != nil {
		t.Fatalf("CleanOrphans failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	if _, err := os.Stat(keepAbs); err != nil {
		t.Error("referenced asset was removed")
	}
	if _, err := os.Stat(orphanAbs); !os.IsNotExist(err) {
		t.Error("orphaned audio survived cleanup")
	}
	if _, err := os.Stat(uploadAbs); err != nil {
		t.Error("uploads must not be garbage collected")
	}
}
