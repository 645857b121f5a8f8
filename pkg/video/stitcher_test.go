package video

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"railsetu/pkg/config"
	"railsetu/pkg/isl"
)

func testStitcher() *Stitcher {
	return NewStitcher(config.ISLConfig{
		Width:  640,
		Height: 480,
		FPS:    30,
	})
}

func TestStitchRejectsEmptyPlaylist(t *testing.T) {
	s := testStitcher()
	_, err := s.Stitch(context.Background(), nil, filepath.Join(t.TempDir(), "out.mp4"))
	if err == nil {
		t.Fatal("expected error for empty playlist")
	}
}

func TestNormalizeArgs(t *testing.T) {
	s := testStitcher()
	args := s.normalizeArgs("in.mp4", "out.mp4")

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "scale=640:480") {
		t.Errorf("missing scale filter: %s", joined)
	}
	if !strings.Contains(joined, "fps=30") {
		t.Errorf("missing fps filter: %s", joined)
	}
	if !strings.Contains(joined, "-an") {
		t.Errorf("audio must be stripped: %s", joined)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output must be last arg, got %s", args[len(args)-1])
	}
}

func TestConcatArgs(t *testing.T) {
	args := concatArgs("list.txt", "out.mp4")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-f concat") {
		t.Errorf("missing concat demuxer: %s", joined)
	}
	if !strings.Contains(joined, "-c copy") {
		t.Errorf("concat stage must not re-encode: %s", joined)
	}
}

func TestWriteConcatList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concat.txt")
	err := writeConcatList(path, []string{"/tmp/a.mp4", "/tmp/it's.mp4"})
	if err != nil {
		t.Fatalf("writeConcatList failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "file '/tmp/a.mp4'") {
		t.Errorf("plain path not listed: %s", content)
	}
	if !strings.Contains(content, `it'\''s`) {
		t.Errorf("single quote not escaped: %s", content)
	}
}

func TestStitchEndToEnd(t *testing.T) {
	s := testStitcher()
	if !s.Available() {
		t.Skip("ffmpeg not installed")
	}

	// Generate two tiny synthetic clips.
	dir := t.TempDir()
	clips := make([]isl.Clip, 0, 2)
	for i, name := range []string{"one", "two"} {
		path := filepath.Join(dir, name+".mp4")
		cmd := ffmpegTestSrc(path, i)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Skipf("could not generate test clip: %v (%s)", err, out)
		}
		clips = append(clips, isl.Clip{Word: name, Path: path})
	}

	out := filepath.Join(dir, "stitched.mp4")
	skipped, err := s.Stitch(context.Background(), clips, out)
	if err != nil {
		t.Fatalf("Stitch failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output is empty")
	}
}
