// Package video stitches individual sign clips into one continuous
// announcement video using ffmpeg.
package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"railsetu/pkg/config"
	"railsetu/pkg/isl"
)

// Stitcher runs the two-stage ffmpeg pipeline: normalize every clip to a
// common resolution and framerate, then concatenate the normalized clips
// without re-encoding.
type Stitcher struct {
	ffmpeg  string
	ffprobe string
	width   int
	height  int
	fps     int
}

// NewStitcher creates a Stitcher from the ISL configuration.
func NewStitcher(cfg config.ISLConfig) *Stitcher {
	ffmpeg := cfg.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	ffprobe := cfg.FFprobe
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return &Stitcher{
		ffmpeg:  ffmpeg,
		ffprobe: ffprobe,
		width:   cfg.Width,
		height:  cfg.Height,
		fps:     cfg.FPS,
	}
}

// Available reports whether the ffmpeg binary can be executed.
func (s *Stitcher) Available() bool {
	return exec.Command(s.ffmpeg, "-version").Run() == nil
}

// Stitch renders the playlist clips into a single video at outputPath.
// Clips that fail normalization are skipped and reported in the returned
// slice; if every clip fails (or the playlist is empty) an error is
// returned and no output is written.
func (s *Stitcher) Stitch(ctx context.Context, clips []isl.Clip, outputPath string) (skipped []string, err error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("no sign clips to stitch")
	}

	workDir, err := os.MkdirTemp("", "islstitch")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Stage 1: normalize each clip. Source clips come from mixed
	// recordings, so resolution and framerate have to be unified before
	// a copy-concat is possible.
	var normalized []string
	for i, clip := range clips {
		out := filepath.Join(workDir, fmt.Sprintf("clip_%03d.mp4", i))
		args := s.normalizeArgs(clip.Path, out)
		cmd := exec.CommandContext(ctx, s.ffmpeg, args...)
		if output, runErr := cmd.CombinedOutput(); runErr != nil {
			slog.Warn("Skipping unreadable sign clip", "word", clip.Word, "path", clip.Path, "error", runErr, "output", tail(string(output)))
			skipped = append(skipped, clip.Word)
			continue
		}
		normalized = append(normalized, out)
	}
	if len(normalized) == 0 {
		return skipped, fmt.Errorf("all %d sign clips failed to normalize", len(clips))
	}

	// Stage 2: concat without re-encoding.
	listPath := filepath.Join(workDir, "concat.txt")
	if err := writeConcatList(listPath, normalized); err != nil {
		return skipped, err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return skipped, fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.ffmpeg, concatArgs(listPath, outputPath)...)
	if output, runErr := cmd.CombinedOutput(); runErr != nil {
		return skipped, fmt.Errorf("ffmpeg concat failed: %w\nOutput: %s", runErr, tail(string(output)))
	}

	return skipped, nil
}

// Duration returns the playback length of a video file in seconds.
func (s *Stitcher) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned unparsable duration %q: %w", output, err)
	}
	return d, nil
}

// normalizeArgs builds the ffmpeg arguments that re-encode one clip to
// the common resolution, framerate, and pixel format. Audio is dropped;
// sign clips are silent by nature and stray audio streams break concat.
func (s *Stitcher) normalizeArgs(input, output string) []string {
	scale := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,fps=%d",
		s.width, s.height, s.width, s.height, s.fps)
	return []string{
		"-y",
		"-i", input,
		"-vf", scale,
		"-pix_fmt", "yuv420p",
		"-an",
		output,
	}
}

// concatArgs builds the ffmpeg arguments for the copy-concat stage.
func concatArgs(listPath, output string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		output,
	}
}

// writeConcatList writes the concat demuxer input file. Single quotes in
// paths are escaped per the demuxer's quoting rules.
func writeConcatList(path string, files []string) error {
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString("file '")
		sb.WriteString(strings.ReplaceAll(f, "'", `'\''`))
		sb.WriteString("'\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	return nil
}

// tail trims ffmpeg output to its last few lines for logs.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) <= 4 {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-4:], "\n")
}
