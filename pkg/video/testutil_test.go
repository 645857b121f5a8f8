package video

import (
	"fmt"
	"os/exec"
)

// ffmpegTestSrc builds a command that renders a half-second color test
// clip, with a different hue per seed so stitched output is verifiable.
func ffmpegTestSrc(path string, seed int) *exec.Cmd {
	src := fmt.Sprintf("color=c=0x%06x:s=320x240:d=0.5", (seed+1)*0x336699%0xffffff)
	return exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", src,
		"-pix_fmt", "yuv420p",
		path,
	)
}
