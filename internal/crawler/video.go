package crawler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"medley/internal/logger"
)

// generateVideoThumbnail extracts a frame from the middle of a video and
// writes it next to the source as <stem>_thumbnail.jpg. Returns ok=false
// when ffmpeg or ffprobe is unavailable or the extraction fails; callers
// then fall back to sibling images or the placeholder.
func (c *Crawler) generateVideoThumbnail(ctx context.Context, videoPath string) (string, bool) {
	ext := filepath.Ext(videoPath)
	outPath := strings.TrimSuffix(videoPath, ext) + "_thumbnail.jpg"
	if _, err := os.Stat(outPath); err == nil {
		return outPath, true
	}

	duration, err := probeDuration(ctx, videoPath)
	if err != nil {
		c.log.Debug("video probe failed",
			logger.String("path", videoPath),
			logger.Error(err))
		return "", false
	}

	if err := extractFrame(ctx, videoPath, outPath, duration/2); err != nil {
		c.log.Debug("frame extraction failed",
			logger.String("path", videoPath),
			logger.Error(err))
		return "", false
	}
	return outPath, true
}

// probeDuration asks ffprobe for a video's duration in seconds.
func probeDuration(ctx context.Context, videoPath string) (float64, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return duration, nil
}

// extractFrame writes a single frame at the given offset to outPath.
func extractFrame(ctx context.Context, videoPath, outPath string, offsetSeconds float64) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", strconv.FormatFloat(offsetSeconds, 'f', 2, 64),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y", outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}
