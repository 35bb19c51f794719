// Package media extracts playable clips from a source recording.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/verte-zerg/subdeck/internal/timecode"
)

// Source is an opaque media handle: it reports a total duration and cuts
// sub-ranges into new playable clips. The concrete codec work is delegated
// to an external tool.
type Source interface {
	DurationMS(ctx context.Context) (int64, error)
	Extract(ctx context.Context, startMS, endMS int64, outPath string) error
}

// UnavailableError reports a source file that is missing or unreadable.
// It is fatal for the enclosing configuration.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("media unavailable: %s: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// FFmpegSource slices audio with ffmpeg and probes duration with ffprobe.
type FFmpegSource struct {
	inputPath   string
	ffmpegPath  string
	ffprobePath string

	durationMS int64
	probed     bool
}

// Open validates the source file and returns an ffmpeg-backed handle.
// ffmpegPath may be empty to use the tool from PATH.
func Open(path, ffmpegPath string) (*FFmpegSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpegSource{
		inputPath:   path,
		ffmpegPath:  ffmpegPath,
		ffprobePath: strings.Replace(ffmpegPath, "ffmpeg", "ffprobe", 1),
	}, nil
}

// DurationMS queries the media's total duration. The result is cached;
// every utterance of a configuration asks for it.
func (s *FFmpegSource) DurationMS(ctx context.Context) (int64, error) {
	if s.probed {
		return s.durationMS, nil
	}
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		s.inputPath,
	}
	output, err := exec.CommandContext(ctx, s.ffprobePath, args...).Output()
	if err != nil {
		return 0, &UnavailableError{Path: s.inputPath, Err: fmt.Errorf("ffprobe failed: %w", err)}
	}
	var seconds float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(output)), "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe duration: %w", err)
	}
	s.durationMS = int64(seconds * 1000)
	s.probed = true
	return s.durationMS, nil
}

// Extract cuts [startMS, endMS) into a new clip at outPath. The output
// format follows the outPath extension.
func (s *FFmpegSource) Extract(ctx context.Context, startMS, endMS int64, outPath string) error {
	args := []string{
		"-v", "error",
		"-ss", formatSeconds(startMS),
		"-to", formatSeconds(endMS),
		"-i", s.inputPath,
		"-vn",
		"-y",
		outPath,
	}
	if err := exec.CommandContext(ctx, s.ffmpegPath, args...).Run(); err != nil {
		return fmt.Errorf("ffmpeg extract %s-%s failed: %w",
			timecode.FormatMS(startMS), timecode.FormatMS(endMS), err)
	}
	return nil
}

func formatSeconds(ms int64) string {
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}
