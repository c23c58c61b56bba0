package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"clip-remix/domain/remix"
)

// Prober implements remix.Prober using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		p.ffprobePath = path
	}
}

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// probeResult matches the parts of ffprobe's JSON output we read
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// Probe implements remix.Prober
func (p *Prober) Probe(ctx context.Context, path string) (remix.MediaInfo, error) {
	if path == "" {
		return remix.MediaInfo{}, fmt.Errorf("file path is required")
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	out, err := p.runner.Output(ctx, p.ffprobePath, args...)
	if err != nil {
		return remix.MediaInfo{}, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var probe probeResult
	if err := json.Unmarshal(out, &probe); err != nil {
		return remix.MediaInfo{}, fmt.Errorf("failed to parse ffprobe output for %s: %w", path, err)
	}

	info := remix.MediaInfo{}
	hasVideo := false
	var streamDuration float64
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			hasVideo = true
			if d, err := strconv.ParseFloat(s.Duration, 64); err == nil && d > streamDuration {
				streamDuration = d
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if !hasVideo {
		return remix.MediaInfo{}, fmt.Errorf("%s has no video stream", path)
	}

	if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil && d > 0 {
		info.Duration = d
	} else if streamDuration > 0 {
		info.Duration = streamDuration
	} else {
		return remix.MediaInfo{}, fmt.Errorf("could not determine duration of %s", path)
	}

	return info, nil
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, p.runner, p.ffprobePath)
}

// Ensure Prober implements remix.Prober
var _ remix.Prober = (*Prober)(nil)
