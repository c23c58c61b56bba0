package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"clip-remix/domain/remix"

	"github.com/rs/zerolog"
)

// Assembler implements remix.Assembler with ffmpeg.
// Each segment is cut and normalised to a temporary file, then the files are
// joined with an xfade crossfade into the output.
type Assembler struct {
	ffmpegPath string
	runner     CommandRunner
	videoCodec string
	audioCodec string
	preset     string
	crf        int
	tempDir    string
	logger     zerolog.Logger
}

// AssemblerOption is a functional option for configuring Assembler
type AssemblerOption func(*Assembler)

// WithAssemblerFFmpegPath sets a custom ffmpeg executable path
func WithAssemblerFFmpegPath(path string) AssemblerOption {
	return func(a *Assembler) {
		a.ffmpegPath = path
	}
}

// WithAssemblerCommandRunner sets a custom command runner (for testing)
func WithAssemblerCommandRunner(runner CommandRunner) AssemblerOption {
	return func(a *Assembler) {
		a.runner = runner
	}
}

// WithCodecs sets the video and audio encoders
func WithCodecs(video, audio string) AssemblerOption {
	return func(a *Assembler) {
		if video != "" {
			a.videoCodec = video
		}
		if audio != "" {
			a.audioCodec = audio
		}
	}
}

// WithQuality sets the x264 preset and CRF
func WithQuality(preset string, crf int) AssemblerOption {
	return func(a *Assembler) {
		if preset != "" {
			a.preset = preset
		}
		if crf > 0 {
			a.crf = crf
		}
	}
}

// WithTempDir sets where intermediate segment files are written
func WithTempDir(dir string) AssemblerOption {
	return func(a *Assembler) {
		a.tempDir = dir
	}
}

// WithAssemblerLogger sets the logger
func WithAssemblerLogger(logger zerolog.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// NewAssembler creates a new FFmpeg-based assembler
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		videoCodec: "libx264",
		audioCodec: "aac",
		preset:     "medium",
		crf:        23,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Assemble implements remix.Assembler
func (a *Assembler) Assemble(ctx context.Context, plan *remix.Plan, opts remix.AssembleOptions) error {
	if plan == nil || plan.Empty() {
		return errors.New("plan has no segments to assemble")
	}
	if err := opts.Validate(plan.SegmentLength); err != nil {
		return err
	}

	workDir, err := os.MkdirTemp(a.tempDir, "clip-remix-*")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	withAudio := planHasAudio(plan)
	total := plan.Len()

	a.logger.Info().
		Int("segments", total).
		Bool("audio", withAudio).
		Str("output", opts.OutputPath).
		Msg("assembling remix")

	parts := make([]string, 0, total)
	for i, seg := range plan.Segments {
		if err := ctx.Err(); err != nil {
			return err
		}

		part := filepath.Join(workDir, fmt.Sprintf("segment_%03d.mp4", i))
		args := a.normalizeArgs(seg, i == 0, part, opts, withAudio)

		a.logger.Debug().
			Str("source", seg.Asset.Path).
			Str("start", remix.FormatSeconds(seg.Start)).
			Str("end", remix.FormatSeconds(seg.End)).
			Strs("args", args).
			Msg("normalizing segment")

		if err := a.runner.Run(ctx, a.ffmpegPath, args...); err != nil {
			return fmt.Errorf("failed to normalize segment %d from %s: %w", i+1, filepath.Base(seg.Asset.Path), err)
		}
		parts = append(parts, part)

		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}
	}

	if dir := filepath.Dir(opts.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	args := a.joinArgs(parts, plan.SegmentLength, opts, withAudio)
	a.logger.Debug().Strs("args", args).Msg("joining segments")

	if err := a.runner.Run(ctx, a.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg join failed: %w", err)
	}

	a.logger.Info().Str("output", opts.OutputPath).Msg("remix written")
	return nil
}

// normalizeArgs cuts one segment and brings it to the common frame rate and size.
// Only the opening segment fades in from black; later ones crossfade during the join.
func (a *Assembler) normalizeArgs(seg remix.Segment, first bool, output string, opts remix.AssembleOptions, withAudio bool) []string {
	video := NewFilterBuilder().
		FPS(opts.FPS).
		Fit(frameWidth(opts.Height), opts.Height)
	audio := NewFilterBuilder()
	if first {
		video.FadeIn(opts.CrossfadeSeconds)
		audio.AudioFadeIn(opts.CrossfadeSeconds)
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", seconds3(seg.Start),
		"-t", seconds3(seg.Length()),
		"-i", seg.Asset.Path,
		"-vf", video.Build(),
	}

	if withAudio {
		if !audio.Empty() {
			args = append(args, "-af", audio.Build())
		}
		args = append(args, "-c:a", a.audioCodec, "-ar", "48000", "-ac", "2")
	} else {
		args = append(args, "-an")
	}

	args = append(args, a.encodeArgs(opts)...)
	return append(args, output)
}

// joinArgs builds the final command joining the normalised parts
func (a *Assembler) joinArgs(parts []string, segmentLength float64, opts remix.AssembleOptions, withAudio bool) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, p := range parts {
		args = append(args, "-i", p)
	}

	if len(parts) == 1 {
		args = append(args, "-map", "0:v")
		if withAudio {
			args = append(args, "-map", "0:a")
		}
		args = append(args, "-c", "copy", "-movflags", "+faststart", opts.OutputPath)
		return args
	}

	graph, videoOut, audioOut := buildJoinGraph(len(parts), segmentLength, opts.CrossfadeSeconds, withAudio)
	args = append(args, "-filter_complex", graph, "-map", videoOut)
	if withAudio {
		args = append(args, "-map", audioOut, "-c:a", a.audioCodec)
	}
	args = append(args, a.encodeArgs(opts)...)
	args = append(args, "-movflags", "+faststart", opts.OutputPath)
	return args
}

func (a *Assembler) encodeArgs(opts remix.AssembleOptions) []string {
	return []string{
		"-c:v", a.videoCodec,
		"-preset", a.preset,
		"-crf", strconv.Itoa(a.crf),
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(opts.FPS),
	}
}

// buildJoinGraph chains n inputs. With a crossfade each join overlaps the running
// output by crossfade seconds; without one the inputs are concatenated.
func buildJoinGraph(n int, segmentLength, crossfade float64, withAudio bool) (graph, videoOut, audioOut string) {
	if crossfade <= 0 {
		var b strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "[%d:v]", i)
			if withAudio {
				fmt.Fprintf(&b, "[%d:a]", i)
			}
		}
		a := 0
		if withAudio {
			a = 1
		}
		fmt.Fprintf(&b, "concat=n=%d:v=1:a=%d[v]", n, a)
		if withAudio {
			b.WriteString("[a]")
		}
		return b.String(), "[v]", "[a]"
	}

	var chains []string
	prevV, prevA := "[0:v]", "[0:a]"
	for k := 1; k < n; k++ {
		offset := float64(k) * (segmentLength - crossfade)
		outV := fmt.Sprintf("[v%d]", k)
		chains = append(chains, fmt.Sprintf("%s[%d:v]xfade=transition=fade:duration=%s:offset=%s%s",
			prevV, k, seconds3(crossfade), seconds3(offset), outV))
		prevV = outV

		if withAudio {
			outA := fmt.Sprintf("[a%d]", k)
			chains = append(chains, fmt.Sprintf("%s[%d:a]acrossfade=d=%s%s", prevA, k, seconds3(crossfade), outA))
			prevA = outA
		}
	}
	return strings.Join(chains, ";"), prevV, prevA
}

// planHasAudio is true only when every segment's source carries audio
func planHasAudio(plan *remix.Plan) bool {
	for _, s := range plan.Segments {
		if !s.Asset.HasAudio {
			return false
		}
	}
	return true
}

// VerifyInstalled checks that ffmpeg is available
func (a *Assembler) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, a.runner, a.ffmpegPath)
}

// Ensure Assembler implements remix.Assembler
var _ remix.Assembler = (*Assembler)(nil)
