package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	appdist "clip-remix/application/distribution"
	appremix "clip-remix/application/remix"
	"clip-remix/domain/remix"
	"clip-remix/infrastructure/config"
	"clip-remix/infrastructure/drive"
	"clip-remix/infrastructure/ffmpeg"
	"clip-remix/infrastructure/filesystem"
	"clip-remix/infrastructure/gocv"
	"clip-remix/infrastructure/logging"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	genInput       string
	genClipLength  string
	genTotalLength string
	genOutput      string
	genSeed        uint64
	genDryRun      bool
	genUpload      bool
	genFreeSpace   bool
	genNotify      bool
	genInteractive bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Select segments from a folder and render a remix",
	Long: `Scan a folder for videos, pick random non-overlapping segments of a fixed
length until the target length is reached, and join them with a crossfade.

Lengths accept seconds ("8", "2.5") or timestamps ("01:30", "00:01:30.500").
Values not given on the command line come from the configuration file.

Examples:
  clip-remix generate --input ~/Videos/holiday
  clip-remix generate --input ~/Videos/holiday --clip-length 5 --total-length 01:00 --seed 42
  clip-remix generate --input ~/Videos/holiday --dry-run
  clip-remix generate --input ~/Videos/holiday --upload --notify
  clip-remix generate --interactive`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&genInput, "input", "i", "", "Folder to scan for videos (default from config)")
	generateCmd.Flags().StringVar(&genClipLength, "clip-length", "", "Length of each segment (default from config)")
	generateCmd.Flags().StringVar(&genTotalLength, "total-length", "", "Target length of the remix (default from config)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output file (default <folder>_remix.mp4)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "Seed for a reproducible selection")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Select and report segments without rendering")
	generateCmd.Flags().BoolVar(&genUpload, "upload", false, "Upload the remix to the configured Google Drive folder")
	generateCmd.Flags().BoolVar(&genFreeSpace, "free-space", false, "Delete the oldest remixes in the Drive folder when storage is short")
	generateCmd.Flags().BoolVar(&genNotify, "notify", false, "Email the share link to the configured recipients after uploading")
	generateCmd.Flags().BoolVar(&genInteractive, "interactive", false, "Prompt for folder, lengths and output file")
}

// GenerateDependencies are the collaborators of the generate command
type GenerateDependencies struct {
	Lister      remix.Lister
	Prober      remix.Prober
	Assembler   remix.Assembler
	FileChecker remix.FileChecker
	Uploader    appremix.Uploader // nil when uploads are not configured
	Notifier    appremix.Notifier // nil when email is not configured
	Logger      zerolog.Logger
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	input, err := generateInputFromFlags(cmd)
	if err != nil {
		return err
	}

	fileChecker := filesystem.NewChecker()
	if genInteractive {
		if err := PromptGenerateInput(DefaultPrompter, fileChecker, cfg, &input); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	deps, err := buildGenerateDependencies(ctx, cfg, input)
	if err != nil {
		return err
	}
	deps.FileChecker = fileChecker

	if !input.DryRun {
		input.Progress = newRenderProgress()
	}

	return RunGenerateWithDependencies(ctx, deps, cfg, input, os.Stdout)
}

func generateInputFromFlags(cmd *cobra.Command) (appremix.Input, error) {
	input := appremix.Input{
		InputDirectory: genInput,
		OutputPath:     genOutput,
		DryRun:         genDryRun,
		Upload:         genUpload,
		Notify:         genNotify,
	}

	var err error
	if genClipLength != "" {
		if input.SegmentLength, err = parseLengthFlag("--clip-length", genClipLength); err != nil {
			return input, err
		}
	}
	if genTotalLength != "" {
		if input.TargetDuration, err = parseLengthFlag("--total-length", genTotalLength); err != nil {
			return input, err
		}
	}
	if cmd.Flags().Changed("seed") {
		seed := genSeed
		input.Seed = &seed
	}
	return input, nil
}

func parseLengthFlag(flag, value string) (float64, error) {
	v, err := remix.ParseSeconds(value)
	if err != nil {
		return 0, &appremix.ValidationError{
			Message:    fmt.Sprintf("invalid value for %s: %q", flag, value),
			Suggestion: fmt.Sprintf("clip-remix generate %s 8", flag),
		}
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", flag)
	}
	return v, nil
}

// buildGenerateDependencies wires the production adapters selected by the configuration
func buildGenerateDependencies(ctx context.Context, cfg *config.Config, input appremix.Input) (GenerateDependencies, error) {
	deps := GenerateDependencies{
		Logger: logging.WithComponent("generate"),
	}

	deps.Lister = filesystem.NewWalker(
		filesystem.WithContentCheck(cfg.Probe.VerifyContent),
		filesystem.WithWalkerLogger(logging.WithComponent("walker")),
	)

	switch cfg.Probe.Backend {
	case config.ProbeBackendGoCV:
		if !gocv.Available() {
			return deps, fmt.Errorf("probe backend %q is not available in this build; rebuild with -tags=gocv or run: %s",
				cfg.Probe.Backend, config.SuggestSetCommand("probe.backend", config.ProbeBackendFFprobe))
		}
		deps.Prober = gocv.NewProber()
	default:
		deps.Prober = ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath))
	}

	deps.Assembler = ffmpeg.NewAssembler(
		ffmpeg.WithAssemblerFFmpegPath(cfg.FFmpeg.FFmpegPath),
		ffmpeg.WithCodecs(cfg.FFmpeg.VideoCodec, cfg.FFmpeg.AudioCodec),
		ffmpeg.WithQuality(cfg.FFmpeg.Preset, cfg.FFmpeg.CRF),
		ffmpeg.WithAssemblerLogger(logging.WithComponent("assembler")),
	)

	if input.DryRun {
		return deps, nil
	}

	if input.Upload && cfg.Google.RemixFolderID != "" {
		client, err := drive.NewClientFromCredentials(ctx, cfg.Google.CredentialsFile, cfg.Google.TokenFile)
		if err != nil {
			return deps, fmt.Errorf("failed to create Google Drive client: %w", err)
		}
		var opts []appdist.UploadOption
		if genFreeSpace {
			opts = append(opts, appdist.WithCleanup(appdist.NewCleanupService(client, cfg.Google.RemixFolderID)))
		}
		deps.Uploader = appdist.NewUploadService(client, cfg.Google.RemixFolderID, os.Stdout, opts...)
	}

	if input.Notify && cfg.Email.Enabled() {
		notifier, err := newShareNotifier(ctx, cfg)
		if err != nil {
			return deps, err
		}
		deps.Notifier = notifier
	}

	return deps, nil
}

// RunGenerateWithDependencies runs the generate command with injected dependencies (for testing)
func RunGenerateWithDependencies(
	ctx context.Context,
	deps GenerateDependencies,
	cfg *config.Config,
	input appremix.Input,
	output OutputWriter,
) error {
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := verifyTool(verifyCtx, deps.Prober, "ffprobe"); err != nil {
		return err
	}
	if !input.DryRun {
		if err := verifyTool(verifyCtx, deps.Assembler, "ffmpeg"); err != nil {
			return err
		}
	}

	opts := []appremix.ServiceOption{appremix.WithLogger(deps.Logger)}
	if deps.Uploader != nil {
		opts = append(opts, appremix.WithUploader(deps.Uploader))
	}
	if deps.Notifier != nil {
		opts = append(opts, appremix.WithNotifier(deps.Notifier))
	}
	service := appremix.NewService(deps.Lister, deps.Prober, deps.Assembler, deps.FileChecker, cfg, output, opts...)

	result, err := service.Generate(ctx, input)
	if err != nil {
		return err
	}

	if input.Seed == nil {
		fmt.Fprintf(output, "Reproduce this selection with --seed %d\n", result.Seed)
	}
	return nil
}

// verifyTool checks an external tool when the adapter supports it
func verifyTool(ctx context.Context, adapter any, name string) error {
	verifiable, ok := adapter.(interface{ VerifyInstalled(context.Context) error })
	if !ok {
		return nil
	}
	if err := verifiable.VerifyInstalled(ctx); err != nil {
		return fmt.Errorf("%s verification failed: %w", name, err)
	}
	return nil
}

// newRenderProgress draws a progress bar on stderr as segments are rendered
func newRenderProgress() func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("      Rendering segments"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetRenderBlankState(true),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
		if done >= total {
			_ = bar.Finish()
		}
	}
}

// PromptGenerateInput asks for the values the original desktop form collected
func PromptGenerateInput(prompter Prompter, fileChecker remix.FileChecker, cfg *config.Config, input *appremix.Input) error {
	folder := input.InputDirectory
	if folder == "" {
		folder = cfg.Paths.InputDirectory
	}
	folder, err := prompter.Input("Input folder:", folder)
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	folder = strings.TrimSpace(folder)
	if folder == "" || !fileChecker.IsDir(folder) {
		return fmt.Errorf("%w: invalid input folder %q", remix.ErrConfiguration, folder)
	}
	input.InputDirectory = folder

	clip, err := promptLength(prompter, "Max clip length (seconds):", input.SegmentLength, cfg.Remix.MaxClipLength)
	if err != nil {
		return err
	}
	input.SegmentLength = clip

	total, err := promptLength(prompter, "Max total length (seconds):", input.TargetDuration, cfg.Remix.MaxTotalLength)
	if err != nil {
		return err
	}
	input.TargetDuration = total

	if !input.DryRun {
		defaultOut := input.OutputPath
		if defaultOut == "" {
			defaultOut = appremix.DefaultOutputPath(folder, cfg.Paths.OutputDirectory)
		}
		out, err := prompter.Input("Save remix as:", defaultOut)
		if err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		if strings.TrimSpace(out) == "" {
			return fmt.Errorf("operation cancelled: no output file given")
		}
		input.OutputPath = strings.TrimSpace(out)

		if !input.Upload && cfg.Google.RemixFolderID != "" {
			upload, err := prompter.Confirm("Upload to Google Drive when done?", false)
			if err != nil {
				return fmt.Errorf("prompt cancelled: %w", err)
			}
			input.Upload = upload
		}

		if input.Upload && !input.Notify && cfg.Email.Enabled() {
			notify, err := prompter.Confirm(fmt.Sprintf("Email the link to %s?", strings.Join(cfg.Email.Recipients, ", ")), false)
			if err != nil {
				return fmt.Errorf("prompt cancelled: %w", err)
			}
			input.Notify = notify
		}
	}

	return nil
}

func promptLength(prompter Prompter, message string, current, fallback float64) (float64, error) {
	def := current
	if def == 0 {
		def = fallback
	}
	answer, err := prompter.Input(message, formatSecondsPlain(def))
	if err != nil {
		return 0, fmt.Errorf("prompt cancelled: %w", err)
	}
	v, err := remix.ParseSeconds(answer)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid input for %q: enter a positive number of seconds", strings.TrimSuffix(message, ":"))
	}
	return v, nil
}

func formatSecondsPlain(v float64) string {
	if v <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}
