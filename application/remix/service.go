package remix

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"clip-remix/domain/distribution"
	"clip-remix/domain/remix"
	"clip-remix/infrastructure/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Uploader publishes a finished remix
type Uploader interface {
	UploadRemix(ctx context.Context, remixPath string) (*distribution.UploadResult, error)
}

// Notifier emails the share link of a published remix
type Notifier interface {
	NotifyRemix(ctx context.Context, remixPath, shareURL string, duration time.Duration) error
}

// Service orchestrates scanning, selection, assembly and publication of a remix
type Service struct {
	lister      remix.Lister
	prober      remix.Prober
	assembler   remix.Assembler
	fileChecker remix.FileChecker
	uploader    Uploader
	notifier    Notifier
	cfg         *config.Config
	output      io.Writer
	logger      zerolog.Logger
	now         func() time.Time
}

// ServiceOption is a functional option for configuring Service
type ServiceOption func(*Service)

// WithUploader enables publication of the remix to Google Drive
func WithUploader(u Uploader) ServiceOption {
	return func(s *Service) {
		s.uploader = u
	}
}

// WithNotifier enables emailing the share link after upload
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLogger sets the structured logger
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new remix service
func NewService(
	lister remix.Lister,
	prober remix.Prober,
	assembler remix.Assembler,
	fileChecker remix.FileChecker,
	cfg *config.Config,
	output io.Writer,
	opts ...ServiceOption,
) *Service {
	if output == nil {
		output = io.Discard
	}
	s := &Service{
		lister:      lister,
		prober:      prober,
		assembler:   assembler,
		fileChecker: fileChecker,
		cfg:         cfg,
		output:      output,
		logger:      zerolog.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input contains the parameters of one generate run.
// Zero values fall back to the configuration.
type Input struct {
	InputDirectory string  // folder scanned recursively for clips
	SegmentLength  float64 // length of every segment, seconds
	TargetDuration float64 // stop once this much footage is selected, seconds
	OutputPath     string  // defaults to <folder>_remix.mp4
	Seed           *uint64 // fixed seed for a reproducible selection
	DryRun         bool    // select and report, but do not render
	Upload         bool    // publish to Google Drive after rendering
	Notify         bool    // email the share link after uploading

	// Progress is called after each segment has been rendered (optional)
	Progress func(done, total int)
}

// Result contains the outcome of a generate run
type Result struct {
	RunID      string
	Seed       uint64
	Inventory  *remix.Inventory
	Plan       *remix.Plan
	Usage      map[string][]remix.Interval
	OutputPath string
	ShareURL   string
}

// ValidationError contains details about a validation failure with suggestions
type ValidationError struct {
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s\n\nTo fix this, run:\n  %s", e.Message, e.Suggestion)
	}
	return e.Message
}

type runParams struct {
	inputDir       string
	segmentLength  float64
	targetDuration float64
	outputPath     string
	seed           uint64
	assemble       remix.AssembleOptions
}

// Generate runs the complete remix workflow
func (s *Service) Generate(ctx context.Context, input Input) (*Result, error) {
	started := s.now()

	// Step 0: Validate all inputs before starting
	params, err := s.resolve(input)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := s.logger.With().Str("run_id", runID).Logger()
	result := &Result{RunID: runID, Seed: params.seed, OutputPath: params.outputPath}

	steps := 3
	if !input.DryRun {
		steps++
		if input.Upload {
			steps++
		}
		if input.Notify {
			steps++
		}
	}

	fmt.Fprintf(s.output, "Input folder: %s\n", params.inputDir)
	fmt.Fprintf(s.output, "Clip length: %s, target length: %s\n", remix.FormatSeconds(params.segmentLength), remix.FormatSeconds(params.targetDuration))
	fmt.Fprintf(s.output, "Seed: %d\n\n", params.seed)

	// Step 1: find candidate files
	fmt.Fprintf(s.output, "[1/%d] Scanning for videos...\n", steps)
	paths, err := s.lister.ListVideos(params.inputDir, s.cfg.NormalizedExtensions())
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if len(paths) == 0 {
		return result, &ValidationError{
			Message:    fmt.Sprintf("no video files found in %s", params.inputDir),
			Suggestion: config.SuggestSetCommand("remix.extensions", ".mp4,.avi,.mov"),
		}
	}
	fmt.Fprintf(s.output, "      Found %d candidate files\n\n", len(paths))
	log.Info().Int("candidates", len(paths)).Str("root", params.inputDir).Msg("scan complete")

	// Step 2: probe durations
	fmt.Fprintf(s.output, "[2/%d] Reading durations...\n", steps)
	inv, err := remix.BuildInventory(ctx, paths, s.prober, params.segmentLength)
	result.Inventory = inv
	if inv != nil {
		s.reportSkipped(log, inv)
	}
	if err != nil {
		if remix.IsConfigurationError(err) {
			return result, &ValidationError{
				Message: fmt.Sprintf("no video in %s is longer than the clip length (%s)",
					params.inputDir, remix.FormatSeconds(params.segmentLength)),
				Suggestion: config.SuggestSetCommand("remix.max_clip_length", "<shorter length>"),
			}
		}
		return result, err
	}
	fmt.Fprintf(s.output, "      %d usable videos, %s of footage\n\n", len(inv.Assets), remix.FormatSeconds(inv.TotalDuration()))

	// Step 3: select segments
	fmt.Fprintf(s.output, "[3/%d] Selecting segments...\n", steps)
	var selectorOpts []remix.SelectorOption
	if s.cfg.Remix.MaxProposals > 0 {
		selectorOpts = append(selectorOpts, remix.WithMaxProposals(s.cfg.Remix.MaxProposals))
	}
	selector := remix.NewSelector(remix.NewSeededRand(params.seed), selectorOpts...)
	ledger := remix.NewLedger()

	plan, err := selector.Select(inv.Assets, params.segmentLength, params.targetDuration, ledger)
	if err != nil {
		return result, fmt.Errorf("selection failed: %w", err)
	}
	result.Plan = plan
	result.Usage = ledger.Usage()

	log.Info().
		Int("segments", plan.Len()).
		Float64("accumulated", plan.AccumulatedDuration).
		Int("proposals", plan.Proposals).
		Int("rejections", plan.Rejections).
		Bool("exhausted", plan.Exhausted).
		Msg("selection complete")

	fmt.Fprintf(s.output, "      Selected %d segments (%s of %s)\n", plan.Len(),
		remix.FormatSeconds(plan.AccumulatedDuration), remix.FormatSeconds(params.targetDuration))
	if plan.Exhausted {
		fmt.Fprintf(s.output, "      Warning: ran out of unused footage before reaching the target length\n")
	}
	s.reportUsage(result.Usage)
	fmt.Fprintln(s.output)

	if plan.Empty() {
		return result, &ValidationError{
			Message:    "no segment could be selected",
			Suggestion: config.SuggestSetCommand("remix.max_clip_length", "<shorter length>"),
		}
	}

	if input.DryRun {
		fmt.Fprintf(s.output, "Dry run: skipping render\n")
		return result, nil
	}

	// Step 4: render
	fmt.Fprintf(s.output, "[4/%d] Rendering remix...\n", steps)
	opts := params.assemble
	opts.Progress = input.Progress
	if err := s.assembler.Assemble(ctx, plan, opts); err != nil {
		return result, fmt.Errorf("render failed: %w", err)
	}
	fmt.Fprintf(s.output, "      Created: %s (%s)\n\n", params.outputPath,
		remix.FormatSeconds(plan.OutputDuration(opts.CrossfadeSeconds)))

	// Step 5: publish
	if input.Upload {
		fmt.Fprintf(s.output, "[5/%d] Uploading to Google Drive...\n", steps)
		uploaded, err := s.uploader.UploadRemix(ctx, params.outputPath)
		if err != nil {
			fmt.Fprintf(s.output, "\nTo retry the upload:\n  clip-remix upload --file %q\n\n", params.outputPath)
			return result, fmt.Errorf("upload failed: %w", err)
		}
		result.ShareURL = uploaded.ShareableURL
		fmt.Fprintf(s.output, "      Link: %s\n\n", uploaded.ShareableURL)
	}

	// Step 6: email the link (a failure here is only a warning)
	if input.Notify {
		fmt.Fprintf(s.output, "[6/%d] Emailing the link...\n", steps)
		duration := time.Duration(plan.OutputDuration(opts.CrossfadeSeconds) * float64(time.Second))
		if err := s.notifier.NotifyRemix(ctx, params.outputPath, result.ShareURL, duration); err != nil {
			log.Warn().Err(err).Msg("share email failed")
			fmt.Fprintf(s.output, "      Warning: email not sent: %v\n", err)
			fmt.Fprintf(s.output, "      To retry:\n        clip-remix share --file %q\n\n", params.outputPath)
		} else {
			fmt.Fprintf(s.output, "      Sent\n\n")
		}
	}

	fmt.Fprintf(s.output, "Done! Completed in %s\n", formatDuration(s.now().Sub(started)))
	return result, nil
}

// resolve merges the input with configuration and validates it before any work starts
func (s *Service) resolve(input Input) (*runParams, error) {
	p := &runParams{
		inputDir:       input.InputDirectory,
		segmentLength:  input.SegmentLength,
		targetDuration: input.TargetDuration,
		outputPath:     input.OutputPath,
	}

	// Resolve input folder
	if p.inputDir == "" {
		p.inputDir = s.cfg.Paths.InputDirectory
	}
	if p.inputDir == "" {
		return nil, &ValidationError{
			Message:    "no input folder given",
			Suggestion: config.SuggestSetCommand("paths.input_directory", "/path/to/videos"),
		}
	}
	if abs, err := filepath.Abs(p.inputDir); err == nil {
		p.inputDir = abs
	}
	if !s.fileChecker.IsDir(p.inputDir) {
		return nil, fmt.Errorf("%w: input folder does not exist: %s", remix.ErrConfiguration, p.inputDir)
	}

	// Fall back to configured lengths
	if p.segmentLength == 0 {
		p.segmentLength = s.cfg.Remix.MaxClipLength
	}
	if p.targetDuration == 0 {
		p.targetDuration = s.cfg.Remix.MaxTotalLength
	}
	if p.segmentLength <= 0 {
		return nil, remix.ErrInvalidSegmentLength
	}
	if p.targetDuration <= 0 {
		return nil, remix.ErrInvalidTargetDuration
	}

	// Pick a seed
	switch {
	case input.Seed != nil:
		p.seed = *input.Seed
	case s.cfg.Remix.Seed != nil:
		p.seed = *s.cfg.Remix.Seed
	default:
		p.seed = rand.Uint64()
	}

	// Determine output path
	if p.outputPath == "" {
		p.outputPath = DefaultOutputPath(p.inputDir, s.cfg.Paths.OutputDirectory)
	}

	p.assemble = remix.AssembleOptions{
		OutputPath:       p.outputPath,
		CrossfadeSeconds: s.cfg.Remix.CrossfadeSeconds,
		FPS:              s.cfg.Remix.FPS,
		Height:           s.cfg.Remix.Height,
	}

	if input.DryRun {
		return p, nil
	}

	if err := p.assemble.Validate(p.segmentLength); err != nil {
		return nil, err
	}
	if input.Upload && s.uploader == nil {
		return nil, &ValidationError{
			Message:    "upload requested but no Google Drive folder is configured",
			Suggestion: config.SuggestSetCommand("google.remix_folder_id", "<folder-id>"),
		}
	}
	if input.Notify && !input.Upload {
		return nil, &ValidationError{
			Message:    "emailing the link requires uploading the remix",
			Suggestion: "clip-remix generate --upload --notify",
		}
	}
	if input.Notify && s.notifier == nil {
		return nil, &ValidationError{
			Message:    "no email recipients are configured",
			Suggestion: config.SuggestSetCommand("email.recipients", `"Jane Doe <jane@example.com>"`),
		}
	}
	if s.fileChecker.IsDir(p.outputPath) {
		return nil, fmt.Errorf("%w: output path is a directory: %s", remix.ErrConfiguration, p.outputPath)
	}

	return p, nil
}

// DefaultOutputPath names the remix after its source folder.
// Without an output directory the file is written to the current directory.
func DefaultOutputPath(inputDir, outputDir string) string {
	name := filepath.Base(filepath.Clean(inputDir))
	if name == "." || name == string(os.PathSeparator) {
		name = "clips"
	}
	return filepath.Join(outputDir, name+"_remix.mp4")
}

func (s *Service) reportSkipped(log zerolog.Logger, inv *remix.Inventory) {
	for _, sk := range inv.Skipped {
		event := log.Warn().Str("path", sk.Path).Str("reason", sk.Reason)
		if sk.Err != nil {
			event = event.Err(sk.Err)
		}
		event.Msg("skipping video")
		fmt.Fprintf(s.output, "      Skipped: %s (%s)\n", filepath.Base(sk.Path), sk.Reason)
	}
}

// reportUsage prints the claimed time ranges per source, sorted by path
func (s *Service) reportUsage(usage map[string][]remix.Interval) {
	paths := make([]string, 0, len(usage))
	for p := range usage {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fmt.Fprintf(s.output, "      %s\n", filepath.Base(p))
		for _, iv := range usage[p] {
			fmt.Fprintf(s.output, "        %s\n", iv)
		}
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	sec := (d % time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
