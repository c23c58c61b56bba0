//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	appremix "clip-remix/application/remix"
	"clip-remix/cmd"
	"clip-remix/domain/distribution"
	"clip-remix/domain/remix"
	"clip-remix/infrastructure/config"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"
)

const remixFolder = "/clips/holiday"

// stubLibrary serves as both lister and prober for an in-memory folder
type stubLibrary struct {
	order []string
	infos map[string]remix.MediaInfo
}

func (l *stubLibrary) ListVideos(root string, extensions []string) ([]string, error) {
	var out []string
	for _, p := range l.order {
		ext := strings.ToLower(filepath.Ext(p))
		for _, e := range extensions {
			if ext == e {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (l *stubLibrary) Probe(ctx context.Context, path string) (remix.MediaInfo, error) {
	info, ok := l.infos[path]
	if !ok {
		return remix.MediaInfo{}, errors.New("invalid data found when processing input")
	}
	return info, nil
}

// recordingAssembler keeps the plan it was asked to render
type recordingAssembler struct {
	plan *remix.Plan
	opts remix.AssembleOptions
}

func (a *recordingAssembler) Assemble(ctx context.Context, plan *remix.Plan, opts remix.AssembleOptions) error {
	a.plan = plan
	a.opts = opts
	return nil
}

// stubUploader pretends every upload succeeds
type stubUploader struct {
	uploaded []string
}

func (u *stubUploader) UploadRemix(ctx context.Context, remixPath string) (*distribution.UploadResult, error) {
	u.uploaded = append(u.uploaded, remixPath)
	id := fmt.Sprintf("remix-%d", len(u.uploaded))
	return &distribution.UploadResult{
		FileID:       id,
		FileName:     filepath.Base(remixPath),
		ShareableURL: distribution.ShareableURL(id),
	}, nil
}

// stubNotifier records share emails instead of sending them
type stubNotifier struct {
	links    []string
	duration time.Duration
}

func (n *stubNotifier) NotifyRemix(ctx context.Context, remixPath, shareURL string, duration time.Duration) error {
	n.links = append(n.links, shareURL)
	n.duration = duration
	return nil
}

type folderChecker struct {
	dirs map[string]bool
}

func (c *folderChecker) Exists(path string) bool { return c.dirs[path] }
func (c *folderChecker) IsDir(path string) bool  { return c.dirs[path] }

type remixContext struct {
	library   *stubLibrary
	assembler *recordingAssembler
	checker   *folderChecker
	uploader  *stubUploader
	notifier  *stubNotifier
	cfg       *config.Config
	input     appremix.Input
	output    *bytes.Buffer
	err       error
	plans     [][]remix.Segment
}

var SharedRemixContext = &remixContext{}

func InitializeRemixScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedRemixContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		testCtx.library = &stubLibrary{infos: make(map[string]remix.MediaInfo)}
		testCtx.assembler = &recordingAssembler{}
		testCtx.checker = &folderChecker{dirs: map[string]bool{remixFolder: true}}
		testCtx.uploader = nil
		testCtx.notifier = nil
		testCtx.cfg = config.Default()
		testCtx.cfg.Paths.OutputDirectory = "/out"
		testCtx.input = appremix.Input{InputDirectory: remixFolder}
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		testCtx.plans = nil
		return c, nil
	})

	ctx.Step(`^a folder with the videos:$`, testCtx.aFolderWithTheVideos)
	ctx.Step(`^a file "([^"]*)" that cannot be read$`, testCtx.aFileThatCannotBeRead)
	ctx.Step(`^a clip length of (\d+(?:\.\d+)?) seconds and a total length of (\d+(?:\.\d+)?) seconds$`, testCtx.aClipLengthAndTotalLength)
	ctx.Step(`^the seed (\d+)$`, testCtx.theSeed)
	ctx.Step(`^I generate a remix$`, testCtx.iGenerateARemix)
	ctx.Step(`^I generate a dry run$`, testCtx.iGenerateADryRun)
	ctx.Step(`^I generate a remix twice$`, testCtx.iGenerateARemixTwice)
	ctx.Step(`^uploads and share emails are configured$`, testCtx.uploadsAndShareEmailsAreConfigured)
	ctx.Step(`^I generate, upload and email a remix$`, testCtx.iGenerateUploadAndEmailARemix)
	ctx.Step(`^the link "([^"]*)" should be emailed for a (\d+) second remix$`, testCtx.theLinkShouldBeEmailed)
	ctx.Step(`^the remix should have (\d+) segments?$`, testCtx.theRemixShouldHaveSegments)
	ctx.Step(`^every segment should be (\d+(?:\.\d+)?) seconds long and inside its source$`, testCtx.everySegmentShouldBeInsideItsSource)
	ctx.Step(`^no two segments from the same source should overlap$`, testCtx.noTwoSegmentsShouldOverlap)
	ctx.Step(`^no segment should come from "([^"]*)"$`, testCtx.noSegmentShouldComeFrom)
	ctx.Step(`^both runs should select the same segments$`, testCtx.bothRunsShouldSelectTheSameSegments)
	ctx.Step(`^the remix should be written to "([^"]*)"$`, testCtx.theRemixShouldBeWrittenTo)
	ctx.Step(`^nothing should be rendered$`, testCtx.nothingShouldBeRendered)
	ctx.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	ctx.Step(`^the generate command should fail with "([^"]*)"$`, testCtx.theGenerateCommandShouldFailWith)
}

func (r *remixContext) aFolderWithTheVideos(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		path := filepath.Join(remixFolder, row.Cells[0].Value)
		duration, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return fmt.Errorf("bad duration %q: %w", row.Cells[1].Value, err)
		}
		r.library.order = append(r.library.order, path)
		r.library.infos[path] = remix.MediaInfo{Duration: duration, HasAudio: true}
	}
	return nil
}

func (r *remixContext) aFileThatCannotBeRead(name string) error {
	r.library.order = append(r.library.order, filepath.Join(remixFolder, name))
	return nil
}

func (r *remixContext) aClipLengthAndTotalLength(clip, total float64) error {
	r.input.SegmentLength = clip
	r.input.TargetDuration = total
	return nil
}

func (r *remixContext) theSeed(n int) error {
	seed := uint64(n)
	r.input.Seed = &seed
	return nil
}

func (r *remixContext) run(input appremix.Input) error {
	deps := cmd.GenerateDependencies{
		Lister:      r.library,
		Prober:      r.library,
		Assembler:   r.assembler,
		FileChecker: r.checker,
		Logger:      zerolog.Nop(),
	}
	if r.uploader != nil {
		deps.Uploader = r.uploader
	}
	if r.notifier != nil {
		deps.Notifier = r.notifier
	}
	r.assembler.plan = nil
	r.err = cmd.RunGenerateWithDependencies(context.Background(), deps, r.cfg, input, r.output)
	if r.assembler.plan != nil {
		r.plans = append(r.plans, r.assembler.plan.Segments)
	}
	return nil
}

func (r *remixContext) iGenerateARemix() error {
	return r.run(r.input)
}

func (r *remixContext) iGenerateADryRun() error {
	input := r.input
	input.DryRun = true
	return r.run(input)
}

func (r *remixContext) iGenerateARemixTwice() error {
	if err := r.run(r.input); err != nil {
		return err
	}
	return r.run(r.input)
}

func (r *remixContext) uploadsAndShareEmailsAreConfigured() error {
	r.uploader = &stubUploader{}
	r.notifier = &stubNotifier{}
	return nil
}

func (r *remixContext) iGenerateUploadAndEmailARemix() error {
	input := r.input
	input.Upload = true
	input.Notify = true
	return r.run(input)
}

func (r *remixContext) theLinkShouldBeEmailed(link string, seconds int) error {
	if r.err != nil {
		return fmt.Errorf("generate failed: %w", r.err)
	}
	if r.notifier == nil || len(r.notifier.links) != 1 || r.notifier.links[0] != link {
		return fmt.Errorf("expected %q to be emailed once, got %+v", link, r.notifier)
	}
	if want := time.Duration(seconds) * time.Second; r.notifier.duration != want {
		return fmt.Errorf("emailed duration %v, want %v", r.notifier.duration, want)
	}
	return nil
}

func (r *remixContext) segments() ([]remix.Segment, error) {
	if r.err != nil {
		return nil, fmt.Errorf("generate failed: %w", r.err)
	}
	if len(r.plans) == 0 {
		return nil, fmt.Errorf("no remix was rendered")
	}
	return r.plans[len(r.plans)-1], nil
}

func (r *remixContext) theRemixShouldHaveSegments(n int) error {
	segs, err := r.segments()
	if err != nil {
		return err
	}
	if len(segs) != n {
		return fmt.Errorf("expected %d segments, got %d", n, len(segs))
	}
	return nil
}

func (r *remixContext) everySegmentShouldBeInsideItsSource(length float64) error {
	segs, err := r.segments()
	if err != nil {
		return err
	}
	for i, s := range segs {
		if math.Abs(s.Length()-length) > 1e-9 {
			return fmt.Errorf("segment %d is %.3fs long, want %.3fs", i, s.Length(), length)
		}
		if s.Start < 0 || s.End > s.Asset.Duration {
			return fmt.Errorf("segment %d %s lies outside %s (%.1fs)", i, s.Interval(), s.Asset.Path, s.Asset.Duration)
		}
	}
	return nil
}

func (r *remixContext) noTwoSegmentsShouldOverlap() error {
	segs, err := r.segments()
	if err != nil {
		return err
	}
	byAsset := make(map[string][]remix.Interval)
	for _, s := range segs {
		byAsset[s.Asset.Path] = append(byAsset[s.Asset.Path], s.Interval())
	}
	for path, list := range byAsset {
		sort.Slice(list, func(i, j int) bool { return list[i].Start < list[j].Start })
		for i := 1; i < len(list); i++ {
			if list[i-1].Overlaps(list[i]) {
				return fmt.Errorf("%s: %s overlaps %s", path, list[i-1], list[i])
			}
		}
	}
	return nil
}

func (r *remixContext) noSegmentShouldComeFrom(name string) error {
	segs, err := r.segments()
	if err != nil {
		return err
	}
	for _, s := range segs {
		if filepath.Base(s.Asset.Path) == name {
			return fmt.Errorf("segment %s taken from %s", s.Interval(), name)
		}
	}
	return nil
}

func (r *remixContext) bothRunsShouldSelectTheSameSegments() error {
	if r.err != nil {
		return fmt.Errorf("generate failed: %w", r.err)
	}
	if len(r.plans) != 2 {
		return fmt.Errorf("expected two rendered plans, got %d", len(r.plans))
	}
	a, b := r.plans[0], r.plans[1]
	if len(a) != len(b) {
		return fmt.Errorf("plans differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("segment %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	return nil
}

func (r *remixContext) theRemixShouldBeWrittenTo(path string) error {
	if _, err := r.segments(); err != nil {
		return err
	}
	if r.assembler.opts.OutputPath != path {
		return fmt.Errorf("expected output %q, got %q", path, r.assembler.opts.OutputPath)
	}
	return nil
}

func (r *remixContext) nothingShouldBeRendered() error {
	if len(r.plans) != 0 {
		return fmt.Errorf("expected no render, got %d", len(r.plans))
	}
	return nil
}

func (r *remixContext) theOutputShouldContain(text string) error {
	if !strings.Contains(r.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, r.output.String())
	}
	return nil
}

func (r *remixContext) theGenerateCommandShouldFailWith(text string) error {
	if r.err == nil || !strings.Contains(r.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %v", text, r.err)
	}
	return nil
}
