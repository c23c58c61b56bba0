package remix

import (
	"context"
	"fmt"
)

// Defaults used when normalising segments for assembly
const (
	DefaultCrossfadeSeconds = 1.0
	DefaultFPS              = 30
	DefaultHeight           = 720
)

// AssembleOptions controls how a plan is rendered to disk
type AssembleOptions struct {
	OutputPath       string
	CrossfadeSeconds float64
	FPS              int
	Height           int

	// Progress is called after each segment has been normalised (optional)
	Progress func(done, total int)
}

// Validate checks the options against the plan's segment length
func (o AssembleOptions) Validate(segmentLength float64) error {
	if o.OutputPath == "" {
		return fmt.Errorf("%w: output path is required", ErrConfiguration)
	}
	if o.CrossfadeSeconds < 0 {
		return fmt.Errorf("%w: crossfade must not be negative", ErrConfiguration)
	}
	if o.CrossfadeSeconds >= segmentLength {
		return fmt.Errorf("%w: crossfade %.2fs must be shorter than segment length %.2fs", ErrConfiguration, o.CrossfadeSeconds, segmentLength)
	}
	if o.FPS <= 0 {
		return fmt.Errorf("%w: fps must be greater than zero", ErrConfiguration)
	}
	if o.Height <= 0 {
		return fmt.Errorf("%w: height must be greater than zero", ErrConfiguration)
	}
	return nil
}

// Assembler renders a plan into a single output file.
// This is a port that can be implemented by different infrastructure adapters
type Assembler interface {
	Assemble(ctx context.Context, plan *Plan, opts AssembleOptions) error
}

// FileChecker defines the interface for checking path existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool

	// IsDir returns true if the path exists and is a directory
	IsDir(path string) bool
}
