//go:build !gocv

package gocv

import (
	"context"
	"errors"

	"clip-remix/domain/remix"
)

// ErrUnavailable is returned when the binary was built without OpenCV
var ErrUnavailable = errors.New("gocv probe backend requires -tags=gocv build and OpenCV installed")

// Prober is a stub when GoCV/OpenCV is not available
type Prober struct{}

// NewProber creates a stub prober (requires building with -tags=gocv)
func NewProber() *Prober {
	return &Prober{}
}

// Probe returns an error indicating the backend is not available
func (p *Prober) Probe(ctx context.Context, path string) (remix.MediaInfo, error) {
	return remix.MediaInfo{}, ErrUnavailable
}

// Available reports whether this build includes OpenCV support
func Available() bool {
	return false
}

// Ensure Prober implements remix.Prober
var _ remix.Prober = (*Prober)(nil)
