//go:build gocv

package gocv

import (
	"context"
	"fmt"

	"clip-remix/domain/remix"

	"gocv.io/x/gocv"
)

// Prober implements remix.Prober by opening the container with OpenCV.
// OpenCV does not decode audio, so HasAudio is always false and remixes
// built from this prober are silent.
type Prober struct{}

// NewProber creates an OpenCV-backed prober (requires building with -tags=gocv)
func NewProber() *Prober {
	return &Prober{}
}

// Probe implements remix.Prober
func (p *Prober) Probe(ctx context.Context, path string) (remix.MediaInfo, error) {
	if err := ctx.Err(); err != nil {
		return remix.MediaInfo{}, err
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return remix.MediaInfo{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer capture.Close()

	if !capture.IsOpened() {
		return remix.MediaInfo{}, fmt.Errorf("failed to open %s", path)
	}

	frames := capture.Get(gocv.VideoCaptureFrameCount)
	fps := capture.Get(gocv.VideoCaptureFPS)
	if frames <= 0 || fps <= 0 {
		return remix.MediaInfo{}, fmt.Errorf("could not determine duration of %s", path)
	}

	return remix.MediaInfo{Duration: frames / fps}, nil
}

// Available reports whether this build includes OpenCV support
func Available() bool {
	return true
}

// Ensure Prober implements remix.Prober
var _ remix.Prober = (*Prober)(nil)
