//go:build !gocv

package gocv

import (
	"context"
	"errors"
	"testing"
)

func TestStubProber(t *testing.T) {
	if Available() {
		t.Fatal("stub build should not report OpenCV support")
	}

	_, err := NewProber().Probe(context.Background(), "/videos/a.mp4")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Probe() error = %v, want ErrUnavailable", err)
	}
}
