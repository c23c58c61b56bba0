package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// FPS adds an fps filter
func (fb *FilterBuilder) FPS(fps int) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%d", fps))
	return fb
}

// Fit scales the frame to fit inside width x height and pads the rest with black,
// so every segment ends up with the same frame size.
func (fb *FilterBuilder) Fit(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height),
		"setsar=1",
	)
	return fb
}

// FadeIn adds a video fade from black over the first seconds
func (fb *FilterBuilder) FadeIn(seconds float64) *FilterBuilder {
	if seconds <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, "fade=t=in:st=0:d="+seconds3(seconds))
	return fb
}

// AudioFadeIn adds an audio fade from silence over the first seconds
func (fb *FilterBuilder) AudioFadeIn(seconds float64) *FilterBuilder {
	if seconds <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, "afade=t=in:st=0:d="+seconds3(seconds))
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	return strings.Join(fb.filters, ",")
}

// Empty returns true if no filter was added
func (fb *FilterBuilder) Empty() bool {
	return len(fb.filters) == 0
}

// frameWidth returns the 16:9 width for height, rounded to an even number
func frameWidth(height int) int {
	w := height * 16 / 9
	return w + w%2
}

// seconds3 formats seconds with millisecond precision
func seconds3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
