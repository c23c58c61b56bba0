package remix

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the parent of every error that aborts a run before selection begins
	ErrConfiguration = errors.New("invalid remix configuration")

	// ErrNoAssets is returned when the selector is given an empty asset list
	ErrNoAssets = fmt.Errorf("%w: no assets to select from", ErrConfiguration)

	// ErrNoUsableAssets is returned when every candidate was excluded during inventory
	ErrNoUsableAssets = fmt.Errorf("%w: no usable video files found", ErrConfiguration)

	// ErrInvalidSegmentLength is returned when the segment length is not positive
	ErrInvalidSegmentLength = fmt.Errorf("%w: segment length must be greater than zero", ErrConfiguration)

	// ErrInvalidTargetDuration is returned when the target total duration is not positive
	ErrInvalidTargetDuration = fmt.Errorf("%w: target total duration must be greater than zero", ErrConfiguration)

	// ErrNilLedger is returned when Select is called without a ledger
	ErrNilLedger = fmt.Errorf("%w: interval ledger is required", ErrConfiguration)

	// ErrOverlap is returned by Commit when the interval collides with an existing claim
	ErrOverlap = errors.New("interval overlaps an existing claim")

	// ErrInvalidInterval is returned by Commit for empty, reversed or negative intervals
	ErrInvalidInterval = errors.New("interval must satisfy 0 <= start < end")
)

// IsConfigurationError reports whether err aborts a run before any selection happens
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
