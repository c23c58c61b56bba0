package remix

import (
	"fmt"
	"sort"
)

// Ledger records the time ranges already claimed from each asset during one run.
// Claims are never removed individually; Reset discards all of them at once.
// A Ledger is not safe for concurrent use and must not be shared between runs.
type Ledger struct {
	claims map[string][]Interval // sorted by Start
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{claims: make(map[string][]Interval)}
}

// Claimed returns true if [start, end) overlaps any interval already committed for asset
func (l *Ledger) Claimed(asset VideoAsset, start, end float64) bool {
	candidate := Interval{Start: start, End: end}
	for _, existing := range l.claims[asset.Path] {
		if existing.Start >= end {
			break
		}
		if candidate.Overlaps(existing) {
			return true
		}
	}
	return false
}

// Commit records [start, end) for asset.
// The caller is expected to have checked Claimed first; a colliding commit is refused.
func (l *Ledger) Commit(asset VideoAsset, start, end float64) error {
	iv := Interval{Start: start, End: end}
	if !iv.Valid() {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, iv)
	}
	if l.Claimed(asset, start, end) {
		return fmt.Errorf("%w: %s in %s", ErrOverlap, iv, asset.Path)
	}

	list := l.claims[asset.Path]
	idx := sort.Search(len(list), func(i int) bool { return list[i].Start >= start })
	list = append(list, Interval{})
	copy(list[idx+1:], list[idx:])
	list[idx] = iv
	l.claims[asset.Path] = list
	return nil
}

// Reset clears all claims. Called once at the start of each independent run.
func (l *Ledger) Reset() {
	l.claims = make(map[string][]Interval)
}

// HasRoom reports whether the asset still has a free gap of at least length seconds.
// An asset without room is saturated.
func (l *Ledger) HasRoom(asset VideoAsset, length float64) bool {
	if length <= 0 || asset.Duration < length {
		return false
	}
	cursor := 0.0
	for _, iv := range l.claims[asset.Path] {
		if iv.Start-cursor >= length {
			return true
		}
		if iv.End > cursor {
			cursor = iv.End
		}
	}
	return asset.Duration-cursor >= length
}

// Intervals returns a sorted copy of the claims for the given asset path
func (l *Ledger) Intervals(path string) []Interval {
	list := l.claims[path]
	out := make([]Interval, len(list))
	copy(out, list)
	return out
}

// Usage returns a copy of every asset's claims keyed by path
func (l *Ledger) Usage() map[string][]Interval {
	out := make(map[string][]Interval, len(l.claims))
	for path := range l.claims {
		out[path] = l.Intervals(path)
	}
	return out
}
