package remix

import (
	"context"
	"fmt"
)

// SkippedAsset is a candidate path that was excluded from the inventory
type SkippedAsset struct {
	Path   string
	Reason string
	Err    error // set when probing failed
}

// Inventory is the outcome of probing the candidate paths
type Inventory struct {
	Assets  []VideoAsset
	Skipped []SkippedAsset
}

// TotalDuration returns the sum of usable asset durations
func (inv *Inventory) TotalDuration() float64 {
	var total float64
	for _, a := range inv.Assets {
		total += a.Duration
	}
	return total
}

// BuildInventory probes every path and keeps the assets that can host a segment.
// Unreadable files are skipped, never fatal. An empty result is a configuration error.
func BuildInventory(ctx context.Context, paths []string, prober Prober, segmentLength float64) (*Inventory, error) {
	if segmentLength <= 0 {
		return nil, ErrInvalidSegmentLength
	}

	inv := &Inventory{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := prober.Probe(ctx, path)
		if err != nil {
			inv.Skipped = append(inv.Skipped, SkippedAsset{
				Path:   path,
				Reason: "unreadable media",
				Err:    err,
			})
			continue
		}

		asset := VideoAsset{Path: path, Duration: info.Duration, HasAudio: info.HasAudio}
		if !asset.CanHost(segmentLength) {
			inv.Skipped = append(inv.Skipped, SkippedAsset{
				Path:   path,
				Reason: fmt.Sprintf("duration %s is not longer than segment length %s", FormatSeconds(info.Duration), FormatSeconds(segmentLength)),
			})
			continue
		}

		inv.Assets = append(inv.Assets, asset)
	}

	if len(inv.Assets) == 0 {
		return inv, ErrNoUsableAssets
	}
	return inv, nil
}
