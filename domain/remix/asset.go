package remix

import "context"

// DefaultExtensions are the file extensions recognised as video sources
var DefaultExtensions = []string{".mp4", ".avi", ".mov"}

// VideoAsset is a source file that can supply segments.
// Duration is read once during inventory and does not change for the run.
type VideoAsset struct {
	Path     string
	Duration float64 // seconds
	HasAudio bool
}

// CanHost reports whether the asset is strictly longer than the given segment length
func (a VideoAsset) CanHost(segmentLength float64) bool {
	return a.Duration > segmentLength
}

// MediaInfo is what a Prober learns about a file
type MediaInfo struct {
	Duration float64 // seconds
	HasAudio bool
}

// Prober reads media metadata from a file.
// This is a port that can be implemented by different infrastructure adapters
type Prober interface {
	Probe(ctx context.Context, path string) (MediaInfo, error)
}

// Lister returns candidate video paths under a root folder
type Lister interface {
	// ListVideos walks root recursively and returns files whose extension is in extensions
	ListVideos(root string, extensions []string) ([]string, error)
}
