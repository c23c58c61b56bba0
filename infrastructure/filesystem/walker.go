package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clip-remix/domain/remix"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog"
)

// sniffLen is the header size filetype needs to recognise a container
const sniffLen = 261

// Walker implements remix.Lister by walking the filesystem
type Walker struct {
	verifyContent bool
	logger        zerolog.Logger
}

// WalkerOption is a functional option for configuring Walker
type WalkerOption func(*Walker)

// WithContentCheck drops files whose header is not a recognised video container
func WithContentCheck(enabled bool) WalkerOption {
	return func(w *Walker) {
		w.verifyContent = enabled
	}
}

// WithWalkerLogger sets the logger used to report dropped files
func WithWalkerLogger(logger zerolog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = logger
	}
}

// NewWalker creates a new filesystem walker
func NewWalker(opts ...WalkerOption) *Walker {
	w := &Walker{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ListVideos returns absolute paths of files under root whose extension matches,
// sorted so that runs over the same folder see the same order.
func (w *Walker) ListVideos(root string, extensions []string) ([]string, error) {
	root, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			// Unreadable entries below root are skipped, not fatal
			w.logger.Warn().Err(walkErr).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !allowed[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		if w.verifyContent && !isVideoFile(path) {
			w.logger.Debug().Str("path", path).Msg("extension matches but content is not video")
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// isVideoFile sniffs the file header
func isVideoFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}
	return filetype.IsVideo(head[:n])
}

// Ensure Walker implements remix.Lister
var _ remix.Lister = (*Walker)(nil)
