package distribution

import (
	"context"
	"fmt"
	"io"
	"os"

	"clip-remix/domain/distribution"
)

// UploadService publishes finished remixes to a Google Drive folder
type UploadService struct {
	driveClient distribution.DriveClient
	cleanup     *CleanupService
	folderID    string
	output      io.Writer
}

// UploadOption is a functional option for configuring UploadService
type UploadOption func(*UploadService)

// WithCleanup frees space in the folder before each upload
func WithCleanup(cleanup *CleanupService) UploadOption {
	return func(s *UploadService) {
		s.cleanup = cleanup
	}
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, folderID string, output io.Writer, opts ...UploadOption) *UploadService {
	if output == nil {
		output = io.Discard
	}
	s := &UploadService{
		driveClient: client,
		folderID:    folderID,
		output:      output,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadRemix uploads a remix and shares it publicly.
// A file with the same name in the folder is replaced.
func (s *UploadService) UploadRemix(ctx context.Context, remixPath string) (*distribution.UploadResult, error) {
	// Verify file exists
	stat, err := os.Stat(remixPath)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %s", remixPath)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("not a file: %s", remixPath)
	}

	req := distribution.NewUploadRequest(remixPath, s.folderID)

	// Check for existing file with same name and delete if found
	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, req.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "      Replacing existing %s (%.1f MB)\n", existing.Name, megabytes(existing.Size))
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	// Make room for the new file
	if s.cleanup != nil {
		freed, err := s.cleanup.EnsureSpaceAvailable(ctx, stat.Size())
		if err != nil {
			return nil, err
		}
		for _, f := range freed.DeletedFiles {
			fmt.Fprintf(s.output, "      Removed old remix %s (%.1f MB)\n", f.Name, megabytes(f.Size))
		}
	}

	result, err := s.driveClient.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", req.FileName, err)
	}

	return result, nil
}

func megabytes(b int64) float64 {
	return float64(b) / 1024 / 1024
}
