package distribution

import (
	"context"
	"fmt"

	"clip-remix/domain/distribution"
)

// CleanupService frees Drive storage by deleting the oldest remixes in a folder
type CleanupService struct {
	driveClient distribution.DriveClient
	folderID    string
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(client distribution.DriveClient, folderID string) *CleanupService {
	return &CleanupService{
		driveClient: client,
		folderID:    folderID,
	}
}

// EnsureSpaceAvailable deletes the oldest mp4 files until neededBytes fit
func (s *CleanupService) EnsureSpaceAvailable(ctx context.Context, neededBytes int64) (*distribution.CleanupResult, error) {
	result := &distribution.CleanupResult{}

	storage, err := s.driveClient.GetStorageQuota(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to check storage: %w", err)
	}
	if storage.HasSpaceFor(neededBytes) {
		return result, nil
	}

	// Oldest first
	files, err := s.driveClient.ListMP4Files(ctx, s.folderID)
	if err != nil {
		return result, fmt.Errorf("failed to list files: %w", err)
	}

	available := storage.AvailableBytes
	for _, f := range files {
		if available >= neededBytes {
			break
		}
		if err := s.driveClient.DeletePermanently(ctx, f.ID); err != nil {
			return result, fmt.Errorf("failed to delete %s: %w", f.Name, err)
		}
		result.DeletedFiles = append(result.DeletedFiles, f)
		result.FreedBytes += f.Size
		available += f.Size
	}

	if available < neededBytes {
		return result, fmt.Errorf("not enough Drive storage: need %d bytes but only %d available after cleanup",
			neededBytes, available)
	}
	return result, nil
}
