package distribution

import (
	"context"
	"time"
)

// DriveClient defines the Google Drive operations used to publish remixes.
// This is a port that can be implemented by different infrastructure adapters
type DriveClient interface {
	// FindFileByName returns the file with the given name in a folder, or nil if absent
	FindFileByName(ctx context.Context, folderID, name string) (*FileInfo, error)

	// UploadAndShare uploads a local file and makes it readable by anyone with the link
	UploadAndShare(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// ListMP4Files lists MP4 files in a folder, oldest first
	ListMP4Files(ctx context.Context, folderID string) ([]FileInfo, error)

	// GetStorageQuota returns the account's storage quota
	GetStorageQuota(ctx context.Context) (*StorageInfo, error)

	// DeletePermanently deletes a file without moving it to the trash
	DeletePermanently(ctx context.Context, fileID string) error
}

// FileInfo is the metadata of a file stored in Google Drive
type FileInfo struct {
	ID          string
	Name        string
	MimeType    string
	Size        int64
	CreatedTime time.Time
}

// StorageInfo is the Drive storage quota
type StorageInfo struct {
	TotalBytes     int64
	UsedBytes      int64
	AvailableBytes int64
}

// HasSpaceFor returns true if there's enough space for the given bytes
func (s StorageInfo) HasSpaceFor(bytes int64) bool {
	return s.AvailableBytes >= bytes
}

// CleanupResult lists the remixes removed to free space
type CleanupResult struct {
	DeletedFiles []FileInfo
	FreedBytes   int64
}
