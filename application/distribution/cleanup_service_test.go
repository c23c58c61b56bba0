package distribution

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clip-remix/domain/distribution"
)

func TestCleanupService_EnsureSpaceAvailable(t *testing.T) {
	files := []distribution.FileInfo{
		{ID: "1", Name: "first.mp4", Size: 30},
		{ID: "2", Name: "second.mp4", Size: 30},
	}

	tests := []struct {
		name        string
		client      *mockDriveClient
		needed      int64
		wantDeleted int
		wantFreed   int64
		wantErr     string
	}{
		{
			name:   "enough space already",
			client: &mockDriveClient{quota: distribution.StorageInfo{AvailableBytes: 100}, mp4Files: files},
			needed: 50,
		},
		{
			name:        "deletes only what is needed",
			client:      &mockDriveClient{quota: distribution.StorageInfo{AvailableBytes: 30}, mp4Files: files},
			needed:      50,
			wantDeleted: 1,
			wantFreed:   30,
		},
		{
			name:        "not enough even after deleting everything",
			client:      &mockDriveClient{quota: distribution.StorageInfo{AvailableBytes: 0}, mp4Files: files},
			needed:      100,
			wantDeleted: 2,
			wantFreed:   60,
			wantErr:     "not enough Drive storage",
		},
		{
			name:    "quota error",
			client:  &mockDriveClient{quotaErr: errors.New("boom")},
			needed:  1,
			wantErr: "failed to check storage",
		},
		{
			name:    "delete error",
			client:  &mockDriveClient{mp4Files: files, deleteErr: errors.New("403")},
			needed:  1,
			wantErr: "failed to delete first.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewCleanupService(tt.client, "folder-1").EnsureSpaceAvailable(context.Background(), tt.needed)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want containing %q", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(result.DeletedFiles) != tt.wantDeleted {
				t.Errorf("deleted %d files, want %d", len(result.DeletedFiles), tt.wantDeleted)
			}
			if result.FreedBytes != tt.wantFreed {
				t.Errorf("FreedBytes = %d, want %d", result.FreedBytes, tt.wantFreed)
			}
		})
	}
}
