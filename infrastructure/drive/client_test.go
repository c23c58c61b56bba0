package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clip-remix/domain/distribution"

	"google.golang.org/api/drive/v3"
)

// mockDriveService is a mock implementation for testing
type mockDriveService struct {
	files          []*drive.File
	shouldFail     bool
	failError      error
	permissionErr  error
	storageLimit   int64
	storageUsage   int64
	noQuota        bool
	uploadLink     string
	queries        []string
	orderBys       []string
	permissions    []*drive.Permission
	deletedFileIDs []string
	uploaded       []string
}

func (m *mockDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error) {
	m.queries = append(m.queries, query)
	m.orderBys = append(m.orderBys, orderBy)
	if m.shouldFail {
		return nil, m.failError
	}
	return m.files, nil
}

func (m *mockDriveService) GetAbout(ctx context.Context, fields string) (*drive.About, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	if m.noQuota {
		return &drive.About{}, nil
	}
	return &drive.About{
		StorageQuota: &drive.AboutStorageQuota{
			Limit: m.storageLimit,
			Usage: m.storageUsage,
		},
	}, nil
}

func (m *mockDriveService) UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*drive.File, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	m.uploaded = append(m.uploaded, folderID+"/"+fileName)
	return &drive.File{
		Id:          "uploaded-file-id",
		Name:        fileName,
		MimeType:    mimeType,
		Size:        1024,
		WebViewLink: m.uploadLink,
	}, nil
}

func (m *mockDriveService) CreatePermission(ctx context.Context, fileID string, permission *drive.Permission) error {
	if m.permissionErr != nil {
		return m.permissionErr
	}
	m.permissions = append(m.permissions, permission)
	return nil
}

func (m *mockDriveService) DeleteFile(ctx context.Context, fileID string) error {
	if m.shouldFail {
		return m.failError
	}
	m.deletedFileIDs = append(m.deletedFileIDs, fileID)
	return nil
}

func newTestClient(t *testing.T, mock *mockDriveService) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), "", WithDriveService(mock))
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	return client
}

func TestClient_FindFileByName(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mock     *mockDriveService
		fileName string
		wantID   string
		wantNil  bool
		wantErr  string
	}{
		{
			name: "finds existing remix",
			mock: &mockDriveService{files: []*drive.File{
				{Id: "f-1", Name: "holiday_remix.mp4", Size: 2048, CreatedTime: created.Format(time.RFC3339)},
			}},
			fileName: "holiday_remix.mp4",
			wantID:   "f-1",
		},
		{
			name:     "returns nil when absent",
			mock:     &mockDriveService{},
			fileName: "missing.mp4",
			wantNil:  true,
		},
		{
			name:     "handles API error",
			mock:     &mockDriveService{shouldFail: true, failError: fmt.Errorf("googleapi: Error 403")},
			fileName: "holiday_remix.mp4",
			wantErr:  "failed to search for holiday_remix.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.mock)
			info, err := client.FindFileByName(context.Background(), "folder-1", tt.fileName)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if info != nil {
					t.Errorf("expected nil, got %+v", info)
				}
				return
			}
			if info == nil || info.ID != tt.wantID {
				t.Fatalf("got %+v, want ID %s", info, tt.wantID)
			}
			if !info.CreatedTime.Equal(created) {
				t.Errorf("CreatedTime = %v, want %v", info.CreatedTime, created)
			}
		})
	}
}

func TestClient_FindFileByName_EscapesQuotes(t *testing.T) {
	mock := &mockDriveService{}
	client := newTestClient(t, mock)

	_, _ = client.FindFileByName(context.Background(), "folder-1", "Mum's party_remix.mp4")

	want := `name = 'Mum\'s party_remix.mp4' and 'folder-1' in parents and trashed = false`
	if mock.queries[0] != want {
		t.Errorf("query = %q, want %q", mock.queries[0], want)
	}
}

func TestClient_UploadAndShare(t *testing.T) {
	req := distribution.UploadRequest{
		LocalPath: "/out/holiday_remix.mp4",
		FileName:  "holiday_remix.mp4",
		FolderID:  "folder-1",
		MimeType:  distribution.MimeTypeMP4,
	}

	t.Run("uploads and shares publicly", func(t *testing.T) {
		mock := &mockDriveService{uploadLink: "https://drive.google.com/file/d/uploaded-file-id/view?usp=drivesdk"}
		result, err := newTestClient(t, mock).UploadAndShare(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.FileID != "uploaded-file-id" || result.Size != 1024 {
			t.Errorf("unexpected result: %+v", result)
		}
		if result.ShareableURL != mock.uploadLink {
			t.Errorf("ShareableURL = %q", result.ShareableURL)
		}
		if len(mock.permissions) != 1 || mock.permissions[0].Type != "anyone" || mock.permissions[0].Role != "reader" {
			t.Errorf("expected a single anyone/reader permission, got %+v", mock.permissions)
		}
		if mock.uploaded[0] != "folder-1/holiday_remix.mp4" {
			t.Errorf("uploaded = %v", mock.uploaded)
		}
	})

	t.Run("builds link when API omits it", func(t *testing.T) {
		result, err := newTestClient(t, &mockDriveService{}).UploadAndShare(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ShareableURL != "https://drive.google.com/file/d/uploaded-file-id/view" {
			t.Errorf("ShareableURL = %q", result.ShareableURL)
		}
	})

	t.Run("upload failure", func(t *testing.T) {
		mock := &mockDriveService{shouldFail: true, failError: fmt.Errorf("quota exceeded")}
		_, err := newTestClient(t, mock).UploadAndShare(context.Background(), req)
		if err == nil || !strings.Contains(err.Error(), "failed to upload holiday_remix.mp4") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("share failure", func(t *testing.T) {
		mock := &mockDriveService{permissionErr: fmt.Errorf("forbidden")}
		_, err := newTestClient(t, mock).UploadAndShare(context.Background(), req)
		if err == nil || !strings.Contains(err.Error(), "failed to share") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestClient_ListMP4Files(t *testing.T) {
	mock := &mockDriveService{files: []*drive.File{
		{Id: "a", Name: "first_remix.mp4", MimeType: "video/mp4", Size: 10},
		{Id: "b", Name: "second_remix.mp4", MimeType: "video/mp4", Size: 20},
	}}

	files, err := newTestClient(t, mock).ListMP4Files(context.Background(), "folder-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 || files[0].ID != "a" || files[1].Size != 20 {
		t.Errorf("unexpected files: %+v", files)
	}
	if !strings.Contains(mock.queries[0], "mimeType = 'video/mp4'") {
		t.Errorf("query should filter mp4: %q", mock.queries[0])
	}
	if mock.orderBys[0] != "createdTime" {
		t.Errorf("orderBy = %q, want oldest first", mock.orderBys[0])
	}
}

func TestClient_GetStorageQuota(t *testing.T) {
	tests := []struct {
		name          string
		mock          *mockDriveService
		wantAvailable int64
		wantErr       bool
	}{
		{
			name:          "limited storage",
			mock:          &mockDriveService{storageLimit: 15000, storageUsage: 12000},
			wantAvailable: 3000,
		},
		{
			name:          "unlimited storage",
			mock:          &mockDriveService{storageUsage: 12000},
			wantAvailable: 1<<63 - 1,
		},
		{
			name:    "missing quota",
			mock:    &mockDriveService{noQuota: true},
			wantErr: true,
		},
		{
			name:    "API error",
			mock:    &mockDriveService{shouldFail: true, failError: fmt.Errorf("boom")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := newTestClient(t, tt.mock).GetStorageQuota(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.AvailableBytes != tt.wantAvailable {
				t.Errorf("AvailableBytes = %d, want %d", info.AvailableBytes, tt.wantAvailable)
			}
		})
	}
}

func TestClient_DeletePermanently(t *testing.T) {
	mock := &mockDriveService{}
	if err := newTestClient(t, mock).DeletePermanently(context.Background(), "f-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.deletedFileIDs) != 1 || mock.deletedFileIDs[0] != "f-9" {
		t.Errorf("deleted = %v", mock.deletedFileIDs)
	}

	failing := &mockDriveService{shouldFail: true, failError: fmt.Errorf("not found")}
	err := newTestClient(t, failing).DeletePermanently(context.Background(), "f-9")
	if err == nil || !strings.Contains(err.Error(), "failed to delete file f-9") {
		t.Errorf("error = %v", err)
	}
}

func TestCredentialsType(t *testing.T) {
	dir := t.TempDir()
	service := filepath.Join(dir, "service.json")
	oauth := filepath.Join(dir, "oauth.json")
	os.WriteFile(service, []byte(`{"type":"service_account","client_email":"x@y"}`), 0600)
	os.WriteFile(oauth, []byte(`{"installed":{"client_id":"abc"}}`), 0600)

	if got, err := credentialsType(service); err != nil || got != "service_account" {
		t.Errorf("credentialsType(service) = %q, %v", got, err)
	}
	if got, err := credentialsType(oauth); err != nil || got != "" {
		t.Errorf("credentialsType(oauth) = %q, %v", got, err)
	}
	if _, err := credentialsType(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseTime(t *testing.T) {
	if got := parseTime("not a time"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := parseTime("2026-01-02T03:04:05Z"); !got.Equal(want) {
		t.Errorf("parseTime() = %v, want %v", got, want)
	}
}
