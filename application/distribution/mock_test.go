package distribution

import (
	"context"

	"clip-remix/domain/distribution"
)

type mockDriveClient struct {
	existing  *distribution.FileInfo
	findErr   error
	uploadErr error
	deleteErr error
	quota     distribution.StorageInfo
	quotaErr  error
	mp4Files  []distribution.FileInfo
	deleted   []string
	uploads   []distribution.UploadRequest
	callOrder []string
}

func (m *mockDriveClient) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	m.callOrder = append(m.callOrder, "find")
	return m.existing, m.findErr
}

func (m *mockDriveClient) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	m.callOrder = append(m.callOrder, "upload")
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploads = append(m.uploads, req)
	return &distribution.UploadResult{
		FileID:       "new-id",
		FileName:     req.FileName,
		ShareableURL: "https://drive.google.com/file/d/new-id/view",
		Size:         42,
	}, nil
}

func (m *mockDriveClient) ListMP4Files(ctx context.Context, folderID string) ([]distribution.FileInfo, error) {
	m.callOrder = append(m.callOrder, "list")
	return m.mp4Files, nil
}

func (m *mockDriveClient) GetStorageQuota(ctx context.Context) (*distribution.StorageInfo, error) {
	m.callOrder = append(m.callOrder, "quota")
	if m.quotaErr != nil {
		return nil, m.quotaErr
	}
	q := m.quota
	return &q, nil
}

func (m *mockDriveClient) DeletePermanently(ctx context.Context, fileID string) error {
	m.callOrder = append(m.callOrder, "delete")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, fileID)
	return nil
}
