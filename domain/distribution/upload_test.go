package distribution

import "testing"

func TestNewUploadRequest(t *testing.T) {
	tests := []struct {
		path     string
		wantName string
		wantMime string
	}{
		{"/out/holiday_remix.mp4", "holiday_remix.mp4", MimeTypeMP4},
		{"/out/holiday_remix.MOV", "holiday_remix.MOV", "video/quicktime"},
		{"/out/old.avi", "old.avi", "video/x-msvideo"},
		{"relative/clip", "clip", MimeTypeMP4},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := NewUploadRequest(tt.path, "folder-1")
			if req.FileName != tt.wantName {
				t.Errorf("FileName = %q, want %q", req.FileName, tt.wantName)
			}
			if req.MimeType != tt.wantMime {
				t.Errorf("MimeType = %q, want %q", req.MimeType, tt.wantMime)
			}
			if req.FolderID != "folder-1" || req.LocalPath != tt.path {
				t.Errorf("unexpected request: %+v", req)
			}
		})
	}
}

func TestStorageInfo_HasSpaceFor(t *testing.T) {
	s := StorageInfo{AvailableBytes: 100}
	if !s.HasSpaceFor(100) {
		t.Error("expected space for exactly the available bytes")
	}
	if s.HasSpaceFor(101) {
		t.Error("expected no space beyond the available bytes")
	}
}

func TestShareableURL(t *testing.T) {
	if got := ShareableURL("abc123"); got != "https://drive.google.com/file/d/abc123/view" {
		t.Errorf("ShareableURL() = %q", got)
	}
}
