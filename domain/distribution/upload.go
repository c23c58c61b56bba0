package distribution

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MimeTypeMP4 is the only container the remix assembler produces
const MimeTypeMP4 = "video/mp4"

// UploadRequest describes one file to publish
type UploadRequest struct {
	LocalPath string
	FileName  string
	FolderID  string
	MimeType  string
}

// UploadResult describes a published file
type UploadResult struct {
	FileID       string
	FileName     string
	ShareableURL string
	Size         int64
}

// NewUploadRequest builds a request for a local remix, named after the file
func NewUploadRequest(localPath, folderID string) UploadRequest {
	return UploadRequest{
		LocalPath: localPath,
		FileName:  filepath.Base(localPath),
		FolderID:  folderID,
		MimeType:  mimeTypeFor(localPath),
	}
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	default:
		return MimeTypeMP4
	}
}

// ShareableURL is the view link of a Drive file readable by anyone with the link
func ShareableURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID)
}
