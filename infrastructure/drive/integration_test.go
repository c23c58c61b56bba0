//go:build manual

package drive

import (
	"context"
	"fmt"
	"os"
	"testing"
)

// TestRealDriveConnectivity lists remixes in a real Drive folder
// Run with: CLIP_REMIX_DRIVE_FOLDER=<id> go test -tags=manual -v ./infrastructure/drive/... -run TestRealDriveConnectivity
func TestRealDriveConnectivity(t *testing.T) {
	credentialsPath := "../../config/credentials.json"
	tokenPath := "../../config/token.json"
	folderID := os.Getenv("CLIP_REMIX_DRIVE_FOLDER")

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		t.Skip("config/credentials.json not found - skipping real Drive test")
	}
	if folderID == "" {
		t.Skip("CLIP_REMIX_DRIVE_FOLDER not set - skipping real Drive test")
	}

	ctx := context.Background()

	client, err := NewClientFromCredentials(ctx, credentialsPath, tokenPath)
	if err != nil {
		t.Fatalf("Failed to create Drive client: %v", err)
	}

	files, err := client.ListMP4Files(ctx, folderID)
	if err != nil {
		t.Fatalf("Failed to list files: %v", err)
	}

	quota, err := client.GetStorageQuota(ctx)
	if err != nil {
		t.Fatalf("Failed to read quota: %v", err)
	}

	fmt.Printf("\n=== Google Drive Connectivity Test ===\n")
	fmt.Printf("Available: %.2f GB\n", float64(quota.AvailableBytes)/1024/1024/1024)
	fmt.Printf("Found %d remixes:\n\n", len(files))
	for _, f := range files {
		fmt.Printf("  - %s (%.2f MB)\n", f.Name, float64(f.Size)/1024/1024)
	}
	fmt.Println()
}
