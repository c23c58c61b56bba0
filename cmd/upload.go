package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appdist "clip-remix/application/distribution"
	"clip-remix/domain/distribution"
	"clip-remix/infrastructure/config"
	"clip-remix/infrastructure/drive"

	"github.com/spf13/cobra"
)

var (
	uploadFilePath  string
	uploadFreeSpace bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a remix to Google Drive with public sharing",
	Long: `Upload a remix to the configured Google Drive folder and make it readable
by anyone with the link. A file with the same name in the folder is replaced.

Without --file the most recently written remix in the output directory is used.

Example:
  clip-remix upload
  clip-remix upload --file ~/Videos/holiday_remix.mp4 --free-space`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVarP(&uploadFilePath, "file", "f", "", "Remix to upload (defaults to latest in output directory)")
	uploadCmd.Flags().BoolVar(&uploadFreeSpace, "free-space", false, "Delete the oldest remixes in the folder when storage is short")
}

func runUpload(cmd *cobra.Command, args []string) error {
	// Ensure config is loaded
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	if cfg.Google.RemixFolderID == "" {
		return fmt.Errorf("no Google Drive folder configured\n\nTo fix this, run:\n  %s",
			config.SuggestSetCommand("google.remix_folder_id", "<folder-id>"))
	}

	// Resolve remix path
	remixPath := uploadFilePath
	if remixPath == "" {
		// Find latest remix in output directory
		dir := cfg.Paths.OutputDirectory
		if dir == "" {
			dir = "."
		}
		remixPath, err = findLatestRemix(dir)
		if err != nil {
			return fmt.Errorf("no file specified and could not find latest remix: %w", err)
		}
	}

	// Create drive client with OAuth
	ctx := cmd.Context()
	client, err := drive.NewClientFromCredentials(ctx, cfg.Google.CredentialsFile, cfg.Google.TokenFile)
	if err != nil {
		return fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	return RunUploadWithDependencies(ctx, client, cfg.Google.RemixFolderID, remixPath, uploadFreeSpace, os.Stdout)
}

// findLatestRemix finds the most recently modified *_remix.mp4 in dir
func findLatestRemix(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory: %w", err)
	}

	var latestPath string
	var latestTime time.Time

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), "_remix.mp4") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestPath = filepath.Join(dir, entry.Name())
		}
	}

	if latestPath == "" {
		return "", fmt.Errorf("no *_remix.mp4 files found in %s", dir)
	}

	return latestPath, nil
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	folderID string,
	remixPath string,
	freeSpace bool,
	output OutputWriter,
) error {
	var opts []appdist.UploadOption
	if freeSpace {
		opts = append(opts, appdist.WithCleanup(appdist.NewCleanupService(driveClient, folderID)))
	}
	service := appdist.NewUploadService(driveClient, folderID, output, opts...)

	fmt.Fprintf(output, "Uploading remix: %s...\n", filepath.Base(remixPath))
	result, err := service.UploadRemix(ctx, remixPath)
	if err != nil {
		return fmt.Errorf("remix upload failed: %w", err)
	}

	fmt.Fprintf(output, "Remix uploaded successfully!\n")
	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  Size: %.2f MB\n", float64(result.Size)/1024/1024)
	fmt.Fprintf(output, "  Shareable URL: %s\n", result.ShareableURL)
	return nil
}
