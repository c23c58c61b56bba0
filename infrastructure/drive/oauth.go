package drive

import (
	"context"
	"fmt"

	"clip-remix/infrastructure/googleauth"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func newOAuthDriveService(ctx context.Context, cfg googleauth.OAuthConfig) (*GoogleDriveService, error) {
	httpClient, err := googleauth.HTTPClient(ctx, cfg, drive.DriveFileScope)
	if err != nil {
		return nil, err
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// NewClientWithOAuth creates a Google Drive client using OAuth 2.0 user credentials
func NewClientWithOAuth(ctx context.Context, credentialsPath, tokenPath string, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	if c.driveService == nil {
		svc, err := newOAuthDriveService(ctx, googleauth.OAuthConfig{
			CredentialsFile: credentialsPath,
			TokenFile:       tokenPath,
		})
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}
