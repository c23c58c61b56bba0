package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appnotif "clip-remix/application/notification"
	appremix "clip-remix/application/remix"
	"clip-remix/domain/distribution"
	"clip-remix/domain/notification"
	"clip-remix/infrastructure/config"
	"clip-remix/infrastructure/drive"
	"clip-remix/infrastructure/gmail"
	"clip-remix/infrastructure/googleauth"

	"github.com/spf13/cobra"
)

var (
	shareFilePath string
	shareLink     string
	shareTo       []string
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Email the Google Drive link of an uploaded remix",
	Long: `Send an email with the link to a remix that is already in the configured
Google Drive folder.

Recipients default to email.recipients in the configuration. Addresses may be
given as "Jane Doe <jane@example.com>" or bare, with repeated --to flags or
comma-separated values.

Examples:
  clip-remix share
  clip-remix share --file ~/Videos/holiday_remix.mp4 --to "Jane Doe <jane@example.com>"
  clip-remix share --link https://drive.google.com/file/d/abc/view --to jane@example.com,bob@example.com`,
	RunE: runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.Flags().StringVarP(&shareFilePath, "file", "f", "", "Uploaded remix to share (defaults to latest in output directory)")
	shareCmd.Flags().StringVar(&shareLink, "link", "", "Share this link instead of looking the file up in Drive")
	shareCmd.Flags().StringArrayVar(&shareTo, "to", nil, "Recipient(s) (can be repeated or comma-separated)")
}

// ShareInput contains the parameters of the share command
type ShareInput struct {
	RemixPath string
	Link      string
	To        []notification.Recipient // empty means the configured recipients
}

func runShare(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	input := ShareInput{RemixPath: shareFilePath, Link: shareLink}
	if len(shareTo) > 0 {
		if input.To, err = notification.ParseRecipients(shareTo); err != nil {
			return err
		}
	}
	if input.RemixPath == "" {
		dir := cfg.Paths.OutputDirectory
		if dir == "" {
			dir = "."
		}
		input.RemixPath, err = findLatestRemix(dir)
		if err != nil {
			return fmt.Errorf("no file specified and could not find latest remix: %w", err)
		}
	}

	ctx := cmd.Context()
	var finder distribution.DriveClient
	if input.Link == "" {
		if cfg.Google.RemixFolderID == "" {
			return &appremix.ValidationError{
				Message:    "no Google Drive folder configured to look the remix up in",
				Suggestion: config.SuggestSetCommand("google.remix_folder_id", "<folder-id>"),
			}
		}
		client, err := drive.NewClientFromCredentials(ctx, cfg.Google.CredentialsFile, cfg.Google.TokenFile)
		if err != nil {
			return fmt.Errorf("failed to create Google Drive client: %w", err)
		}
		finder = client
	}

	sender, err := newGmailSender(ctx, cfg)
	if err != nil {
		return err
	}

	return RunShareWithDependencies(ctx, sender, finder, cfg, input, os.Stdout)
}

// newGmailSender creates a Gmail client for the configured sender.
// Gmail uses its own token file because its scope differs from Drive's.
func newGmailSender(ctx context.Context, cfg *config.Config) (*gmail.Client, error) {
	if cfg.Email.FromAddress == "" {
		return nil, &appremix.ValidationError{
			Message:    "no sender address configured",
			Suggestion: config.SuggestSetCommand("email.from_address", "you@gmail.com"),
		}
	}
	from := notification.Recipient{Name: cfg.Email.FromName, Address: cfg.Email.FromAddress}
	client, err := gmail.NewClientWithOAuth(ctx, googleauth.OAuthConfig{
		CredentialsFile: cfg.Google.CredentialsFile,
		TokenFile:       cfg.Email.TokenFile,
	}, from)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}
	return client, nil
}

// newShareNotifier wires the configured recipients to a Gmail sender
func newShareNotifier(ctx context.Context, cfg *config.Config) (*appnotif.Service, error) {
	sender, err := newGmailSender(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newNotificationService(sender, cfg)
}

func newNotificationService(sender notification.EmailSender, cfg *config.Config) (*appnotif.Service, error) {
	to, err := notification.ParseRecipients(cfg.Email.Recipients)
	if err != nil {
		return nil, fmt.Errorf("invalid email.recipients: %w", err)
	}
	cc, err := notification.ParseRecipients(cfg.Email.CC)
	if err != nil {
		return nil, fmt.Errorf("invalid email.cc: %w", err)
	}
	return appnotif.NewService(sender, cfg.Email.SenderName, to, cc), nil
}

// RunShareWithDependencies runs the share command with injected dependencies (for testing).
// finder may be nil when input.Link is set.
func RunShareWithDependencies(
	ctx context.Context,
	sender notification.EmailSender,
	finder distribution.DriveClient,
	cfg *config.Config,
	input ShareInput,
	output OutputWriter,
) error {
	service, err := newNotificationService(sender, cfg)
	if err != nil {
		return err
	}

	to := input.To
	if len(to) == 0 {
		to = service.Recipients()
	}
	if len(to) == 0 {
		return &appremix.ValidationError{
			Message:    "no recipients given",
			Suggestion: config.SuggestSetCommand("email.recipients", `"Jane Doe <jane@example.com>"`),
		}
	}

	name := filepath.Base(input.RemixPath)
	link := input.Link
	if link == "" {
		file, err := finder.FindFileByName(ctx, cfg.Google.RemixFolderID, name)
		if err != nil {
			return fmt.Errorf("failed to look up %s in Google Drive: %w", name, err)
		}
		if file == nil {
			return &appremix.ValidationError{
				Message:    fmt.Sprintf("%s has not been uploaded yet", name),
				Suggestion: fmt.Sprintf("clip-remix upload --file %q", input.RemixPath),
			}
		}
		link = distribution.ShareableURL(file.ID)
	}

	toNames := make([]string, len(to))
	for i, r := range to {
		toNames[i] = r.String()
	}
	fmt.Fprintf(output, "Sending link to: %s\n", strings.Join(toNames, ", "))
	fmt.Fprintf(output, "Remix: %s\n", name)
	fmt.Fprintf(output, "Link: %s\n\n", link)

	fmt.Fprintf(output, "Sending email...\n")
	err = service.Send(ctx, appnotif.SendRequest{
		To:        to,
		CC:        service.CC(),
		RemixPath: input.RemixPath,
		ShareURL:  link,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	fmt.Fprintf(output, "Email sent successfully!\n")
	return nil
}
