//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"clip-remix/cmd"
	"clip-remix/domain/distribution"
	"clip-remix/domain/notification"
	"clip-remix/infrastructure/config"
	"clip-remix/infrastructure/drive"
	"clip-remix/infrastructure/gmail"

	"github.com/cucumber/godog"
	gmailapi "google.golang.org/api/gmail/v1"
)

// outbox records the messages handed to the Gmail API
type outbox struct {
	messages []string
}

func (o *outbox) SendMessage(ctx context.Context, userID string, message *gmailapi.Message) (*gmailapi.Message, error) {
	raw, err := base64.URLEncoding.DecodeString(message.Raw)
	if err != nil {
		return nil, err
	}
	o.messages = append(o.messages, string(raw))
	return &gmailapi.Message{Id: fmt.Sprintf("msg-%d", len(o.messages))}, nil
}

type shareContext struct {
	cfg    *config.Config
	outbox *outbox
	input  cmd.ShareInput
	output *bytes.Buffer
	err    error
}

var SharedShareContext = &shareContext{}

func InitializeShareScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedShareContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		testCtx.cfg = config.Default()
		testCtx.cfg.Google.RemixFolderID = uploadFolderID
		testCtx.cfg.Email.FromName = "Clip Remix"
		testCtx.cfg.Email.FromAddress = "remixes@example.com"
		testCtx.outbox = &outbox{}
		testCtx.input = cmd.ShareInput{}
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.Step(`^emails are signed "([^"]*)"$`, testCtx.emailsAreSigned)
	ctx.Step(`^the configured recipients are "([^"]*)"$`, testCtx.theConfiguredRecipientsAre)
	ctx.Step(`^the configured cc is "([^"]*)"$`, testCtx.theConfiguredCCIs)
	ctx.Step(`^I share "([^"]*)"$`, testCtx.iShare)
	ctx.Step(`^I share "([^"]*)" with "([^"]*)"$`, testCtx.iShareWith)
	ctx.Step(`^I share the link "([^"]*)" for "([^"]*)"$`, testCtx.iShareTheLinkFor)
	ctx.Step(`^(\d+) emails? should be sent$`, testCtx.emailsShouldBeSent)
	ctx.Step(`^the email should contain "([^"]*)"$`, testCtx.theEmailShouldContain)
	ctx.Step(`^the email should link to the Drive file "([^"]*)"$`, testCtx.theEmailShouldLinkToTheDriveFile)
	ctx.Step(`^the share should fail with "([^"]*)"$`, testCtx.theShareShouldFailWith)
}

func (s *shareContext) emailsAreSigned(name string) error {
	s.cfg.Email.SenderName = name
	return nil
}

func (s *shareContext) theConfiguredRecipientsAre(list string) error {
	s.cfg.Email.Recipients = splitList(list)
	return nil
}

func (s *shareContext) theConfiguredCCIs(list string) error {
	s.cfg.Email.CC = splitList(list)
	return nil
}

// splitList splits a "; " separated list; an empty string is an empty list
func splitList(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, "; ")
}

func (s *shareContext) run(input cmd.ShareInput) error {
	sender := gmail.NewClient(
		notification.Recipient{Name: s.cfg.Email.FromName, Address: s.cfg.Email.FromAddress},
		gmail.WithGmailService(s.outbox),
	)

	var finder distribution.DriveClient
	if input.Link == "" {
		client, err := drive.NewClient(context.Background(), "", drive.WithDriveService(SharedUploadContext.drive))
		if err != nil {
			return err
		}
		finder = client
	}

	s.err = cmd.RunShareWithDependencies(context.Background(), sender, finder, s.cfg, input, s.output)
	return nil
}

func (s *shareContext) iShare(name string) error {
	return s.run(cmd.ShareInput{RemixPath: "/out/" + name})
}

func (s *shareContext) iShareWith(name, to string) error {
	recipients, err := notification.ParseRecipients([]string{to})
	if err != nil {
		return err
	}
	return s.run(cmd.ShareInput{RemixPath: "/out/" + name, To: recipients})
}

func (s *shareContext) iShareTheLinkFor(link, name string) error {
	return s.run(cmd.ShareInput{RemixPath: "/out/" + name, Link: link})
}

func (s *shareContext) emailsShouldBeSent(n int) error {
	if s.err != nil && n > 0 {
		return fmt.Errorf("share failed: %w", s.err)
	}
	if len(s.outbox.messages) != n {
		return fmt.Errorf("expected %d emails, got %d", n, len(s.outbox.messages))
	}
	return nil
}

func (s *shareContext) lastEmail() (string, error) {
	if len(s.outbox.messages) == 0 {
		return "", fmt.Errorf("no email was sent (error: %v)", s.err)
	}
	return s.outbox.messages[len(s.outbox.messages)-1], nil
}

func (s *shareContext) theEmailShouldContain(text string) error {
	email, err := s.lastEmail()
	if err != nil {
		return err
	}
	if !strings.Contains(email, text) {
		return fmt.Errorf("expected email to contain %q, got:\n%s", text, email)
	}
	return nil
}

func (s *shareContext) theEmailShouldLinkToTheDriveFile(name string) error {
	files := SharedUploadContext.drive.named(name)
	if len(files) != 1 {
		return fmt.Errorf("expected one Drive file named %q, found %d", name, len(files))
	}
	return s.theEmailShouldContain(distribution.ShareableURL(files[0].Id))
}

func (s *shareContext) theShareShouldFailWith(text string) error {
	if s.err == nil || !strings.Contains(s.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %v", text, s.err)
	}
	return nil
}
