package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"clip-remix/domain/notification"
	"clip-remix/infrastructure/googleauth"

	"github.com/google/uuid"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailService defines the interface for Gmail API operations
// This allows mocking the Gmail API in tests
type GmailService interface {
	SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error)
}

// GoogleGmailService is the production implementation using the Gmail API
type GoogleGmailService struct {
	service *gmail.Service
}

// SendMessage sends an email via Gmail API
func (s *GoogleGmailService) SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error) {
	return s.service.Users.Messages.Send(userID, message).Context(ctx).Do()
}

// Client implements notification.EmailSender using Gmail API
type Client struct {
	gmailService GmailService
	from         notification.Recipient
	template     notification.EmailTemplate
	boundary     func() string
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithGmailService sets a custom Gmail service (for testing)
func WithGmailService(svc GmailService) ClientOption {
	return func(c *Client) {
		c.gmailService = svc
	}
}

// WithTemplate sets a custom email template
func WithTemplate(tmpl notification.EmailTemplate) ClientOption {
	return func(c *Client) {
		c.template = tmpl
	}
}

// NewClient creates a new Gmail client
func NewClient(from notification.Recipient, opts ...ClientOption) *Client {
	c := &Client{
		from:     from,
		template: notification.DefaultTemplate,
		boundary: func() string { return "remix-" + uuid.NewString() },
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientWithOAuth creates a Gmail client authorized to send mail as the signed-in user.
// Gmail uses its own token file because its scope differs from Drive's.
func NewClientWithOAuth(ctx context.Context, cfg googleauth.OAuthConfig, from notification.Recipient, opts ...ClientOption) (*Client, error) {
	c := NewClient(from, opts...)
	if c.gmailService != nil {
		return c, nil
	}

	httpClient, err := googleauth.HTTPClient(ctx, cfg, gmail.GmailSendScope)
	if err != nil {
		return nil, err
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create gmail service: %w", err)
	}
	c.gmailService = &GoogleGmailService{service: srv}
	return c, nil
}

// Send sends an email using the Gmail API
func (c *Client) Send(ctx context.Context, req *notification.EmailRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid email request: %w", err)
	}

	// Build template data with greeting, title and duration
	data := notification.NewTemplateData(req)

	// Render templates
	subject, err := c.template.RenderSubject(data)
	if err != nil {
		return fmt.Errorf("failed to render subject: %w", err)
	}

	plainText, err := c.template.RenderPlainText(data)
	if err != nil {
		return fmt.Errorf("failed to render plain text: %w", err)
	}

	htmlBody, err := c.template.RenderHTML(data)
	if err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}

	// Build MIME message
	rawMessage := c.buildMIMEMessage(req, subject, plainText, htmlBody)

	// Encode for Gmail API
	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(rawMessage)),
	}

	// Send via Gmail API
	if _, err := c.gmailService.SendMessage(ctx, "me", message); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrSendFailed, err)
	}

	return nil
}

// buildMIMEMessage builds a RFC 2822 multipart/alternative message
func (c *Client) buildMIMEMessage(req *notification.EmailRequest, subject, plainText, htmlBody string) string {
	var msg strings.Builder
	boundary := c.boundary()

	// Headers
	fmt.Fprintf(&msg, "From: %s\r\n", c.from)
	fmt.Fprintf(&msg, "To: %s\r\n", joinRecipients(req.To))
	// CC recipients
	if len(req.CC) > 0 {
		fmt.Fprintf(&msg, "Cc: %s\r\n", joinRecipients(req.CC))
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	// Plain text part
	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(plainText)
	msg.WriteString("\r\n\r\n")

	// HTML part
	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return msg.String()
}

func joinRecipients(rs []notification.Recipient) string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return strings.Join(out, ", ")
}

// Ensure Client implements notification.EmailSender
var _ notification.EmailSender = (*Client)(nil)
