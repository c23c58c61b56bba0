package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"clip-remix/domain/notification"

	"google.golang.org/api/gmail/v1"
)

// mockGmailService is a mock implementation for testing
type mockGmailService struct {
	sentMessages []*gmail.Message
	shouldFail   bool
	failError    error
}

func (m *mockGmailService) SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	m.sentMessages = append(m.sentMessages, message)
	return &gmail.Message{Id: "test-message-id"}, nil
}

func fixedBoundary(c *Client) {
	c.boundary = func() string { return "boundary42" }
}

func testRequest() *notification.EmailRequest {
	return &notification.EmailRequest{
		To:         []notification.Recipient{{Name: "John Doe", Address: "john@example.com"}},
		CC:         []notification.Recipient{{Address: "jane@example.com"}},
		RemixName:  "holiday_remix.mp4",
		ShareURL:   "https://drive.google.com/file/d/abc/view",
		Duration:   150 * time.Second,
		CreatedAt:  time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC),
		SenderName: "Jonathan",
	}
}

func TestClient_Send(t *testing.T) {
	mock := &mockGmailService{}
	from := notification.Recipient{Name: "Jonathan White", Address: "remixes@example.com"}

	client := NewClient(from, WithGmailService(mock), fixedBoundary)

	if err := client.Send(context.Background(), testRequest()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(mock.sentMessages) != 1 {
		t.Fatalf("expected 1 message sent, got %d", len(mock.sentMessages))
	}

	rawBytes, err := decodeBase64URL(mock.sentMessages[0].Raw)
	if err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	raw := string(rawBytes)

	checks := []string{
		"From: Jonathan White <remixes@example.com>\r\n",
		"To: John Doe <john@example.com>\r\n",
		"Cc: jane@example.com\r\n",
		"Subject: New remix: Holiday Remix\r\n",
		`Content-Type: multipart/alternative; boundary="boundary42"`,
		"--boundary42\r\nContent-Type: text/plain",
		"--boundary42\r\nContent-Type: text/html",
		"--boundary42--\r\n",
		"Dear John,",
		"Holiday Remix (2:30), made on 12/28/2025.",
		"https://drive.google.com/file/d/abc/view",
		"~Jonathan",
	}

	for _, check := range checks {
		if !strings.Contains(raw, check) {
			t.Errorf("message missing %q in:\n%s", check, raw)
		}
	}
}

func TestClient_Send_MultipleRecipients(t *testing.T) {
	mock := &mockGmailService{}
	client := NewClient(notification.Recipient{Address: "remixes@example.com"}, WithGmailService(mock), fixedBoundary)

	req := testRequest()
	req.To = []notification.Recipient{
		{Name: "John Doe", Address: "john@example.com"},
		{Name: "Alice Smith", Address: "alice@example.com"},
	}
	req.CC = nil

	if err := client.Send(context.Background(), req); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	rawBytes, _ := decodeBase64URL(mock.sentMessages[0].Raw)
	raw := string(rawBytes)

	if !strings.Contains(raw, "To: John Doe <john@example.com>, Alice Smith <alice@example.com>") {
		t.Errorf("message missing multiple recipients in To header:\n%s", raw)
	}
	if strings.Contains(raw, "Cc:") {
		t.Errorf("message should have no Cc header:\n%s", raw)
	}
	if !strings.Contains(raw, "Dear John & Alice,") {
		t.Errorf("message should greet both recipients by name:\n%s", raw)
	}
}

func TestClient_Send_EncodesNonASCIISubject(t *testing.T) {
	mock := &mockGmailService{}
	client := NewClient(notification.Recipient{Address: "remixes@example.com"}, WithGmailService(mock), fixedBoundary)

	req := testRequest()
	req.RemixName = "café_remix.mp4"
	if err := client.Send(context.Background(), req); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	rawBytes, _ := decodeBase64URL(mock.sentMessages[0].Raw)
	if !strings.Contains(string(rawBytes), "Subject: =?utf-8?q?") {
		t.Errorf("non-ASCII subject should be Q-encoded:\n%s", rawBytes)
	}
}

func TestClient_Send_ValidationError(t *testing.T) {
	mock := &mockGmailService{}
	client := NewClient(notification.Recipient{Address: "remixes@example.com"}, WithGmailService(mock))

	req := testRequest()
	req.To = nil

	err := client.Send(context.Background(), req)
	if !errors.Is(err, notification.ErrNoRecipients) {
		t.Fatalf("Send() error = %v, want ErrNoRecipients", err)
	}
	if !strings.Contains(err.Error(), "invalid email request") {
		t.Errorf("Send() error = %v, want invalid email request error", err)
	}
	if len(mock.sentMessages) != 0 {
		t.Error("no message should be sent for an invalid request")
	}
}

func TestClient_Send_APIError(t *testing.T) {
	mock := &mockGmailService{shouldFail: true, failError: errors.New("quota exceeded")}
	client := NewClient(notification.Recipient{Address: "remixes@example.com"}, WithGmailService(mock))

	err := client.Send(context.Background(), testRequest())
	if !errors.Is(err, notification.ErrSendFailed) {
		t.Fatalf("Send() error = %v, want ErrSendFailed", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Send() error should carry the API message: %v", err)
	}
}

func TestNewClient_RandomBoundary(t *testing.T) {
	client := NewClient(notification.Recipient{Address: "remixes@example.com"})
	a, b := client.boundary(), client.boundary()
	if a == b || !strings.HasPrefix(a, "remix-") {
		t.Errorf("boundaries should be unique and prefixed: %q %q", a, b)
	}
}

// decodeBase64URL decodes a base64 URL encoded string
func decodeBase64URL(s string) ([]byte, error) {
	return base64.URLEncoding.DecodeString(s)
}
