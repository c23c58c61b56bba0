package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"clip-remix/domain/notification"
)

type mockSender struct {
	requests []*notification.EmailRequest
	err      error
}

func (m *mockSender) Send(ctx context.Context, req *notification.EmailRequest) error {
	m.requests = append(m.requests, req)
	return m.err
}

func TestService_NotifyRemix(t *testing.T) {
	sender := &mockSender{}
	to := []notification.Recipient{{Name: "John Doe", Address: "john@example.com"}}
	cc := []notification.Recipient{{Address: "jane@example.com"}}
	svc := NewService(sender, "Jonathan", to, cc)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }

	err := svc.NotifyRemix(context.Background(), "/out/holiday_remix.mp4", "https://drive.google.com/file/d/abc/view", 90*time.Second)
	if err != nil {
		t.Fatalf("NotifyRemix() error = %v", err)
	}

	if len(sender.requests) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.requests))
	}
	req := sender.requests[0]
	if req.RemixName != "holiday_remix.mp4" {
		t.Errorf("RemixName = %q, want holiday_remix.mp4", req.RemixName)
	}
	if req.ShareURL != "https://drive.google.com/file/d/abc/view" {
		t.Errorf("ShareURL = %q", req.ShareURL)
	}
	if len(req.To) != 1 || req.To[0].Address != "john@example.com" {
		t.Errorf("To = %+v", req.To)
	}
	if len(req.CC) != 1 || req.CC[0].Address != "jane@example.com" {
		t.Errorf("CC = %+v", req.CC)
	}
	if req.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 1m30s", req.Duration)
	}
	if !req.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", req.CreatedAt, created)
	}
	if req.SenderName != "Jonathan" {
		t.Errorf("SenderName = %q, want Jonathan", req.SenderName)
	}
}

func TestService_SendPropagatesErrors(t *testing.T) {
	sendErr := errors.New("boom")
	svc := NewService(&mockSender{err: sendErr}, "", nil, nil)

	err := svc.Send(context.Background(), SendRequest{RemixPath: "a_remix.mp4", ShareURL: "https://x"})
	if !errors.Is(err, sendErr) {
		t.Errorf("Send() error = %v, want %v", err, sendErr)
	}
}
