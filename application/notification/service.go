package notification

import (
	"context"
	"path/filepath"
	"time"

	"clip-remix/domain/notification"
)

// Service sends remix share links by email
type Service struct {
	sender     notification.EmailSender
	senderName string
	to         []notification.Recipient
	cc         []notification.Recipient
	now        func() time.Time
}

// NewService creates a new notification service.
// to and cc are the default recipients used by NotifyRemix.
func NewService(sender notification.EmailSender, senderName string, to, cc []notification.Recipient) *Service {
	return &Service{
		sender:     sender,
		senderName: senderName,
		to:         to,
		cc:         cc,
		now:        time.Now,
	}
}

// SendRequest contains the parameters for sending a share link
type SendRequest struct {
	To        []notification.Recipient
	CC        []notification.Recipient
	RemixPath string
	ShareURL  string
	Duration  time.Duration
}

// Send emails a share link to the given recipients
func (s *Service) Send(ctx context.Context, req SendRequest) error {
	return s.sender.Send(ctx, &notification.EmailRequest{
		To:         req.To,
		CC:         req.CC,
		RemixName:  filepath.Base(req.RemixPath),
		ShareURL:   req.ShareURL,
		Duration:   req.Duration,
		CreatedAt:  s.now(),
		SenderName: s.senderName,
	})
}

// NotifyRemix emails a share link to the default recipients
func (s *Service) NotifyRemix(ctx context.Context, remixPath, shareURL string, duration time.Duration) error {
	return s.Send(ctx, SendRequest{
		To:        s.to,
		CC:        s.cc,
		RemixPath: remixPath,
		ShareURL:  shareURL,
		Duration:  duration,
	})
}

// Recipients returns the default recipients
func (s *Service) Recipients() []notification.Recipient {
	return s.to
}

// CC returns the default carbon copy recipients
func (s *Service) CC() []notification.Recipient {
	return s.cc
}
