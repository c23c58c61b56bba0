package notification

import (
	"context"
	"fmt"
	"net/mail"
	"time"
)

// Recipient represents an email recipient with name and address
type Recipient struct {
	Name    string
	Address string
}

// String formats the recipient as an address header value
func (r Recipient) String() string {
	if r.Name == "" {
		return r.Address
	}
	return fmt.Sprintf("%s <%s>", r.Name, r.Address)
}

// ParseRecipient parses "Jane Doe <jane@example.com>" or a bare address
func ParseRecipient(s string) (Recipient, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return Recipient{}, fmt.Errorf("%w: %q", ErrInvalidRecipient, s)
	}
	return Recipient{Name: addr.Name, Address: addr.Address}, nil
}

// ParseRecipients parses every value, each of which may hold a comma separated list
func ParseRecipients(values []string) ([]Recipient, error) {
	var out []Recipient
	for _, v := range values {
		list, err := mail.ParseAddressList(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, v)
		}
		for _, a := range list {
			out = append(out, Recipient{Name: a.Name, Address: a.Address})
		}
	}
	return out, nil
}

// EmailRequest contains all the data needed to send a remix share link
type EmailRequest struct {
	To         []Recipient   // Primary recipients
	CC         []Recipient   // Carbon copy recipients
	RemixName  string        // File name of the remix, e.g. "holiday_remix.mp4"
	ShareURL   string        // Google Drive link
	Duration   time.Duration // Running time, zero when unknown
	CreatedAt  time.Time
	SenderName string // Name to sign the email
}

// Validate checks that the email request has all required fields
func (r *EmailRequest) Validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range append(append([]Recipient(nil), r.To...), r.CC...) {
		if to.Address == "" {
			return ErrInvalidRecipient
		}
	}
	if r.RemixName == "" {
		return ErrNoRemixName
	}
	if r.ShareURL == "" {
		return ErrNoShareURL
	}
	return nil
}

// EmailSender defines the interface for sending emails
type EmailSender interface {
	Send(ctx context.Context, req *EmailRequest) error
}
