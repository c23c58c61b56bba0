package notification

import "errors"

var (
	// ErrNoRecipients is returned when no To recipients are provided
	ErrNoRecipients = errors.New("at least one recipient is required")

	// ErrInvalidRecipient is returned when a recipient has no usable email address
	ErrInvalidRecipient = errors.New("recipient must have an email address")

	// ErrNoRemixName is returned when the shared file has no name
	ErrNoRemixName = errors.New("remix name is required")

	// ErrNoShareURL is returned when there is no link to send
	ErrNoShareURL = errors.New("share URL is required")

	// ErrSendFailed is returned when the email fails to send
	ErrSendFailed = errors.New("failed to send email")
)
