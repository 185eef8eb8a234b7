package notification

import "errors"

var (
	ErrNoRecipient   = errors.New("email has no recipient")
	ErrFailedCompose = errors.New("failed to compose email")
	ErrFailedSend    = errors.New("failed to send email")
)
