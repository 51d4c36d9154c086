package adapter

import (
	"context"
	"time"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult carries the provider's message id.
type SendEmailResult struct {
	ProviderID string
}

// EmailSender delivers a rendered email through the provider.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService queues transactional emails for the background worker.
type EmailService interface {
	QueuePasswordResetOTP(ctx context.Context, input QueuePasswordResetOTPInput) error
}

// QueuePasswordResetOTPInput represents the input for queueing a reset code email.
type QueuePasswordResetOTPInput struct {
	UserEmail string
	UserName  string
	OTP       string
	ExpiresIn string
	// ExpiresAt is when the code stops working. The email is dropped
	// instead of sent once it passes. Zero disables the deadline.
	ExpiresAt time.Time
}
