package email

import (
	"context"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// Service handles email queueing operations.
type Service struct {
	queue adapter.EmailQueueRepository
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository) *Service {
	return &Service{
		queue: queue,
	}
}

// QueuePasswordResetOTP queues the reset code email for the worker.
func (s *Service) QueuePasswordResetOTP(ctx context.Context, input adapter.QueuePasswordResetOTPInput) error {
	if input.UserEmail == "" {
		return domainerror.NewEmailError(domainerror.ErrCodeMissingRecipient, "reset code email has no recipient", domainerror.ErrMissingRecipient)
	}

	templateData := map[string]interface{}{
		"user_name":  input.UserName,
		"otp":        input.OTP,
		"expires_in": input.ExpiresIn,
	}

	job := entity.NewEmailJob(
		entity.TemplatePasswordResetOTP,
		input.UserEmail,
		input.UserName,
		"Your password reset code",
		templateData,
	)
	if !input.ExpiresAt.IsZero() {
		job.WithExpiry(input.ExpiresAt)
	}

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue password reset email",
			err,
		)
	}

	return nil
}

var _ adapter.EmailService = (*Service)(nil)
