package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	// ResetOTPDigits is the length of the emailed reset code.
	ResetOTPDigits = 6
	// ResetOTPTTL is how long a reset code stays valid.
	ResetOTPTTL = 10 * time.Minute

	forgotPasswordMessage = "If an account with that email exists, we have sent a password reset code"
)

// ForgotPasswordInput represents the input for forgot password request.
type ForgotPasswordInput struct {
	Email string
}

// ForgotPasswordOutput represents the output of forgot password request.
type ForgotPasswordOutput struct {
	Message string
}

// ForgotPasswordUseCase issues an emailed one-time reset code.
type ForgotPasswordUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	emailService    adapter.EmailService
	now             func() time.Time
}

// NewForgotPasswordUseCase creates a new ForgotPasswordUseCase instance.
func NewForgotPasswordUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	emailService adapter.EmailService,
) *ForgotPasswordUseCase {
	return &ForgotPasswordUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		emailService:    emailService,
		now:             time.Now,
	}
}

// Execute performs the forgot password request.
// Always returns success to prevent email enumeration.
func (uc *ForgotPasswordUseCase) Execute(ctx context.Context, input ForgotPasswordInput) (*ForgotPasswordOutput, error) {
	if !isValidEmail(input.Email) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}

	done := &ForgotPasswordOutput{Message: forgotPasswordMessage}

	user, err := uc.userRepo.FindByEmail(ctx, entity.NormalizeEmail(input.Email))
	if err != nil {
		slog.Debug("Forgot password requested for non-existent email", "email", input.Email)
		return done, nil
	}

	otp, err := uc.passwordService.GenerateOTP(ResetOTPDigits)
	if err != nil {
		slog.Error("Failed to generate reset code", "error", err, "userID", user.ID)
		return done, nil
	}

	otpHash, err := uc.passwordService.HashPassword(otp)
	if err != nil {
		slog.Error("Failed to hash reset code", "error", err, "userID", user.ID)
		return done, nil
	}

	expiresAt := uc.now().UTC().Add(ResetOTPTTL)
	user.SetResetOTP(otpHash, expiresAt)
	if err := uc.userRepo.Update(ctx, user); err != nil {
		slog.Error("Failed to store reset code", "error", err, "userID", user.ID)
		return done, nil
	}

	if uc.emailService == nil {
		slog.Info("Reset code generated (email service not configured)", "userID", user.ID)
		return done, nil
	}

	err = uc.emailService.QueuePasswordResetOTP(ctx, adapter.QueuePasswordResetOTPInput{
		UserEmail: user.Email,
		UserName:  user.Name,
		OTP:       otp,
		ExpiresIn: "10 minutes",
		ExpiresAt: expiresAt,
	})
	if err != nil {
		slog.Error("Failed to queue reset code email", "error", err, "userID", user.ID)
	} else {
		slog.Info("Reset code email queued", "userID", user.ID)
	}

	return done, nil
}
