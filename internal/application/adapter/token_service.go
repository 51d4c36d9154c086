package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// TokenClaims represents the claims contained in an access token.
type TokenClaims struct {
	UserID      uuid.UUID
	Email       string
	AccountType entity.AccountType
	ExpiresAt   time.Time
}

// TokenService issues and validates signed access tokens.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, user *entity.User) (string, time.Time, error)
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
