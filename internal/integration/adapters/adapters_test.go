package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	user := entity.NewUser("driver@example.com", "Driver", "hash", entity.AccountTypeTransport)

	token, expiresAt, err := svc.GenerateAccessToken(context.Background(), user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("token already expired at %v", expiresAt)
	}

	claims, err := svc.ValidateAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != user.ID || claims.AccountType != entity.AccountTypeTransport {
		t.Errorf("unexpected claims: %+v", claims)
	}

	other := NewTokenService("other-secret", time.Hour)
	if _, err := other.ValidateAccessToken(context.Background(), token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour).(*tokenService)
	svc.now = func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateAccessToken(context.Background(), entity.NewUser("a@b.co", "A", "h", entity.AccountTypeSimple))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateAccessToken(context.Background(), token); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestPasswordService_GenerateOTP(t *testing.T) {
	svc := NewPasswordService()

	for i := 0; i < 20; i++ {
		otp, err := svc.GenerateOTP(6)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("otp %q has %d digits", otp, len(otp))
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Fatalf("otp %q contains non-digit", otp)
			}
		}
	}

	if _, err := svc.GenerateOTP(0); err == nil {
		t.Error("expected error for zero length")
	}
}

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := &passwordService{cost: 4}

	hash, err := svc.HashPassword("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := svc.VerifyPassword(hash, "123456"); err != nil {
		t.Errorf("verify: %v", err)
	}
	if err := svc.VerifyPassword(hash, "654321"); err == nil {
		t.Error("wrong code must not verify")
	}
	if err := svc.ValidatePasswordStrength("12345"); err == nil {
		t.Error("short password must be rejected")
	}
}
