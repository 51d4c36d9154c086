// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountType determines which ledger a user keeps and which monthly report applies.
type AccountType string

const (
	AccountTypeSimple    AccountType = "simple"
	AccountTypeTransport AccountType = "transport"
)

// IsValid reports whether the account type is one of the known values.
func (a AccountType) IsValid() bool {
	return a == AccountTypeSimple || a == AccountTypeTransport
}

// User represents a registered user of the tracker.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	PasswordHash   string
	AccountType    AccountType
	ResetOTPHash   string
	ResetOTPExpiry *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser creates a new User. The email is normalized to lower case.
func NewUser(email, name, passwordHash string, accountType AccountType) *User {
	now := time.Now().UTC()
	if !accountType.IsValid() {
		accountType = AccountTypeSimple
	}
	return &User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		AccountType:  accountType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetResetOTP stores a hashed one-time password valid until expiry.
func (u *User) SetResetOTP(hash string, expiry time.Time) {
	u.ResetOTPHash = hash
	u.ResetOTPExpiry = &expiry
	u.UpdatedAt = time.Now().UTC()
}

// ClearResetOTP removes any pending password reset code.
func (u *User) ClearResetOTP() {
	u.ResetOTPHash = ""
	u.ResetOTPExpiry = nil
	u.UpdatedAt = time.Now().UTC()
}

// HasValidResetOTP reports whether a reset code exists and has not expired at now.
func (u *User) HasValidResetOTP(now time.Time) bool {
	return u.ResetOTPHash != "" && u.ResetOTPExpiry != nil && now.Before(*u.ResetOTPExpiry)
}
