package adapter

// PasswordService defines password hashing plus the one-time reset codes
// that are hashed the same way.
type PasswordService interface {
	// HashPassword hashes a plain text secret using bcrypt.
	HashPassword(password string) (string, error)

	// VerifyPassword compares a plain text secret with its hash.
	VerifyPassword(hashedPassword, password string) error

	// ValidatePasswordStrength validates if a password meets minimum requirements.
	ValidatePasswordStrength(password string) error

	// GenerateOTP returns a random numeric code with the given number of digits.
	GenerateOTP(digits int) (string, error)
}
