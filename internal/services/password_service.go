package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	resetTokenBytes   = 32
)

var (
	ErrPasswordTooShort  = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrPasswordTooLong   = fmt.Errorf("password must be no more than %d characters long", maxPasswordLength)
	ErrPasswordTooWeak   = errors.New("password must contain at least one letter and one number")
	ErrPasswordMismatch  = errors.New("password does not match")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// PasswordService handles password hashing, verification and reset tokens
type PasswordService struct {
	bcryptCost int
}

// NewPasswordService creates a new password service
func NewPasswordService(bcryptCost int) PasswordServiceInterface {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PasswordService{bcryptCost: bcryptCost}
}

// ValidatePassword checks a password against the password policy
func (ps *PasswordService) ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return ErrPasswordTooWeak
	}

	return nil
}

// HashPassword hashes a password using bcrypt
func (ps *PasswordService) HashPassword(password string) (string, error) {
	if err := ps.ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), ps.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// ComparePassword compares a plaintext password against a bcrypt hash
func (ps *PasswordService) ComparePassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}

// GenerateResetToken creates a random password-reset token and its storage hash.
// The raw token is sent to the user; only the hash is persisted.
func (ps *PasswordService) GenerateResetToken() (string, string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	token := hex.EncodeToString(buf)
	return token, ps.HashResetToken(token), nil
}

// HashResetToken returns the hex-encoded SHA-256 hash of a reset token
func (ps *PasswordService) HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
