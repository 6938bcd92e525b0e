package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is what the setup form and CLI enforce.
	MinPasswordLength = 12

	// maxPasswordBytes is bcrypt's input limit; longer passwords would
	// be silently truncated, so they are rejected instead.
	maxPasswordBytes = 72

	sessionSecretBytes = 32
)

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
)

func validatePasswordLength(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword validates the password's length and returns its bcrypt
// hash at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if err := validatePasswordLength(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a password against its stored hash, mapping a
// mismatch to ErrInvalidPassword.
func CheckPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}

// GenerateSessionSecret returns a hex-encoded random secret suitable
// for AUTH_SESSION_SECRET.
func GenerateSessionSecret() (string, error) {
	secret := make([]byte, sessionSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}
	return hex.EncodeToString(secret), nil
}
