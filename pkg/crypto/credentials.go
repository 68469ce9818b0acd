// Package crypto provides hashing utilities for stored datasource credentials.
package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmptyPassword is returned when an empty password is hashed.
	ErrEmptyPassword = errors.New("invalid password: must not be empty")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte input limit.
	ErrPasswordTooLong = errors.New("invalid password: exceeds 72 bytes")
)

// HashPassword returns a bcrypt hash of the password. Only the hash is ever
// persisted; the raw password stays confined to the live connection.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
