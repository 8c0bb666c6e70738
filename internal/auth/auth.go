// Package auth gates routes behind shared secrets. It never reads the
// environment: callers pass the expected secret in.
package auth

import (
	"crypto/subtle"
	"errors"
)

var (
	// ErrNotConfigured means no secret is set, so every request is denied.
	ErrNotConfigured = errors.New("secret not configured")
	// ErrUnauthorized means the presented secret is missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")
)

// Check compares presented against expected in constant time.
func Check(presented, expected string) error {
	if expected == "" {
		return ErrNotConfigured
	}
	if presented == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
		return ErrUnauthorized
	}
	return nil
}
