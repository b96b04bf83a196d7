// Package auth gates admin-only routes behind HTTP Basic credentials checked
// against the single configured admin identity.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"

	apperrors "github.com/akeren/waitlist-api/pkg/errors"
)

const DefaultAdminUsername = "admin"

var (
	ErrAdminPasswordNotConfigured = apperrors.NewInternalServerError("Server Misconfiguration: Admin password not set.", nil)
	ErrInvalidCredentials         = apperrors.NewUnauthorizedError("Invalid admin credentials.", nil)
)

type CredentialChecker struct {
	username string
	password string
}

func NewCredentialChecker(username, password string) *CredentialChecker {
	if username == "" {
		username = DefaultAdminUsername
	}
	return &CredentialChecker{username: username, password: password}
}

// Configured reports whether an admin password has been set.
func (c *CredentialChecker) Configured() bool {
	return c.password != ""
}

// Check returns the admin username when both values match. Both comparisons
// always run, over fixed-length digests.
func (c *CredentialChecker) Check(username, password string) (string, error) {
	if !c.Configured() {
		return "", ErrAdminPasswordNotConfigured
	}

	userOK := constantTimeEqual(username, c.username)
	passOK := constantTimeEqual(password, c.password)
	if userOK&passOK != 1 {
		return "", ErrInvalidCredentials
	}

	return c.username, nil
}

func constantTimeEqual(given, expected string) int {
	g := sha256.Sum256([]byte(given))
	e := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(g[:], e[:])
}
