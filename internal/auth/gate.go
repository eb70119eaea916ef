// Package auth guards admin operations with a single shared secret.
package auth

import (
	"crypto/subtle"
	"errors"
)

// PlaceholderToken is the shipped default secret. A gate configured with it
// refuses every request until the deployer sets a real one.
const PlaceholderToken = "change-me"

// HeaderName carries the admin token on requests
const HeaderName = "X-Admin-Token"

var (
	// ErrUnconfigured means the admin secret was never changed from the placeholder
	ErrUnconfigured = errors.New("set APP_ADMIN_TOKEN before using admin endpoints")
	// ErrUnauthorized means the presented token is missing or wrong
	ErrUnauthorized = errors.New("invalid admin token")
)

// Gate checks presented tokens against the configured secret
type Gate struct {
	secret string
}

// NewGate creates a gate for the given secret
func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Configured reports whether a real secret is set
func (g *Gate) Configured() bool {
	return g.secret != "" && g.secret != PlaceholderToken
}

// Check returns nil when the token grants admin access
func (g *Gate) Check(presented string) error {
	if !g.Configured() {
		return ErrUnconfigured
	}
	if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(g.secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}
