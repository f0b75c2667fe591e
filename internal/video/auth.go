package video

import (
	"crypto/subtle"
)

// Gate checks the shared creator secret.
// A Gate with an empty secret admits every caller.
type Gate struct {
	secret []byte
}

// NewGate creates a gate for secret
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured
func (g *Gate) Enabled() bool {
	return len(g.secret) > 0
}

// Check compares presented against the configured secret byte for byte
func (g *Gate) Check(presented string) error {
	if !g.Enabled() {
		return nil
	}
	if presented == "" || subtle.ConstantTimeCompare([]byte(presented), g.secret) != 1 {
		return &AuthError{}
	}
	return nil
}
