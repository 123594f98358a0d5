package gate

import (
	"errors"

	"github.com/alexedwards/argon2id"
)

// ErrDenied is returned when the provided secret does not match.
var ErrDenied = errors.New("gate: secret mismatch")

// Gate is the shared-secret check that guards order commit. The plain
// secret is hashed at construction and discarded; verification has no
// side effects, so callers may retry freely.
type Gate struct {
	hash string
}

// New hashes the configured secret and returns a ready gate.
func New(secret string) (*Gate, error) {
	if secret == "" {
		return nil, errors.New("gate: secret is required")
	}
	hash, err := argon2id.CreateHash(secret, argon2id.DefaultParams)
	if err != nil {
		return nil, err
	}
	return &Gate{hash: hash}, nil
}

// Verify succeeds iff input equals the configured secret.
func (g *Gate) Verify(input string) error {
	if g == nil || g.hash == "" {
		return errors.New("gate: not configured")
	}
	ok, err := argon2id.ComparePasswordAndHash(input, g.hash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDenied
	}
	return nil
}
