// Package password provides one-way credential hashing. Digests are
// salted bcrypt hashes and are never reversed by the application.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Encoder hashes plaintext credentials and verifies them against a
// stored digest.
type Encoder interface {
	Encode(raw string) (string, error)
	Matches(raw, digest string) bool
}

// Bcrypt implements Encoder using bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt encoder. Costs outside the valid bcrypt
// range fall back to the library default.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Encode(raw string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(raw), b.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (b *Bcrypt) Matches(raw, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(raw)) == nil
}
