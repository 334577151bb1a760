// Package crypto provides the bcrypt-backed credential hasher.
package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/omsomani/account-system/internal/core/ports"
)

// bcryptCost matches the work factor the account store was seeded with.
const bcryptCost = 10

// BcryptHasher hashes and verifies passwords with bcrypt. Each Hash call
// embeds a fresh random salt; Verify compares in constant time.
type BcryptHasher struct{}

var _ ports.PasswordHasher = BcryptHasher{}

func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{}
}

func (BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. A malformed digest simply
// returns false.
func (BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
