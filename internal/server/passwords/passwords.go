// Package passwords turns a password into what the credential store keeps
// and checks a candidate against it.
package passwords

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type Scheme interface {
	Hash(password string) (string, error)
	Matches(stored, candidate string) bool
}

// Plain stores passwords as given and compares them exactly.
type Plain struct{}

func (Plain) Hash(password string) (string, error) { return password, nil }

func (Plain) Matches(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// Bcrypt stores bcrypt hashes of the password's SHA-256 digest. bcrypt reads
// at most 72 bytes, so the digest keeps longer passwords hashable and makes
// every byte of them count.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (Bcrypt) Matches(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), prehash(candidate)) == nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
