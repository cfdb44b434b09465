package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

type Hasher interface {
	Hash(password string) (string, error)
}

// SHA256Hasher produces a single-pass lowercase hex digest. With an empty
// pepper the digest is unsalted and weak against offline guessing.
type SHA256Hasher struct {
	Pepper string
}

func (h SHA256Hasher) Hash(password string) (string, error) {
	return h.digest(password), nil
}

func (h SHA256Hasher) digest(password string) string {
	input := password
	if h.Pepper != "" {
		input = h.Pepper + ":" + password
	}
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(b), nil
}

func NewHasher(scheme, pepper string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeSHA256:
		return SHA256Hasher{Pepper: pepper}, nil
	case SchemeBcrypt:
		return BcryptHasher{Cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown hash scheme %q", scheme)
	}
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

// verifyPassword picks the scheme from the stored hash, so a teacher file
// written under one scheme still verifies after the configured scheme changes.
func verifyPassword(sha SHA256Hasher, password, stored string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	candidate := sha.digest(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}
