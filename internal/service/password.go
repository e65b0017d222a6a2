package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordScheme names how new secrets are derived.
type PasswordScheme string

const (
	// SchemeSHA256 is a fast unsalted digest. Deterministic, not suitable for production.
	SchemeSHA256 PasswordScheme = "sha256"
	// SchemeBcrypt is a salted slow hash.
	SchemeBcrypt PasswordScheme = "bcrypt"
)

// PasswordHasher turns plaintext passwords into storable secrets and checks login attempts.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, secret string) bool
}

type passwordHasher struct {
	scheme PasswordScheme
}

func NewPasswordHasher(scheme PasswordScheme) (PasswordHasher, error) {
	switch scheme {
	case "":
		scheme = SchemeSHA256
	case SchemeSHA256, SchemeBcrypt:
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
	return &passwordHasher{scheme: scheme}, nil
}

func (h *passwordHasher) Hash(password string) (string, error) {
	if h.scheme == SchemeBcrypt {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("hash password: %w", err)
		}
		return string(hash), nil
	}
	return digest(password), nil
}

// Verify accepts secrets of either scheme regardless of the configured one.
func (h *passwordHasher) Verify(password, secret string) bool {
	if isBcrypt(secret) {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(digest(password)), []byte(secret)) == 1
}

func digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func isBcrypt(secret string) bool {
	return strings.HasPrefix(secret, "$2a$") ||
		strings.HasPrefix(secret, "$2b$") ||
		strings.HasPrefix(secret, "$2y$")
}
