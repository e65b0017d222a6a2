package service

import (
	"strings"
	"testing"
)

func TestSHA256HasherIsDeterministic(t *testing.T) {
	h, err := NewPasswordHasher(SchemeSHA256)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}

	a, err := h.Hash("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, _ := h.Hash("hunter2")
	if a != b {
		t.Fatalf("expected identical secrets, got %q and %q", a, b)
	}
	if a == "hunter2" || strings.Contains(a, "hunter2") {
		t.Fatalf("secret leaks the password: %q", a)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestHasherVerify(t *testing.T) {
	for _, scheme := range []PasswordScheme{SchemeSHA256, SchemeBcrypt} {
		t.Run(string(scheme), func(t *testing.T) {
			h, err := NewPasswordHasher(scheme)
			if err != nil {
				t.Fatalf("new hasher: %v", err)
			}
			secret, err := h.Hash("correct horse")
			if err != nil {
				t.Fatalf("hash: %v", err)
			}
			if !h.Verify("correct horse", secret) {
				t.Fatalf("expected password to verify")
			}
			for _, wrong := range []string{"", "correct horse ", "Correct horse", "battery staple"} {
				if h.Verify(wrong, secret) {
					t.Fatalf("expected %q to be rejected", wrong)
				}
			}
		})
	}
}

func TestHasherVerifiesSecretsFromOtherScheme(t *testing.T) {
	sha, _ := NewPasswordHasher(SchemeSHA256)
	bc, _ := NewPasswordHasher(SchemeBcrypt)

	legacy, _ := sha.Hash("pw")
	if !bc.Verify("pw", legacy) {
		t.Fatalf("bcrypt hasher should accept sha256 secrets")
	}
	modern, _ := bc.Hash("pw")
	if !sha.Verify("pw", modern) {
		t.Fatalf("sha256 hasher should accept bcrypt secrets")
	}
}

func TestNewPasswordHasherRejectsUnknownScheme(t *testing.T) {
	if _, err := NewPasswordHasher("md5"); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
	if _, err := NewPasswordHasher(""); err != nil {
		t.Fatalf("empty scheme should default: %v", err)
	}
}
