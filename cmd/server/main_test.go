package main

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"sinarabadi/backend/internal/config"
)

func TestValidateSecurityConfigRejectsShortSecret(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "short"})
	if err == nil {
		t.Fatalf("expected weak security config to be rejected")
	}
}

func TestValidateSecurityConfigAcceptsStrongSecret(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef"})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}

func TestSeedCredentialsHashesPassword(t *testing.T) {
	creds := seedCredentials(config.Config{
		StoreUsername: "pemilik",
		StorePassword: "sandi-kuat-99",
	}, zerolog.Nop())

	if creds.Username != "pemilik" {
		t.Fatalf("expected username pemilik, got %q", creds.Username)
	}
	if !strings.HasPrefix(creds.PasswordHash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", creds.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte("sandi-kuat-99")); err != nil {
		t.Fatalf("hash does not verify against the password: %v", err)
	}
}
