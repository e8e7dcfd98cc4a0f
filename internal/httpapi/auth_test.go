package httpapi

import (
	"context"
	"strings"
	"testing"
	"time"

	"sinarabadi/backend/internal/domain"
)

type credentialsStub struct {
	creds domain.Credentials
}

func (s *credentialsStub) GetCredentials(_ context.Context) (domain.Credentials, error) {
	return s.creds, nil
}

func newTestAuthManager(t *testing.T, username string, password string) *AuthManager {
	t.Helper()

	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return NewAuthManager("test-secret", time.Hour, &credentialsStub{
		creds: domain.Credentials{Username: username, PasswordHash: hash},
	})
}

func TestLoginIssuesParsableToken(t *testing.T) {
	manager := newTestAuthManager(t, "basri", "rahasia-123")

	resp, err := manager.Login(context.Background(), domain.LoginRequest{
		Username: "basri",
		Password: "rahasia-123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Username != "basri" {
		t.Fatalf("unexpected username %q", resp.Username)
	}

	subject, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if subject != "basri" {
		t.Fatalf("expected subject basri, got %q", subject)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	manager := newTestAuthManager(t, "basri", "rahasia-123")

	_, err := manager.Login(context.Background(), domain.LoginRequest{
		Username: "basri",
		Password: "salah",
	})
	if err == nil {
		t.Fatalf("expected wrong password to be rejected")
	}
}

func TestLoginRejectsUnknownUsername(t *testing.T) {
	manager := newTestAuthManager(t, "basri", "rahasia-123")

	_, err := manager.Login(context.Background(), domain.LoginRequest{
		Username: "someone-else",
		Password: "rahasia-123",
	})
	if err == nil {
		t.Fatalf("expected unknown username to be rejected")
	}
}

func TestParseTokenRejectsTamperedToken(t *testing.T) {
	manager := newTestAuthManager(t, "basri", "rahasia-123")

	resp, err := manager.Login(context.Background(), domain.LoginRequest{
		Username: "basri",
		Password: "rahasia-123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	tampered := resp.AccessToken[:len(resp.AccessToken)-2] + "xx"
	if _, err := manager.ParseToken(tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	issuer := newTestAuthManager(t, "basri", "rahasia-123")
	verifier := NewAuthManager("a-completely-different-secret", time.Hour, &credentialsStub{})

	resp, err := issuer.Login(context.Background(), domain.LoginRequest{
		Username: "basri",
		Password: "rahasia-123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := verifier.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestHashPasswordProducesBcryptHash(t *testing.T) {
	hash, err := hashPassword("rahasia-123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash prefix, got %s", hash)
	}
	if !isPasswordHash(hash) {
		t.Fatalf("expected isPasswordHash to accept %s", hash)
	}
	if !verifyPassword(hash, "rahasia-123") {
		t.Fatalf("expected password to verify against its own hash")
	}
	if verifyPassword(hash, "salah") {
		t.Fatalf("expected wrong password to fail verification")
	}
}
