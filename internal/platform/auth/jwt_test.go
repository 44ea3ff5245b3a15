package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerifyToken(t *testing.T) {
	manager := NewTokenManager("unit-test-secret-with-enough-length", "quorum", time.Hour)

	token, err := manager.IssueToken("account-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	accountID, err := manager.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if accountID != "account-1" {
		t.Fatalf("expected account-1, got %q", accountID)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	manager := NewTokenManager("unit-test-secret-with-enough-length", "quorum", time.Hour)

	token, err := manager.IssueToken("account-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := manager.VerifyToken(token + "x"); err == nil {
		t.Fatalf("expected tampered token to fail")
	}
	if _, err := manager.VerifyToken(""); err == nil {
		t.Fatalf("expected empty token to fail")
	}
}

func TestVerifyRejectsWrongSecretAndIssuer(t *testing.T) {
	issuing := NewTokenManager("secret-one-secret-one-secret-one", "quorum", time.Hour)
	token, err := issuing.IssueToken("account-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	wrongSecret := NewTokenManager("secret-two-secret-two-secret-two", "quorum", time.Hour)
	if _, err := wrongSecret.VerifyToken(token); err == nil {
		t.Fatalf("expected wrong secret to fail")
	}

	wrongIssuer := NewTokenManager("secret-one-secret-one-secret-one", "other-service", time.Hour)
	if _, err := wrongIssuer.VerifyToken(token); err == nil {
		t.Fatalf("expected wrong issuer to fail")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager := &TokenManager{
		secret: []byte("unit-test-secret-with-enough-length"),
		issuer: "quorum",
		ttl:    -time.Minute,
	}

	token, err := manager.IssueToken("account-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := manager.VerifyToken(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestIssueRejectsEmptyAccount(t *testing.T) {
	manager := NewTokenManager("unit-test-secret-with-enough-length", "quorum", time.Hour)
	if _, err := manager.IssueToken("  "); err == nil {
		t.Fatalf("expected empty account id to fail")
	}
}
