package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping bcrypt test in short mode")
	}

	hash, err := HashPassword("Password1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "Password1" {
		t.Error("Hash must not equal the plaintext password")
	}

	if !CheckPassword("Password1", hash) {
		t.Error("Expected the correct password to verify")
	}
	if CheckPassword("password1", hash) {
		t.Error("Expected a wrong password to fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if userID != "user-42" {
		t.Errorf("Expected user-42, got %q", userID)
	}
}

func TestTokenRejections(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)
	expired := NewTokenManager("test-secret", -time.Minute)

	good, _ := manager.Issue("user-42")
	wrongKey, _ := other.Issue("user-42")
	stale, _ := expired.Issue("user-42")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong signing key", wrongKey},
		{"expired", stale},
		{"tampered", good + "x"},
	}

	for _, tt := range tests {
		if _, err := manager.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", tt.name, err)
		}
	}
}

func TestGenerateAccessCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateAccessCode()
		if err != nil {
			t.Fatalf("GenerateAccessCode failed: %v", err)
		}
		if len(code) != AccessCodeLength {
			t.Fatalf("Expected %d characters, got %q", AccessCodeLength, code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("Code %q contains a character outside the alphabet", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Errorf("Expected mostly unique codes, got %d distinct out of 100", len(seen))
	}
}

func TestRateLimiter(t *testing.T) {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   3,
		window:  time.Hour,
	}

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Fourth request should be blocked")
	}

	// other clients have their own budget
	if !rl.Allow("10.0.0.2") {
		t.Error("A different client should be allowed")
	}

	// a new window resets the budget
	rl.buckets["10.0.0.1"].windowStart = time.Now().Add(-2 * time.Hour)
	if !rl.Allow("10.0.0.1") {
		t.Error("Expected the budget to reset after the window")
	}
}
