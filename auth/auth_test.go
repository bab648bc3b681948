package auth

import (
	"errors"
	"testing"
	"time"
)

func TestManager_IssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue("p1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	playerID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if playerID != "p1" {
		t.Errorf("Expected player id p1, got %s", playerID)
	}
}

func TestManager_Verify_Rejections(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	t.Run("empty token", func(t *testing.T) {
		if _, err := m.Verify(""); !errors.Is(err, ErrMissingToken) {
			t.Errorf("Expected ErrMissingToken, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := m.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour)
		token, err := other.Issue("p1")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewManager("test-secret", -time.Minute)
		token, err := expired.Issue("p1")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret123" {
		t.Error("Expected hash to differ from plaintext")
	}

	if !CheckPassword(hash, "secret123") {
		t.Error("Expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("Expected wrong password to fail")
	}
}
