package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCodec_IssueAndVerify(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("super-secret"), time.Hour)

	token, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	userID, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", userID, "user-123")
	}
}

func TestCodec_Expired(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("secret"), -1*time.Second)

	token, err := codec.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = codec.Verify(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewCodec([]byte("right-secret"), time.Hour)
	verifier := NewCodec([]byte("wrong-secret"), time.Hour)

	token, err := issuer.Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestCodec_Tampered(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("secret"), time.Hour)

	token, err := codec.Issue("u3")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestCodec_Garbage(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("secret"), time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}
