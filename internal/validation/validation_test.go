package validation

import (
	"errors"
	"testing"
)

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fieldErr.Field != field {
		t.Errorf("field = %q, want %q", fieldErr.Field, field)
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	if err := Register("alice@example.com", "alice", "secret-password"); err != nil {
		t.Errorf("valid registration rejected: %v", err)
	}

	assertFieldError(t, Register("", "alice", "secret-password"), "email")
	assertFieldError(t, Register("not-an-email", "alice", "secret-password"), "email")
	assertFieldError(t, Register("alice@example.com", "", "secret-password"), "username")
	assertFieldError(t, Register("alice@example.com", "   ", "secret-password"), "username")
	assertFieldError(t, Register("alice@example.com", "alice", ""), "password")
	assertFieldError(t, Register("alice@example.com", "alice", "abcd"), "password")
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	if err := Authenticate("alice", "secret-password"); err != nil {
		t.Errorf("valid login rejected: %v", err)
	}

	assertFieldError(t, Authenticate("", "secret-password"), "username")
	assertFieldError(t, Authenticate("alice", "abc"), "password")
}

func TestEntityName(t *testing.T) {
	t.Parallel()

	if err := EntityName("name", "Sales"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}

	assertFieldError(t, EntityName("name", ""), "name")
	assertFieldError(t, EntityName("name", "  "), "name")
}

func TestDashboardPassword(t *testing.T) {
	t.Parallel()

	// Empty clears the gate, so it is valid
	if err := DashboardPassword(""); err != nil {
		t.Errorf("empty password rejected: %v", err)
	}
	if err := DashboardPassword("gate-password"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}

	assertFieldError(t, DashboardPassword("abc"), "password")
}

func TestMinimumPasswordLength(t *testing.T) {
	t.Parallel()

	// Exactly the minimum passes
	if err := DashboardPassword("12345"); err != nil {
		t.Errorf("minimum-length password rejected: %v", err)
	}
}
