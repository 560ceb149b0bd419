// Package validation checks request bodies before mutation. It is the
// pluggable pre-mutation validator: handlers call the check for their schema
// and surface the first failing field as a 400.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

// MinPasswordLength is the minimum account and dashboard password length.
const MinPasswordLength = 5

// FieldError names the first field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Register validates a registration body.
func Register(email, username, password string) error {
	if err := checkEmail(email); err != nil {
		return err
	}
	if err := required("username", username); err != nil {
		return err
	}
	return checkPassword(password)
}

// Authenticate validates a login body.
func Authenticate(username, password string) error {
	if err := required("username", username); err != nil {
		return err
	}
	return checkPassword(password)
}

// EntityName validates the name of a dashboard or source before create or
// rename. The field parameter names the entity in the error message.
func EntityName(field, name string) error {
	return required(field, name)
}

// DashboardPassword validates a new dashboard password. Empty is allowed:
// it clears the gate.
func DashboardPassword(password string) error {
	if password == "" {
		return nil
	}
	return checkPassword(password)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Reason: "is a required field"}
	}
	return nil
}

func checkEmail(email string) error {
	if err := required("email", email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &FieldError{Field: "email", Reason: "must be a valid email"}
	}
	return nil
}

func checkPassword(password string) error {
	if err := required("password", password); err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return &FieldError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}
	}
	return nil
}
