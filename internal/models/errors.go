package models

import "errors"

// Typed domain errors. Repositories and services fail fast with one
// of these; handlers map them to HTTP statuses. Checked with errors.Is
// so wrapping with fmt.Errorf("...: %w", err) stays safe.
var (
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrDuplicateDNI    = errors.New("dni already registered")
	ErrNotFound        = errors.New("not found")
	ErrWrongCredential = errors.New("invalid credentials")
	ErrValidation      = errors.New("validation failed")
)
