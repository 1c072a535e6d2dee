package models

import "errors"

// Sentinel error kinds. Controllers translate these into HTTP statuses
// through a single fixed table; nothing else decides a status code.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("not authorized")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrVersionMismatch = errors.New("document version mismatch")
)
