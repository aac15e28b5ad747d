package domain

import "errors"

// Sentinel errors shared across layers so handlers can map them to stable
// HTTP status codes with errors.Is.
var (
	// ErrNoteNotFound indicates no live note exists with the given id.
	ErrNoteNotFound = errors.New("note not found")

	// ErrVersionNotFound indicates no version record exists with the given id.
	ErrVersionNotFound = errors.New("version not found")

	// ErrVersionMismatch indicates the version record exists but belongs to
	// a different note than the one referenced by the request.
	ErrVersionMismatch = errors.New("version does not belong to this note")
)
