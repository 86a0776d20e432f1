package core

import "errors"

var (
	// ErrNotFound is returned when a board or image id does not reference an
	// existing entity.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when input to a store operation is malformed
	// (empty board name, unknown palette color, bad URL). The store is left
	// unmodified.
	ErrValidation = errors.New("validation failed")

	// ErrStorage is returned when the persistence layer fails to read or
	// write the library document. In-memory state stays authoritative.
	ErrStorage = errors.New("storage failure")

	// ErrExternalService is returned when an external collaborator (AI
	// suggestion, image proxy target) fails or is unavailable.
	ErrExternalService = errors.New("external service failure")
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether err wraps ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
