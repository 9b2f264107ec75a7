package documents

import "errors"

var (
	// ErrNotFound means no document exists with the given id.
	ErrNotFound = errors.New("document not found")
	// ErrForbidden means the caller does not own the document.
	ErrForbidden = errors.New("document belongs to another user")
	// ErrInvalidInput means the request payload failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
