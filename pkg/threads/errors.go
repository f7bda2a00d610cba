package threads

import (
	"errors"

	"redline/pkg/validation"
)

var (
	// ErrNotFound is returned when a referenced thread id does not exist.
	// Mutating calls surface it; filtered reads just return empty sets.
	ErrNotFound = errors.New("thread not found")

	// ErrMessageNotFound is returned when a message id is not part of the
	// referenced thread.
	ErrMessageNotFound = errors.New("message not found in thread")

	// ErrValidation wraps malformed-input failures.
	ErrValidation = validation.ErrInvalid
)
