package service

import "errors"

// Error taxonomy surfaced to transport layers. Everything else bubbling out of
// the service layer is a storage failure.
var (
	// ErrInvalidInput marks malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBelowThreshold rejects admissions under the qualifying minimum.
	ErrBelowThreshold = errors.New("total spending must be at least $1,499")

	// ErrUserNotFound marks a failed user lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateAdmission rejects a second admission for the same user.
	ErrDuplicateAdmission = errors.New("user is already a high spender")
)
