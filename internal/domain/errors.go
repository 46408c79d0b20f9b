package domain

import "errors"

var (
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrInvalidRating indicates a review rating outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrInvalidQuantity indicates a cart quantity below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrIllegalTransition indicates a verification status change the state machine does not allow.
	ErrIllegalTransition = errors.New("illegal verification status transition")
	// ErrReplyExists indicates that a review already carries its single reply.
	ErrReplyExists = errors.New("review already has a reply")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken indicates a login token that cannot be trusted.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrStorageUnavailable indicates that no document storage is configured.
	ErrStorageUnavailable = errors.New("document storage is not configured")
)
