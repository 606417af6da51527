package auth

import "errors"

// Decode failures form a closed set so callers can match them explicitly
// instead of rescuing a library error type.
var (
	// ErrTokenMalformed is returned when the string is not a structurally
	// valid encoded token.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrInvalidSignature is returned when the signature does not verify
	// against the current secret.
	ErrInvalidSignature = errors.New("token signature is invalid")

	// ErrTokenExpired is returned when the signature verifies but the
	// token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)
