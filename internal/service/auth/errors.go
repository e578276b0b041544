package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrInvalidConfirmationToken covers every confirmation token failure,
	// expiry included.
	ErrInvalidConfirmationToken = errors.New("invalid or expired confirmation token")

	// ErrPasswordMismatch indicates a password did not match its stored hash
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrMalformedHash indicates a stored hash could not be decoded
	ErrMalformedHash = errors.New("malformed password hash")
)
