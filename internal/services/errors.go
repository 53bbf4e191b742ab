package services

import "errors"

var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation error")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so callers cannot tell which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrFileTooLarge indicates an upload over the configured size cap.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedMedia indicates a file extension or declared content
	// type outside the allowed image set.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)
