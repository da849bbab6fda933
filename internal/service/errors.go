package service

import "errors"

var (
	// ErrValidation marks rejected input. Wrapped values carry the field
	// detail; match with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
