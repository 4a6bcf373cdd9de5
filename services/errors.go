package services

import "errors"

var (
	// ErrNotFound also covers mutations of a post the caller does not own.
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
