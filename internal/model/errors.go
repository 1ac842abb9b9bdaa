package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by stores on a unique email violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrOTPStale is returned when the code to consume is no longer the stored one.
	ErrOTPStale = errors.New("one-time code is stale")
)
