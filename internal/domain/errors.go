package domain

import "errors"

var (
	// ErrNotAuthenticated is returned when an operation needs a resolved
	// user session and none is present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionNotFound is returned by session stores when no record
	// exists under the given key.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAdminCredentials is returned on a failed admin sign-in.
	ErrAdminCredentials = errors.New("invalid admin credentials")

	// ErrTooManyAttempts is returned when the admin login rate limit trips.
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")
)
