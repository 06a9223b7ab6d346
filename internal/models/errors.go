package models

import "errors"

var (
	// ErrDuplicateLogin: registration with a login that already exists.
	ErrDuplicateLogin = errors.New("login already taken")
	// ErrAuthenticationFailed covers both an unknown login and a wrong
	// password; callers cannot tell the two apart.
	ErrAuthenticationFailed = errors.New("invalid credentials")
	// ErrNotFound: ticket/user/comment lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition: master assignment attempted on a ticket
	// already ready for pickup.
	ErrInvalidTransition = errors.New("ticket is ready for pickup")
)
