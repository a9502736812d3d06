package devauth

import "errors"

var (
	ErrUserExists     = errors.New("user already exists")
	ErrBadCredentials = errors.New("invalid user name or password")
	ErrSessionRevoked = errors.New("session revoked or unknown")
	ErrInvalidUser    = errors.New("user name and password are required")
)
