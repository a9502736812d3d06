package interceptor

import (
	"errors"

	"github.com/vitistack/authproxy/internal/credentials"
)

var (
	// ErrNetwork marks transport level failures: DNS, refused or reset connections, timeouts.
	ErrNetwork = errors.New("network failure")

	// ErrUnauthorized is the outcome of a refresh cycle that left the session without credentials.
	ErrUnauthorized = errors.New("session is not authenticated")

	// ErrMalformed is reported for tokens whose expiry cannot be decoded.
	ErrMalformed = credentials.ErrMalformed

	ErrNoRefreshToken  = errors.New("no refresh token available")
	ErrRefreshRejected = errors.New("refresh exchange rejected")
	ErrMissingTokens   = errors.New("token exchange response carries no token pair")
	ErrInvalidBody     = errors.New("request body is not valid JSON")
)
