package jwt

import (
	"errors"
	"net/http"
)

type Error string

type JWTError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

const (
	ErrUnAuthorized = Error("UnAuthorized")
	ErrForbidden    = Error("FORBIDDEN")
)

var (
	Errors = map[Error]*JWTError{
		ErrUnAuthorized: {
			Code: http.StatusUnauthorized,
			Msg:  "UnAuthorized",
		},
		ErrForbidden: {
			Code: http.StatusForbidden,
			Msg:  "Forbidden",
		},
	}
)

var (
	ErrMalformed     = errors.New("malformed token")
	ErrMissingExpiry = errors.New("token has no expiry claim")
	ErrWrongTokenUse = errors.New("token used for the wrong purpose")
)
