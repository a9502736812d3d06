package response

import (
	"net/http"
)

type Error string

type RestError struct {
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Details string `json:"details"`
}

const (
	ErrInvalidInput  = Error("INVALID_INPUT")
	ErrConflict      = Error("CONFLICT")
	ErrInternalError = Error("INTERNAL_ERROR")
	ErrBadGateway    = Error("BAD_GATEWAY")
	ErrTimeout       = Error("GATEWAY_TIMEOUT")
)

var (
	Errors = map[Error]RestError{
		ErrInvalidInput: {
			Code:  http.StatusBadRequest,
			Title: string(ErrInvalidInput),
		},
		ErrConflict: {
			Code:  http.StatusConflict,
			Title: string(ErrConflict),
		},
		ErrInternalError: {
			Code:  http.StatusInternalServerError,
			Title: string(ErrInternalError),
		},
		ErrBadGateway: {
			Code:  http.StatusBadGateway,
			Title: string(ErrBadGateway),
		},
		ErrTimeout: {
			Code:  http.StatusGatewayTimeout,
			Title: string(ErrTimeout),
		},
	}
)
