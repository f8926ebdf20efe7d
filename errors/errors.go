package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrInvalidToken       = fmt.Errorf("invalid or expired token")
	ErrSessionClosed      = fmt.Errorf("session closed")
	ErrSessionNotLive     = fmt.Errorf("session is not live")
	ErrSinkFull           = fmt.Errorf("session buffer full")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrCenterNotFound     = fmt.Errorf("center not found")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")
)

// MapToHTTPStatus translates domain errors to status codes at the HTTP
// boundary, so handlers never switch on sentinel values themselves.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidPassword), errors.Is(err, ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, ErrMessageNotFound), errors.Is(err, ErrCenterNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrSessionNotLive):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
