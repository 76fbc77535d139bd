package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"PolicyPal/internal/domain"
)

// Error carries the HTTP status and machine-readable code for a failure.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From classifies err. Unknown errors become a 500 with a generic message.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidVoteStatus):
		return New(http.StatusBadRequest, "invalid_vote_status", err)
	case errors.Is(err, domain.ErrNothingToRemove):
		return New(http.StatusBadRequest, "no_vote_to_remove", err)
	case errors.Is(err, domain.ErrUnknownAttribute):
		return New(http.StatusBadRequest, "unknown_attribute", err)
	case errors.Is(err, domain.ErrInvalidInput):
		return New(http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return New(http.StatusUnauthorized, "invalid_credentials", err)
	case errors.Is(err, domain.ErrBillNotFound):
		return New(http.StatusNotFound, "bill_not_found", domain.ErrBillNotFound)
	case errors.Is(err, domain.ErrUserNotFound):
		return New(http.StatusNotFound, "user_not_found", domain.ErrUserNotFound)
	case errors.Is(err, domain.ErrUserExists):
		return New(http.StatusConflict, "user_exists", err)
	}
	return New(http.StatusInternalServerError, "internal", errors.New("internal server error"))
}
