package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

const MsgInternal = "Internal server error."

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the only error shape written to clients.
type APIError struct {
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func NewError(status int, msg string) *APIError {
	return &APIError{Status: status, Message: msg}
}

func BadRequest(msg string) *APIError   { return NewError(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *APIError { return NewError(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *APIError    { return NewError(http.StatusForbidden, msg) }
func NotFound(msg string) *APIError     { return NewError(http.StatusNotFound, msg) }

// AsAPIError unwraps err into an APIError, falling back to a bare 500.
func AsAPIError(err error) *APIError {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}
	return NewError(http.StatusInternalServerError, MsgInternal)
}
