// Package apperror carries the request-scoped error taxonomy surfaced to
// clients as {code, message, details}. Errors are plain values returned up
// the call chain and rendered once at the HTTP boundary.
package apperror

import (
	"fmt"
	"net/http"
)

const (
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnprocessable = "UNPROCESSABLE_ENTITY"
	CodeConflict      = "CONFLICT_ERROR"
)

type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func Validation(message string, details any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

func Unprocessable(message string, details any) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: CodeUnprocessable, Message: message, Details: details}
}

func Conflict(message string, details any) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeConflict, Message: message, Details: details}
}

// Internal is the fallback for errors that carry no taxonomy code.
func Internal(status int, message string) *Error {
	return &Error{Status: status, Code: fmt.Sprintf("ERROR_%d", status), Message: message}
}
