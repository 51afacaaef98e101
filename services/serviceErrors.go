package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured business failure carrying the HTTP status the
// controller layer should respond with. Expected failures (validation,
// forbidden, not-found, conflict) are returned as values; only genuinely
// unexpected faults surface as 500s.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func ErrValidation(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Message: message}
}

func ErrUnauthorized(message string) *Error {
	return &Error{StatusCode: http.StatusUnauthorized, Message: message}
}

func ErrForbidden(message string) *Error {
	return &Error{StatusCode: http.StatusForbidden, Message: message}
}

func ErrNotFound(message string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Message: message}
}

func ErrConflict(message string) *Error {
	return &Error{StatusCode: http.StatusConflict, Message: message}
}

func ErrInternal(message string, err error) *Error {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return &Error{StatusCode: http.StatusInternalServerError, Message: message}
}

// StatusOf maps any error to a status code and message for the response
// envelope. Non-service errors are treated as internal failures.
func StatusOf(err error) (int, string) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.StatusCode, svcErr.Message
	}
	return http.StatusInternalServerError, err.Error()
}

// Caller identifies the authenticated request actor, taken from verified
// token claims and never from client input.
type Caller struct {
	UserID   int64
	TenantID int64
	Role     string
}
