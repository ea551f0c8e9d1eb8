package model

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	MsgSomethingWentWrong = "Something went wrong"
	MsgFailureTitle       = "Oops! Something Went Wrong"
	MsgFailureBody        = "We are having some trouble to complete your request. Please try again."
)

// ErrNetwork marks transport or decode failures talking to the remote API
var ErrNetwork = errors.New("network failure")

// ErrUnauthenticated is returned when a request carries no usable session token
var ErrUnauthenticated = errors.New("unauthenticated")

// AuthError is a rejected login. Message is the server supplied error_msg.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login rejected (%d): %s", e.StatusCode, e.Message)
}

// HTTPError is a non-2xx response from the remote API
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote api returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote api returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// UserMessage returns the text shown to the user for err
func UserMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return MsgSomethingWentWrong
}
