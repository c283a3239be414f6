package session

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthentication is matched by every terminal authentication failure returned by the client.
var ErrAuthentication = errors.New("authentication failed")

var (
	// ErrUnauthenticated is returned when a 401 is received and no refresh token is stored.
	ErrUnauthenticated error = &authError{msg: "unauthenticated: no refresh token available"}
	// ErrRenewalFailed is returned when the auth exchange rejected the refresh token.
	ErrRenewalFailed error = &authError{msg: "session renewal failed"}
	// ErrRetryExhausted is returned when the request is still refused after a successful renewal.
	ErrRetryExhausted error = &authError{msg: "request unauthorized after session renewal"}
)

// ErrExchangeRejected is matched by errors an Exchanger returns when the auth service
// refused the refresh token. Any other exchange error is treated as a transport failure.
var ErrExchangeRejected = errors.New("refresh token rejected")

type authError struct {
	msg string
}

func (e *authError) Error() string {
	return e.msg
}

func (e *authError) Is(target error) bool {
	return target == ErrAuthentication
}

// Operations reported by TransportError.
const (
	OpRequest  = "request"
	OpExchange = "exchange"
	OpRetry    = "retry"
)

// TransportError is a network level failure of one of the calls made for a request.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("session %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError is returned by exchangers when the auth service answered with a non-2xx status.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("refresh token rejected: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("refresh token rejected: %d %s", e.StatusCode, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrExchangeRejected
}
