package storeapi

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrOrderRejected is returned when the order API explicitly refuses
	// the order (success:false with a message)
	ErrOrderRejected = errors.New("order rejected")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUnexpectedResponse is returned when the backend answers with a
	// shape this client does not recognize
	ErrUnexpectedResponse = errors.New("unexpected response shape")

	// ErrAuthFailed is returned when login or signup is refused
	ErrAuthFailed = errors.New("authentication failed")

	// ErrEmailTaken is returned when signup is refused for a duplicate account
	ErrEmailTaken = errors.New("email already registered")

	// ErrUnauthorized is returned when the stored token is missing or stale
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTrackingNotFound is returned when no order matches the tracking number
	ErrTrackingNotFound = errors.New("tracking number not found")
)
