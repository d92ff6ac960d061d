package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNothingSelected = errors.New("nothing selected")
	ErrAlreadyFavorite = errors.New("product is already in favorites")
	ErrNotFavorite     = errors.New("product is not in favorites")
	ErrListNotFound    = errors.New("favorite list not found")
	ErrConflict        = errors.New("resource already exists")
	ErrSessionExpired  = errors.New("session expired")
)

// GatewayError is a normalized non-2xx response from the backend.
// Message holds the server-provided message when one could be decoded.
type GatewayError struct {
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("gateway: %d", e.Status)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// ErrorMessage extracts the best user-facing message for err: the
// server-provided message if the gateway supplied one, else fallback.
func ErrorMessage(err error, fallback string) string {
	var ge *GatewayError
	if errors.As(err, &ge) && ge.Message != "" {
		return ge.Message
	}
	return fallback
}
