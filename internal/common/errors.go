package common

import "errors"

// Error taxonomy surfaced by the chat service. Handlers map these onto HTTP
// status codes; lower layers wrap them with context via fmt.Errorf and %w.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidUserID      = errors.New("invalid user ID")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrTransientTransport = errors.New("realtime publish failed")
)
