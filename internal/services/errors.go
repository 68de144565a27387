package services

import (
	"errors"
	"fmt"
)

// ErrTooManyClients is returned when a snapshot exceeds the configured sanity cap.
var ErrTooManyClients = errors.New("too many clients")

// InvalidInputError describes a single client (or stop) that was left out of
// grouping or routing because its position is missing or unusable.
// It is reported alongside the result and never aborts the call.
type InvalidInputError struct {
	ClientID string
	Reason   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: client %q: %s", e.ClientID, e.Reason)
}

// ConfigurationError is returned when grouping or routing options are unusable.
// Nothing is computed when it is returned.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}
