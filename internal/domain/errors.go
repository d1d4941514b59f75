package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoModels means no model identifier is available, so submission is blocked.
	ErrNoModels = errors.New("no prediction models available")
	// ErrInvalidFieldValue means a raw value could not be parsed into its field type.
	ErrInvalidFieldValue = errors.New("invalid field value")
	// ErrUnknownField means the field name is not one of the thirteen attributes.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownModel means the model is not in the current model list.
	ErrUnknownModel = errors.New("unknown model")
)

// TransportError means no response reached the client.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Message holds the body's error text, if any.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("prediction backend returned status %d", e.Status)
	}
	return fmt.Sprintf("prediction backend returned status %d: %s", e.Status, e.Message)
}

// DecodeError is a 2xx response whose body does not carry a usable outcome.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode prediction response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
