package messaging

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError indicates the request is missing required fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid send request"
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// NotReadyError indicates the session cannot send yet. Callers should retry later.
type NotReadyError struct {
	State string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("whatsapp session not ready (state %s)", e.State)
}

// DeliveryError wraps a failure reported by the chat network when sending.
type DeliveryError struct {
	Destination string
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send message to %s: %v", e.Destination, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Reason is the underlying failure message, without the destination.
func (e *DeliveryError) Reason() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

func isValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	ok := errors.As(err, &target)
	return target, ok
}

func isNotReadyError(err error) (*NotReadyError, bool) {
	var target *NotReadyError
	ok := errors.As(err, &target)
	return target, ok
}

func isDeliveryError(err error) (*DeliveryError, bool) {
	var target *DeliveryError
	ok := errors.As(err, &target)
	return target, ok
}
