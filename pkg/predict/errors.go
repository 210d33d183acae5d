package predict

import (
	"errors"
	"fmt"
)

// DefaultFailureMessage is shown when the service rejects a request without a
// readable reason.
const DefaultFailureMessage = "Prediction failed"

// ErrBaseURLRequired is returned when a client is built without a service URL.
var ErrBaseURLRequired = errors.New("predict: base URL is required")

// TransportError reports that no response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e == nil || e.Err == nil {
		return "predict: transport failure"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ServiceError reports a non-2xx response. Message holds the service detail
// or DefaultFailureMessage.
type ServiceError struct {
	Op      string
	Status  int
	Message string
	// Fields maps validation locations reported by the service (for example
	// "body.age") to their messages.
	Fields map[string][]string
}

func (e *ServiceError) Error() string {
	if e == nil {
		return DefaultFailureMessage
	}
	if e.Message == "" {
		return DefaultFailureMessage
	}
	return e.Message
}

// DecodeError reports a response body that does not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	if e == nil || e.Err == nil {
		return "predict: malformed response"
	}
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FailureMessage collapses any prediction failure into the text shown to the
// user. Transport and decode failures carry the underlying message; service
// failures carry the detail reported by the service.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Error()
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Error()
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultFailureMessage
}

// FailureFields returns the per-field messages carried by a service failure.
func FailureFields(err error) map[string][]string {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Fields
	}
	return nil
}

func describe(op string, status int) string {
	return fmt.Sprintf("%s returned HTTP %d", op, status)
}
