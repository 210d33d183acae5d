package openapi

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument is returned when no document bytes are supplied.
	ErrEmptyDocument = errors.New("openapi: document payload is empty")
	// ErrOperationNotFound is returned when the document has no matching
	// operation.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrRequestBodyMissing is returned when the operation declares no JSON
	// object body.
	ErrRequestBodyMissing = errors.New("openapi: request body schema missing")
)

// DriftKind classifies one difference between the local schema and the
// service contract.
type DriftKind string

const (
	// DriftMissing marks an attribute the service does not accept.
	DriftMissing DriftKind = "missing"
	// DriftExtra marks a service property the local schema never sends.
	DriftExtra DriftKind = "extra"
	// DriftType marks a numeric attribute the service types as text, or the
	// reverse.
	DriftType DriftKind = "type"
	// DriftEnum marks categorical codes that differ.
	DriftEnum DriftKind = "enum"
	// DriftRange marks a min or max bound that differs.
	DriftRange DriftKind = "range"
)

// Drift is one reported difference. Local and Remote hold short descriptions
// of each side.
type Drift struct {
	Key    string    `json:"key"`
	Kind   DriftKind `json:"kind"`
	Local  string    `json:"local,omitempty"`
	Remote string    `json:"remote,omitempty"`
}

func (d Drift) String() string {
	switch d.Kind {
	case DriftMissing:
		return fmt.Sprintf("%s: not accepted by the service", d.Key)
	case DriftExtra:
		if d.Remote != "" {
			return fmt.Sprintf("%s: required by the service (%s) but not collected", d.Key, d.Remote)
		}
		return fmt.Sprintf("%s: accepted by the service but not collected", d.Key)
	default:
		return fmt.Sprintf("%s: %s differs (local %s, service %s)", d.Key, d.Kind, d.Local, d.Remote)
	}
}
