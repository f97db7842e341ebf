package worksync

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidRequestType = errors.New("invalid request type")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// Status is the lifecycle state of a Request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusOrdered   Status = "ordered"
	StatusDelivered Status = "delivered"
	// StatusCompleted is only used by list filters and the suggestion view; it is never a stored request status.
	StatusCompleted Status = "completed"
)

// Statuses lists every known status in display order.
var Statuses = []Status{
	StatusPending,
	StatusApproved,
	StatusDenied,
	StatusDelivered,
	StatusOrdered,
	StatusCompleted,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusOrdered, StatusDelivered, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// UnmarshalJSON rejects unknown status strings. An empty string decodes to the zero value
// so that partial payloads can omit the status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, string(data))
	}
	if raw == "" {
		*s = ""
		return nil
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// RequestType classifies a Request.
type RequestType string

const (
	RequestTypeSupply      RequestType = "supply"
	RequestTypeMaintenance RequestType = "maintenance"
	// RequestTypeSuggestion only appears on legacy records. New requests cannot use it.
	RequestTypeSuggestion RequestType = "suggestion"
)

func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeSupply, RequestTypeMaintenance, RequestTypeSuggestion:
		return true
	}
	return false
}

// Creatable reports whether new requests may be raised with this type.
func (t RequestType) Creatable() bool {
	return t == RequestTypeSupply || t == RequestTypeMaintenance
}

func (t *RequestType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequestType, string(data))
	}
	if raw == "" {
		*t = ""
		return nil
	}
	rt := RequestType(raw)
	if !rt.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRequestType, raw)
	}
	*t = rt
	return nil
}
