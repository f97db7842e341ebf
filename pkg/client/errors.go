package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindTransport means no usable response arrived: network failure, timeout or an unreadable body.
	KindTransport Kind = iota + 1
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindAuthExpired means the session is no longer valid and the user must be signed out.
	KindAuthExpired
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindAuthExpired:
		return "auth expired"
	}
	return "unknown"
}

// Error is returned by every façade call that does not succeed.
type Error struct {
	Kind       Kind
	Op         string // "METHOD /path"
	StatusCode int
	Message    string
	// RedirectURL is where the user should be sent on KindAuthExpired.
	RedirectURL string
	Err         error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case KindAuthExpired:
		return fmt.Sprintf("%s: session expired, redirect to %s", e.Op, e.RedirectURL)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a façade error, or 0 when err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsAuthExpired(err error) bool {
	return KindOf(err) == KindAuthExpired
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
