package fetch

import (
	"context"
	"fmt"
	"time"
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindNetwork covers DNS, TLS, connection and request construction failures.
	KindNetwork Kind = iota
	// KindTimeout means the request did not complete within the client timeout.
	KindTimeout
	// KindStatus means the server answered with a non-2xx status.
	KindStatus
	// KindUnexpected covers failures while turning the body into a document.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Error is the only error type returned by Client.Scrape and Client.Get.
type Error struct {
	URL        string
	Kind       Kind
	StatusCode int
	// Timeout is set for KindTimeout.
	Timeout time.Duration
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("error fetching webpage: timed out after %s: %v", e.Timeout, e.Err)
	case KindUnexpected:
		return fmt.Sprintf("an unexpected error occurred: %v", e.Err)
	default:
		return fmt.Sprintf("error fetching webpage: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets timeouts match context.DeadlineExceeded even when the transport
// reported them through its own error type.
func (e *Error) Is(target error) bool {
	return e.Kind == KindTimeout && target == context.DeadlineExceeded
}
