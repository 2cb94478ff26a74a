package accommodation

import (
	"errors"
	"fmt"
)

// ErrorKind is a coarse-grained categorization of generation failures.
type ErrorKind string

const (
	// KindConfiguration means the provider credential is missing. No network call was made.
	KindConfiguration ErrorKind = "configuration"
	// KindTransport covers network failures, timeouts and undecodable envelopes.
	KindTransport ErrorKind = "transport"
	// KindUpstreamStatus means the remote service answered with a non-success status.
	KindUpstreamStatus ErrorKind = "upstream_status"
	// KindUnparseable means no parsing strategy could recover an array from the reply.
	KindUnparseable ErrorKind = "unparseable"
	// KindInvalidShape means an array was recovered but it was empty.
	KindInvalidShape ErrorKind = "invalid_shape"
)

// GenerationError carries a human-readable cause, the raw reply when one was
// received, and the diagnostic trace collected up to the failure.
type GenerationError struct {
	Kind  ErrorKind
	Msg   string
	Raw   string
	Trace *Trace
	Err   error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("generate accommodations: %s", e.Msg)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without inspecting messages.
func IsKind(err error, kind ErrorKind) bool {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind == kind
	}
	return false
}
