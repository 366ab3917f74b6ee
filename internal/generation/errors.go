package generation

import (
	"errors"
	"fmt"
)

// Kind classifies why a generation call produced nothing usable.
type Kind string

const (
	// KindTransport covers connectivity, auth, quota and timeout failures.
	KindTransport Kind = "transport"
	// KindEmptyResponse means the call completed without usable content.
	KindEmptyResponse Kind = "empty_response"
	// KindSchemaMismatch means a structured reply did not fit the declared shape.
	KindSchemaMismatch Kind = "schema_mismatch"
)

// ErrEmptyResponse is returned by providers that got a reply with no text.
var ErrEmptyResponse = errors.New("generation: empty response")

// Error is the only error type Client returns.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("generation: %s", e.Kind)
	}
	return fmt.Sprintf("generation: %s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// KindOf maps any error onto the taxonomy. Errors that did not come from this
// package are treated as transport failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	if errors.Is(err, ErrEmptyResponse) {
		return KindEmptyResponse
	}
	return KindTransport
}

// classifyProviderError wraps a provider failure with its kind.
func classifyProviderError(err error) *Error {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr
	}
	if errors.Is(err, ErrEmptyResponse) {
		return newError(KindEmptyResponse, err)
	}
	return newError(KindTransport, err)
}
