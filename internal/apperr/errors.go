package apperr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies a failure so callers can map it to a response without string matching.
type Kind string

const (
	KindInvalidInput         Kind = "INVALID_INPUT"
	KindNoConcepts           Kind = "NO_CONCEPTS"
	KindEmbeddingUnavailable Kind = "EMBEDDING_UNAVAILABLE"
	KindInternal             Kind = "INTERNAL"
	KindNotFound             Kind = "NOT_FOUND"
	KindRateLimited          Kind = "RATE_LIMITED"
)

// Error is the single failure signal a mindmap request produces.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNoConcepts:
		return http.StatusUnprocessableEntity
	case KindEmbeddingUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// InvalidInput rejects a request before the pipeline runs.
func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// NoConceptsFound reports that extraction left nothing to cluster.
func NoConceptsFound() *Error {
	return &Error{Kind: KindNoConcepts, Message: "no meaningful concepts found in the text"}
}

// EmbeddingUnavailable wraps an embedder that is missing or failed.
func EmbeddingUnavailable(cause error) *Error {
	return &Error{Kind: KindEmbeddingUnavailable, Message: "embedding service unavailable", Cause: cause}
}

// Internal wraps an unexpected failure and records where it was observed.
func Internal(cause error) *Error {
	if cause == nil {
		cause = errors.New("unknown failure")
	}
	return &Error{Kind: KindInternal, Message: "internal pipeline error", Cause: pkgerrors.WithStack(cause)}
}

// NotFound reports a missing stored resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// RateLimited rejects a client that exceeded its request budget.
func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Message: "Too many requests. Try again later."}
}

// KindOf returns the kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// As extracts the typed error, wrapping foreign errors as internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
