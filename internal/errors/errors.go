// Package errors provides the typed failures reported by the economy and gacha core.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a failure.
type Kind string

const (
	// KindValidation covers bad arguments: non-positive amounts, disallowed
	// target tiers, amounts off the conversion batch size.
	KindValidation Kind = "VALIDATION_FAILURE"

	// KindAffordability is reported when a wallet cannot cover a cost, even
	// after cascading through every eligible higher tier.
	KindAffordability Kind = "AFFORDABILITY_FAILURE"

	// KindConfiguration is reported at catalog load for malformed banners or ladders.
	KindConfiguration Kind = "CONFIGURATION_ERROR"
)

// Error is a failure with its kind and optional context.
type Error struct {
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds a key/value pair to the error and returns it.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new formatted error.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps cause with a kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Validation creates a validation failure.
func Validation(format string, args ...any) *Error {
	return Newf(KindValidation, format, args...)
}

// Affordability creates an affordability failure.
func Affordability(format string, args ...any) *Error {
	return Newf(KindAffordability, format, args...)
}

// Configuration creates a configuration error.
func Configuration(format string, args ...any) *Error {
	return Newf(KindConfiguration, format, args...)
}

// KindOf returns the kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err (or anything it wraps) has the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
