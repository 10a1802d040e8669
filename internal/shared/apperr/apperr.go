package apperr

import (
	"errors"
	"net/http"
)

// Kinds form the closed error taxonomy rendered at the HTTP boundary.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrValidation          = errors.New("validation error")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrGenerationFailed    = errors.New("generation failed")
	ErrAttachmentFetch     = errors.New("attachment fetch failed")
	ErrSendFailed          = errors.New("send failed")
)

var kinds = []error{
	ErrNotFound,
	ErrConflict,
	ErrValidation,
	ErrUnauthorized,
	ErrUnsupportedProvider,
	ErrProviderUnavailable,
	ErrGenerationFailed,
	ErrAttachmentFetch,
	ErrSendFailed,
}

// Error is a taxonomy error carrying a user-facing message and an optional cause.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Is matches the error against its kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an error of the given kind.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap returns an error of the given kind wrapping cause.
func Wrap(kind error, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// NotFound is shorthand for New(ErrNotFound, msg).
func NotFound(msg string) error { return New(ErrNotFound, msg) }

// Conflict is shorthand for New(ErrConflict, msg).
func Conflict(msg string) error { return New(ErrConflict, msg) }

// Validation is shorthand for New(ErrValidation, msg).
func Validation(msg string) error { return New(ErrValidation, msg) }

// KindOf returns the taxonomy kind of err, or nil for unclassified errors.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns the user-facing message of the outermost taxonomy error.
// Causes are never included; they belong in logs.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		return e.Kind.Error()
	}
	if k := KindOf(err); k != nil {
		return k.Error()
	}
	return "internal server error"
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Code maps err to a stable machine-readable code.
func Code(err error) string {
	switch KindOf(err) {
	case ErrNotFound:
		return "not_found"
	case ErrConflict:
		return "conflict"
	case ErrValidation:
		return "validation_error"
	case ErrUnauthorized:
		return "unauthorized"
	case ErrUnsupportedProvider:
		return "unsupported_provider"
	case ErrProviderUnavailable:
		return "provider_unavailable"
	case ErrGenerationFailed:
		return "generation_failed"
	case ErrAttachmentFetch:
		return "attachment_fetch_failed"
	case ErrSendFailed:
		return "send_failed"
	default:
		return "internal_error"
	}
}
