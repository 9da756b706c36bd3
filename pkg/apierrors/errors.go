// Package apierrors defines the error taxonomy shared by every ReCiSt
// component, mirroring the RecistError enum of the original implementation.
package apierrors

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers can branch on failure category
// without string-matching messages.
type Kind string

const (
	KindClusterAPI            Kind = "ClusterAPI"
	KindMetricsBackend        Kind = "MetricsBackend"
	KindLogBackend            Kind = "LogBackend"
	KindLLM                   Kind = "LLM"
	KindVectorStore           Kind = "VectorStore"
	KindCache                 Kind = "Cache"
	KindHTTP                  Kind = "HTTP"
	KindJSON                  Kind = "JSON"
	KindConfig                Kind = "Config"
	KindEventBus              Kind = "EventBus"
	KindDiagnosis             Kind = "Diagnosis"
	KindHealing               Kind = "Healing"
	KindTimeout               Kind = "Timeout"
	KindNotFound              Kind = "NotFound"
	KindInvalidStateTransition Kind = "InvalidStateTransition"
	KindValidation            Kind = "Validation"
	KindInternal              Kind = "Internal"
)

// Error is the concrete error type returned by every ReCiSt package.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is(err, apierrors.New(kind, "")) to match on Kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func ClusterAPI(format string, args ...any) *Error {
	return New(KindClusterAPI, fmt.Sprintf(format, args...))
}

func WrapClusterAPI(cause error, format string, args ...any) *Error {
	return Wrap(KindClusterAPI, fmt.Sprintf(format, args...), cause)
}

func MetricsBackend(format string, args ...any) *Error {
	return New(KindMetricsBackend, fmt.Sprintf(format, args...))
}

func WrapMetricsBackend(cause error, format string, args ...any) *Error {
	return Wrap(KindMetricsBackend, fmt.Sprintf(format, args...), cause)
}

func LogBackend(format string, args ...any) *Error {
	return New(KindLogBackend, fmt.Sprintf(format, args...))
}

func WrapLogBackend(cause error, format string, args ...any) *Error {
	return Wrap(KindLogBackend, fmt.Sprintf(format, args...), cause)
}

func LLM(format string, args ...any) *Error {
	return New(KindLLM, fmt.Sprintf(format, args...))
}

func WrapLLM(cause error, format string, args ...any) *Error {
	return Wrap(KindLLM, fmt.Sprintf(format, args...), cause)
}

func VectorStore(format string, args ...any) *Error {
	return New(KindVectorStore, fmt.Sprintf(format, args...))
}

func WrapVectorStore(cause error, format string, args ...any) *Error {
	return Wrap(KindVectorStore, fmt.Sprintf(format, args...), cause)
}

func Cache(format string, args ...any) *Error {
	return New(KindCache, fmt.Sprintf(format, args...))
}

func WrapCache(cause error, format string, args ...any) *Error {
	return Wrap(KindCache, fmt.Sprintf(format, args...), cause)
}

func HTTP(format string, args ...any) *Error {
	return New(KindHTTP, fmt.Sprintf(format, args...))
}

func JSON(format string, args ...any) *Error {
	return New(KindJSON, fmt.Sprintf(format, args...))
}

func WrapJSON(cause error, format string, args ...any) *Error {
	return Wrap(KindJSON, fmt.Sprintf(format, args...), cause)
}

func Config(format string, args ...any) *Error {
	return New(KindConfig, fmt.Sprintf(format, args...))
}

func WrapConfig(cause error, format string, args ...any) *Error {
	return Wrap(KindConfig, fmt.Sprintf(format, args...), cause)
}

func EventBus(format string, args ...any) *Error {
	return New(KindEventBus, fmt.Sprintf(format, args...))
}

func Diagnosis(format string, args ...any) *Error {
	return New(KindDiagnosis, fmt.Sprintf(format, args...))
}

func Healing(format string, args ...any) *Error {
	return New(KindHealing, fmt.Sprintf(format, args...))
}

func Timeout(format string, args ...any) *Error {
	return New(KindTimeout, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func InvalidStateTransition(from, to string) *Error {
	return New(KindInvalidStateTransition, fmt.Sprintf("cannot transition from %s to %s", from, to))
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func Internal(format string, args ...any) *Error {
	return New(KindInternal, fmt.Sprintf(format, args...))
}

// IsKind reports whether err (or any error it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
