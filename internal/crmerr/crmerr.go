// Package crmerr defines the closed set of error kinds used across the
// catalog manager. Errors are a typed sum, not exceptions for control flow:
// every kind carries a stable machine-readable code and a human message, so
// the CLI can map it to an exit code and the browser can map it to a
// recovery dialog without inspecting strings.
package crmerr

import (
	"errors"
	"fmt"
	"time"
)

// Kind is a closed enumeration of error categories.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindDecode             Kind = "decode"
	KindCyclicDependency  Kind = "cyclic_dependency"
	KindDependencyDepth   Kind = "dependency_depth"
	KindMissingDependency Kind = "missing_dependency"
	KindPathSecurity      Kind = "path_security"
	KindNetwork           Kind = "network"
	KindCache             Kind = "cache"
	KindCancelled         Kind = "cancelled"
)

// Error is the concrete error type for every kind above.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	Field      string // set for ValidationError: dotted field path
	RetryAfter *time.Duration
	Cause      error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", e.Code, e.Message, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func newErr(kind Kind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func NotFound(code, msg string) *Error {
	return newErr(KindNotFound, code, msg, nil)
}

func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Code: "E_VALIDATION", Message: msg, Field: field}
}

func Decode(msg string, cause error) *Error {
	return newErr(KindDecode, "E_DECODE", msg, cause)
}

func CyclicDependency(path []string) *Error {
	return &Error{Kind: KindCyclicDependency, Code: "E_CYCLE", Message: fmt.Sprintf("cyclic dependency: %v", path)}
}

func DependencyDepth(chain []string, limit int) *Error {
	return &Error{Kind: KindDependencyDepth, Code: "E_DEPTH", Message: fmt.Sprintf("dependency depth exceeds %d: %v", limit, chain)}
}

func MissingDependency(id string) *Error {
	return &Error{Kind: KindMissingDependency, Code: "E_MISSING_DEP", Message: fmt.Sprintf("missing dependency: %s", id)}
}

func PathSecurity(path, reason string) *Error {
	return &Error{Kind: KindPathSecurity, Code: "E_PATH_SECURITY", Message: fmt.Sprintf("%s: %s", reason, path)}
}

func Network(msg string, retryAfter *time.Duration, cause error) *Error {
	e := newErr(KindNetwork, "E_NETWORK", msg, cause)
	e.RetryAfter = retryAfter
	return e
}

func Cache(msg string, cause error) *Error {
	return newErr(KindCache, "E_CACHE", msg, cause)
}

// Cancelled reports that the caller cancelled an in-flight operation.
var Cancelled = &Error{Kind: KindCancelled, Code: "E_CANCELLED", Message: "operation cancelled"}

// ExitCode maps a Kind to the process exit code contract.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if !errors.As(err, &e) {
		return 1
	}
	switch e.Kind {
	case KindValidation:
		return 2
	case KindNotFound:
		return 3
	case KindCyclicDependency, KindDependencyDepth:
		return 4
	case KindNetwork:
		return 5
	case KindPathSecurity:
		return 6
	default:
		return 1
	}
}

// Recoverable reports whether the browser can offer retry/skip rather than
// treating the error as fatal for the current action.
func Recoverable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindNetwork, KindMissingDependency:
		return true
	default:
		return false
	}
}
