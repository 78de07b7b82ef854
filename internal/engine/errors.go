package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a core failure for its handling policy.
type ErrorKind int

const (
	// KindValidation is bad input; surfaced to the user, never retried.
	KindValidation ErrorKind = iota
	// KindTransientIO is retried with backoff before notifying.
	KindTransientIO
	// KindUnsupported is a missing compositor capability; logged once,
	// then degraded.
	KindUnsupported
	// KindCorruptSession drops the snapshot and keeps an empty board.
	KindCorruptSession
	// KindInvariant is a bug; logged and skipped in release builds.
	KindInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransientIO:
		return "transient-io"
	case KindUnsupported:
		return "unsupported"
	case KindCorruptSession:
		return "corrupt-session"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// CoreError is a classified failure flowing out of the event loop.
type CoreError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *CoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CoreError) Unwrap() error { return e.Err }

// coreErr wraps err with a kind and operation name.
func coreErr(kind ErrorKind, op string, err error) *CoreError {
	return &CoreError{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the classification from an error chain,
// KindTransientIO when unclassified.
func KindOf(err error) ErrorKind {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindTransientIO
}
