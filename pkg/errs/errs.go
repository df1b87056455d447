package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the transport layer can map it to a
// status code without inspecting error strings.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidArgument
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a tagged error with a caller-facing message.
func E(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap tags an underlying error with a kind and message.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func NotFound(msg string) error        { return E(KindNotFound, msg) }
func Forbidden(msg string) error       { return E(KindForbidden, msg) }
func InvalidArgument(msg string) error { return E(KindInvalidArgument, msg) }
func Conflict(msg string) error        { return E(KindConflict, msg) }
func Internal(msg string, err error) error {
	return Wrap(KindInternal, msg, err)
}

// KindOf extracts the kind of an error; untagged errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
