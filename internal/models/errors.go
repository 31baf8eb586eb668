package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures so the CLI can choose a message and exit code.
type ErrorKind int

const (
	// KindInvalidInput covers malformed or contradictory options.
	KindInvalidInput ErrorKind = iota + 1
	// KindFileDoesNotExist is returned when a file search names a missing id list.
	KindFileDoesNotExist
	// KindCatalog covers catalogs that cannot be opened, queried or rendered.
	KindCatalog
	// KindNoMatches is returned when every source was exhausted without a match.
	KindNoMatches
	// KindLink covers symlink creation failures.
	KindLink
	// KindArchive covers archive creation failures.
	KindArchive
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindFileDoesNotExist:
		return "file does not exist"
	case KindCatalog:
		return "catalog error"
	case KindNoMatches:
		return "no matches"
	case KindLink:
		return "link error"
	case KindArchive:
		return "archive error"
	default:
		return "unknown"
	}
}

// Error is the error type returned across package boundaries.
type Error struct {
	Kind    ErrorKind // Classification
	Op      string    // Operation or subject, e.g. a database or link name (optional)
	Message string    // Human-readable message
	Err     error     // Underlying error (optional)
}

// Error implements the error interface for Error.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error found in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// InvalidInputf creates an invalid input error.
func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NewFileDoesNotExist creates an error for a missing id list file.
func NewFileDoesNotExist(path string, err error) *Error {
	return &Error{Kind: KindFileDoesNotExist, Op: path, Message: "file does not exist", Err: err}
}

// NewCatalogError wraps a catalog failure for the given database or lane.
func NewCatalogError(op, msg string, err error) *Error {
	return &Error{Kind: KindCatalog, Op: op, Message: msg, Err: err}
}

// NewNoMatches creates the terminal error for an exhausted search.
func NewNoMatches(req SearchRequest) *Error {
	return &Error{Kind: KindNoMatches, Message: fmt.Sprintf("no matches found for %s %q", req.Type, req.ID)}
}

// NewLinkError wraps a failure to create one link.
func NewLinkError(name string, err error) *Error {
	return &Error{Kind: KindLink, Op: name, Message: "cannot create link", Err: err}
}

// NewArchiveError wraps a failure while building an archive.
func NewArchiveError(op string, err error) *Error {
	return &Error{Kind: KindArchive, Op: op, Message: "cannot create archive", Err: err}
}
