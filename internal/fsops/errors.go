package fsops

import (
	"errors"
	"fmt"
)

// Sentinel causes for precondition failures. Wrapped by *Error so callers
// can classify with errors.Is without inspecting kinds.
var (
	// ErrNotFound reports that a required input path does not exist as the
	// expected type (directory or regular file).
	ErrNotFound = errors.New("not found")

	// ErrExists reports that a destination path already exists and the
	// operation does not overwrite or merge.
	ErrExists = errors.New("already exists")
)

// errInvalidUTF8 is the cause attached to text reads of non-text payloads.
var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// Kind classifies an operation failure.
type Kind uint8

const (
	KindNotFound Kind = iota + 1
	KindExists
	KindCreate
	KindWrite
	KindRead
	KindRemove
	KindRename
	KindMove
	KindCopy
	KindList
	KindParse
	KindSerialize
)

// String returns the stable machine-readable identifier for the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindExists:
		return "already_exists"
	case KindCreate:
		return "create_error"
	case KindWrite:
		return "write_error"
	case KindRead:
		return "read_error"
	case KindRemove:
		return "remove_error"
	case KindRename:
		return "rename_error"
	case KindMove:
		return "move_error"
	case KindCopy:
		return "copy_error"
	case KindList:
		return "listing_error"
	case KindParse:
		return "parse_error"
	case KindSerialize:
		return "serialize_error"
	default:
		return "unknown_error"
	}
}

// Error is the structured failure returned by every operation in this
// package. It carries the operation name, a machine-readable kind, the
// path(s) involved and the underlying cause, if any.
type Error struct {
	Op   string // operation, e.g. "create_dir"
	Kind Kind
	Path string // primary path
	Dest string // destination path for two-path operations, empty otherwise
	Err  error  // wrapped cause
}

func (e *Error) Error() string {
	switch {
	case e.Dest != "" && e.Err != nil:
		return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Path, e.Dest, e.Err)
	case e.Dest != "":
		return fmt.Sprintf("%s %s -> %s: %s", e.Op, e.Path, e.Dest, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a missing-input failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsExists reports whether err is a destination-conflict failure.
func IsExists(err error) bool { return errors.Is(err, ErrExists) }

// KindOf extracts the failure kind, or zero if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// notFound builds the precondition failure for a missing input path.
func notFound(op, path string) *Error {
	return &Error{Op: op, Kind: KindNotFound, Path: path, Err: ErrNotFound}
}

// alreadyExists builds the precondition failure for an occupied destination.
func alreadyExists(op, src, dst string) *Error {
	return &Error{Op: op, Kind: KindExists, Path: src, Dest: dst, Err: ErrExists}
}

func opError(op string, kind Kind, path string, err error) *Error {
	return &Error{Op: op, Kind: kind, Path: path, Err: err}
}

func pairError(op string, kind Kind, src, dst string, err error) *Error {
	return &Error{Op: op, Kind: kind, Path: src, Dest: dst, Err: err}
}
