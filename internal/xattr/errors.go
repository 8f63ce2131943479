package xattr

import (
	"fmt"
	"strings"

	"github.com/restic/xattrctl/internal/errors"
)

var (
	// ErrNotFound is matched by errors.Is for failures caused by a missing
	// attribute (ENODATA).
	ErrNotFound = errors.New("attribute not found")

	// ErrExist is matched by errors.Is when a create-only set hits an
	// attribute that already exists (EEXIST).
	ErrExist = errors.New("attribute already exists")

	// ErrInvalidSize is returned when a syscall reports more data than the
	// buffer it was given can hold.
	ErrInvalidSize = errors.New("invalid size returned by syscall")
)

// Error records a failed extended attribute operation. Err holds the errno
// reported by the OS (or ErrInvalidSize).
type Error struct {
	Op   string
	Path string
	Name string
	Err  error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	}
	if e.Name != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Name)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is classifies the errno carried by e, so that errors.Is(err, ErrNotFound)
// and errors.Is(err, ErrExist) work without inspecting errno values.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return errors.Is(e.Err, errNoData)
	case ErrExist:
		return errors.Is(e.Err, errExist)
	}
	return false
}

// EncodingError is returned when a path or an attribute name cannot be
// passed to the kernel because it contains a NUL byte.
type EncodingError struct {
	Field string // "path" or "name"
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("xattr: %s %q contains a NUL byte", e.Field, e.Value)
}

// IsNotFound reports whether err was caused by a missing attribute.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsExist reports whether err was caused by an attribute that already exists.
func IsExist(err error) bool {
	return errors.Is(err, ErrExist)
}

// IsNotSupported reports whether err was caused by a filesystem (or
// platform) without extended attribute support.
func IsNotSupported(err error) bool {
	return errors.Is(err, errNotSupported) || errors.Is(err, errors.ErrUnsupported)
}

func checkString(field, s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return &EncodingError{Field: field, Value: s}
	}
	return nil
}
