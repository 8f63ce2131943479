// Package xattr reads and writes Linux extended attributes. Every operation
// exists in three flavours: by path (Get, Set, ...), by path without
// following a final symlink (LGet, LSet, ...) and by open file descriptor
// (FGet, FSet, ...). Names are passed to the kernel verbatim, including their
// namespace prefix such as "user." or "security.".
package xattr

import (
	"bytes"
	"fmt"

	"github.com/restic/xattrctl/internal/debug"
)

// Mode selects how a set operation treats an existing attribute.
type Mode int

const (
	// ModeSet creates the attribute or replaces its value.
	ModeSet Mode = 0
	// ModeCreate fails with ErrExist if the attribute already exists.
	ModeCreate Mode = modeCreate
	// ModeReplace fails with ErrNotFound if the attribute does not exist.
	ModeReplace Mode = modeReplace
)

func (m Mode) String() string {
	switch m {
	case ModeSet:
		return "set"
	case ModeCreate:
		return "create"
	case ModeReplace:
		return "replace"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Fd is an open file. *os.File implements it.
type Fd interface {
	Fd() uintptr
}

type (
	setFunc    func(name string, value []byte, flags int) error
	getFunc    func(name string, dest []byte) (int, error)
	listFunc   func(dest []byte) (int, error)
	removeFunc func(name string) error
)

func set(op, path, name string, value []byte, mode Mode, call setFunc) error {
	if err := checkString("name", name); err != nil {
		return err
	}

	if err := call(name, value, int(mode)); err != nil {
		debug.Log("%v(%v, %v, %d bytes, %v): %v", op, path, name, len(value), mode, err)
		return &Error{Op: op, Path: path, Name: name, Err: err}
	}
	return nil
}

func get(op, path, name string, call getFunc) ([]byte, error) {
	if err := checkString("name", name); err != nil {
		return nil, err
	}

	buf, err := fetch(func(dest []byte) (int, error) {
		return call(name, dest)
	})
	if err != nil {
		debug.Log("%v(%v, %v): %v", op, path, name, err)
		return nil, &Error{Op: op, Path: path, Name: name, Err: err}
	}
	return buf, nil
}

func list(op, path string, call listFunc) ([]string, error) {
	buf, err := fetch(call)
	if err != nil {
		debug.Log("%v(%v): %v", op, path, err)
		return nil, &Error{Op: op, Path: path, Err: err}
	}
	return splitNames(buf), nil
}

func remove(op, path, name string, call removeFunc) error {
	if err := checkString("name", name); err != nil {
		return err
	}

	if err := call(name); err != nil {
		debug.Log("%v(%v, %v): %v", op, path, name, err)
		return &Error{Op: op, Path: path, Name: name, Err: err}
	}
	return nil
}

// fetch runs call once with an empty buffer to learn the required size and
// a second time with a buffer of exactly that size. A size of zero is a
// valid, empty result and needs no second call. Data that grows between the
// two calls makes the second one fail with ERANGE, which is returned as is.
func fetch(call func(dest []byte) (int, error)) ([]byte, error) {
	size, err := call(nil)
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, size)
	n, err := call(buf)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > size {
		return nil, ErrInvalidSize
	}

	debug.Log("fetched %d of %d bytes", n, size)
	return buf[:n], nil
}

// splitNames decodes the NUL-separated list returned by listxattr. Empty
// fragments are dropped, a last name without terminating NUL is kept.
func splitNames(buf []byte) []string {
	names := []string{}
	for len(buf) > 0 {
		i := bytes.IndexByte(buf, 0)
		if i < 0 {
			names = append(names, string(buf))
			break
		}
		if i > 0 {
			names = append(names, string(buf[:i]))
		}
		buf = buf[i+1:]
	}
	return names
}
