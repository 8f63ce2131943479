package xattr

import "fmt"

type addressing int

const (
	byPath addressing = iota
	byLink
	byFile
)

// Target is a filesystem object carrying extended attributes, addressed by
// path, by path without following a final symlink, or by open file. The zero
// value addresses the empty path.
type Target struct {
	addressing addressing
	path       string
	file       Fd
}

// Path returns a Target for path, following symlinks.
func Path(path string) Target {
	return Target{addressing: byPath, path: path}
}

// Link returns a Target for path that does not follow a symlink at path.
func Link(path string) Target {
	return Target{addressing: byLink, path: path}
}

// File returns a Target for an open file. Operations on a nil f fail with
// EBADF.
func File(f Fd) Target {
	return Target{addressing: byFile, file: f}
}

func (t Target) String() string {
	switch t.addressing {
	case byLink:
		return t.path + " (no dereference)"
	case byFile:
		return fdName(t.file, descriptor(t.file))
	}
	return t.path
}

// Set associates value with name, creating or replacing the attribute.
func (t Target) Set(name string, value []byte) error {
	return t.SetWithMode(name, value, ModeSet)
}

// Create associates value with name, failing with ErrExist if the
// attribute exists.
func (t Target) Create(name string, value []byte) error {
	return t.SetWithMode(name, value, ModeCreate)
}

// Replace associates value with name, failing with ErrNotFound if the
// attribute is missing.
func (t Target) Replace(name string, value []byte) error {
	return t.SetWithMode(name, value, ModeReplace)
}

// SetWithMode associates value with name according to mode.
func (t Target) SetWithMode(name string, value []byte, mode Mode) error {
	switch t.addressing {
	case byPath:
		return SetWithMode(t.path, name, value, mode)
	case byLink:
		return LSetWithMode(t.path, name, value, mode)
	case byFile:
		return FSetWithMode(t.file, name, value, mode)
	}
	panic(fmt.Sprintf("invalid addressing %d", t.addressing))
}

// Get returns the value of the attribute name.
func (t Target) Get(name string) ([]byte, error) {
	switch t.addressing {
	case byPath:
		return Get(t.path, name)
	case byLink:
		return LGet(t.path, name)
	case byFile:
		return FGet(t.file, name)
	}
	panic(fmt.Sprintf("invalid addressing %d", t.addressing))
}

// List returns the names of all attributes.
func (t Target) List() ([]string, error) {
	switch t.addressing {
	case byPath:
		return List(t.path)
	case byLink:
		return LList(t.path)
	case byFile:
		return FList(t.file)
	}
	panic(fmt.Sprintf("invalid addressing %d", t.addressing))
}

// Remove deletes the attribute name.
func (t Target) Remove(name string) error {
	switch t.addressing {
	case byPath:
		return Remove(t.path, name)
	case byLink:
		return LRemove(t.path, name)
	case byFile:
		return FRemove(t.file, name)
	}
	panic(fmt.Sprintf("invalid addressing %d", t.addressing))
}
