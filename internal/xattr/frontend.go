package xattr

import (
	"runtime"
	"strconv"
)

// Set associates value with name on path, creating or replacing the
// attribute. Symlinks are followed.
func Set(path, name string, value []byte) error {
	return SetWithMode(path, name, value, ModeSet)
}

// Create is like Set but fails with ErrExist if the attribute exists.
func Create(path, name string, value []byte) error {
	return SetWithMode(path, name, value, ModeCreate)
}

// Replace is like Set but fails with ErrNotFound if the attribute is missing.
func Replace(path, name string, value []byte) error {
	return SetWithMode(path, name, value, ModeReplace)
}

// SetWithMode associates value with name on path according to mode.
func SetWithMode(path, name string, value []byte, mode Mode) error {
	if err := checkString("path", path); err != nil {
		return err
	}
	return set("xattr.set", path, name, value, mode, func(name string, value []byte, flags int) error {
		return setxattr(path, name, value, flags)
	})
}

// LSet is like Set but does not follow a symlink at path.
func LSet(path, name string, value []byte) error {
	return LSetWithMode(path, name, value, ModeSet)
}

// LCreate is like Create but does not follow a symlink at path.
func LCreate(path, name string, value []byte) error {
	return LSetWithMode(path, name, value, ModeCreate)
}

// LReplace is like Replace but does not follow a symlink at path.
func LReplace(path, name string, value []byte) error {
	return LSetWithMode(path, name, value, ModeReplace)
}

// LSetWithMode is like SetWithMode but does not follow a symlink at path.
func LSetWithMode(path, name string, value []byte, mode Mode) error {
	if err := checkString("path", path); err != nil {
		return err
	}
	return set("xattr.lset", path, name, value, mode, func(name string, value []byte, flags int) error {
		return lsetxattr(path, name, value, flags)
	})
}

// FSet is like Set but operates on an open file.
func FSet(f Fd, name string, value []byte) error {
	return FSetWithMode(f, name, value, ModeSet)
}

// FCreate is like Create but operates on an open file.
func FCreate(f Fd, name string, value []byte) error {
	return FSetWithMode(f, name, value, ModeCreate)
}

// FReplace is like Replace but operates on an open file.
func FReplace(f Fd, name string, value []byte) error {
	return FSetWithMode(f, name, value, ModeReplace)
}

// FSetWithMode is like SetWithMode but operates on an open file.
func FSetWithMode(f Fd, name string, value []byte, mode Mode) error {
	fd := descriptor(f)
	err := set("xattr.fset", fdName(f, fd), name, value, mode, func(name string, value []byte, flags int) error {
		return fsetxattr(fd, name, value, flags)
	})
	// f may close the descriptor in a finalizer
	runtime.KeepAlive(f)
	return err
}

// Get returns the value of the attribute name of path. Symlinks are
// followed. A missing attribute is reported as ErrNotFound, an attribute
// with an empty value as an empty, non-nil slice.
func Get(path, name string) ([]byte, error) {
	if err := checkString("path", path); err != nil {
		return nil, err
	}
	return get("xattr.get", path, name, func(name string, dest []byte) (int, error) {
		return getxattr(path, name, dest)
	})
}

// LGet is like Get but does not follow a symlink at path.
func LGet(path, name string) ([]byte, error) {
	if err := checkString("path", path); err != nil {
		return nil, err
	}
	return get("xattr.lget", path, name, func(name string, dest []byte) (int, error) {
		return lgetxattr(path, name, dest)
	})
}

// FGet is like Get but operates on an open file.
func FGet(f Fd, name string) ([]byte, error) {
	fd := descriptor(f)
	value, err := get("xattr.fget", fdName(f, fd), name, func(name string, dest []byte) (int, error) {
		return fgetxattr(fd, name, dest)
	})
	runtime.KeepAlive(f)
	return value, err
}

// List returns the names of all attributes of path in the order reported by
// the kernel. Symlinks are followed.
func List(path string) ([]string, error) {
	if err := checkString("path", path); err != nil {
		return nil, err
	}
	return list("xattr.list", path, func(dest []byte) (int, error) {
		return listxattr(path, dest)
	})
}

// LList is like List but does not follow a symlink at path.
func LList(path string) ([]string, error) {
	if err := checkString("path", path); err != nil {
		return nil, err
	}
	return list("xattr.llist", path, func(dest []byte) (int, error) {
		return llistxattr(path, dest)
	})
}

// FList is like List but operates on an open file.
func FList(f Fd) ([]string, error) {
	fd := descriptor(f)
	names, err := list("xattr.flist", fdName(f, fd), func(dest []byte) (int, error) {
		return flistxattr(fd, dest)
	})
	runtime.KeepAlive(f)
	return names, err
}

// Remove deletes the attribute name from path. Symlinks are followed.
func Remove(path, name string) error {
	if err := checkString("path", path); err != nil {
		return err
	}
	return remove("xattr.remove", path, name, func(name string) error {
		return removexattr(path, name)
	})
}

// LRemove is like Remove but does not follow a symlink at path.
func LRemove(path, name string) error {
	if err := checkString("path", path); err != nil {
		return err
	}
	return remove("xattr.lremove", path, name, func(name string) error {
		return lremovexattr(path, name)
	})
}

// FRemove is like Remove but operates on an open file.
func FRemove(f Fd, name string) error {
	fd := descriptor(f)
	err := remove("xattr.fremove", fdName(f, fd), name, func(name string) error {
		return fremovexattr(fd, name)
	})
	runtime.KeepAlive(f)
	return err
}

// descriptor returns the descriptor number of f. A nil f maps to -1, which
// the kernel rejects with EBADF.
func descriptor(f Fd) int {
	if f == nil {
		return -1
	}
	return int(f.Fd())
}

// fdName returns the name used for f in error messages.
func fdName(f Fd, fd int) string {
	if n, ok := f.(interface{ Name() string }); ok && fd >= 0 {
		return n.Name()
	}
	return "fd " + strconv.Itoa(fd)
}
