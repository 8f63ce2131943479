//go:build linux

package xattr

import "golang.org/x/sys/unix"

const (
	modeCreate  = unix.XATTR_CREATE
	modeReplace = unix.XATTR_REPLACE
)

var (
	errNoData       error = unix.ENODATA
	errExist        error = unix.EEXIST
	errNotSupported error = unix.ENOTSUP
)

func setxattr(path, name string, value []byte, flags int) error {
	return unix.Setxattr(path, name, value, flags)
}

func lsetxattr(path, name string, value []byte, flags int) error {
	return unix.Lsetxattr(path, name, value, flags)
}

func fsetxattr(fd int, name string, value []byte, flags int) error {
	return unix.Fsetxattr(fd, name, value, flags)
}

func getxattr(path, name string, dest []byte) (int, error) {
	return unix.Getxattr(path, name, dest)
}

func lgetxattr(path, name string, dest []byte) (int, error) {
	return unix.Lgetxattr(path, name, dest)
}

func fgetxattr(fd int, name string, dest []byte) (int, error) {
	return unix.Fgetxattr(fd, name, dest)
}

func listxattr(path string, dest []byte) (int, error) {
	return unix.Listxattr(path, dest)
}

func llistxattr(path string, dest []byte) (int, error) {
	return unix.Llistxattr(path, dest)
}

func flistxattr(fd int, dest []byte) (int, error) {
	return unix.Flistxattr(fd, dest)
}

func removexattr(path, name string) error {
	return unix.Removexattr(path, name)
}

func lremovexattr(path, name string) error {
	return unix.Lremovexattr(path, name)
}

func fremovexattr(fd int, name string) error {
	return unix.Fremovexattr(fd, name)
}
