//go:build !linux

package xattr

import "github.com/restic/xattrctl/internal/errors"

// Values of XATTR_CREATE and XATTR_REPLACE, kept so that Mode has the same
// meaning everywhere.
const (
	modeCreate  = 0x1
	modeReplace = 0x2
)

var (
	errNoData       = errors.New("no data available")
	errExist        = errors.New("file exists")
	errNotSupported = errors.ErrUnsupported
)

func setxattr(_, _ string, _ []byte, _ int) error  { return errors.ErrUnsupported }
func lsetxattr(_, _ string, _ []byte, _ int) error { return errors.ErrUnsupported }
func fsetxattr(_ int, _ string, _ []byte, _ int) error {
	return errors.ErrUnsupported
}

func getxattr(_, _ string, _ []byte) (int, error)  { return 0, errors.ErrUnsupported }
func lgetxattr(_, _ string, _ []byte) (int, error) { return 0, errors.ErrUnsupported }
func fgetxattr(_ int, _ string, _ []byte) (int, error) {
	return 0, errors.ErrUnsupported
}

func listxattr(_ string, _ []byte) (int, error)  { return 0, errors.ErrUnsupported }
func llistxattr(_ string, _ []byte) (int, error) { return 0, errors.ErrUnsupported }
func flistxattr(_ int, _ []byte) (int, error)    { return 0, errors.ErrUnsupported }

func removexattr(_, _ string) error  { return errors.ErrUnsupported }
func lremovexattr(_, _ string) error { return errors.ErrUnsupported }
func fremovexattr(_ int, _ string) error {
	return errors.ErrUnsupported
}
