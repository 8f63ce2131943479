package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/restic/xattrctl/internal/debug"
	"github.com/restic/xattrctl/internal/errors"
	"github.com/restic/xattrctl/internal/xattr"
)

// TargetOptions select how paths given on the command line are addressed.
type TargetOptions struct {
	NoDereference bool
	UseFd         bool
}

func (opts *TargetOptions) AddFlags(f *pflag.FlagSet) {
	f.BoolVarP(&opts.NoDereference, "no-dereference", "P", false, "operate on symlinks themselves instead of the files they point to")
	f.BoolVar(&opts.UseFd, "use-fd", false, "open each path and operate on the file descriptor")
}

func (opts TargetOptions) Check() error {
	if opts.NoDereference && opts.UseFd {
		return errors.Fatal("--no-dereference and --use-fd cannot be specified at the same time")
	}
	return nil
}

// withTarget calls fn with the target for path. For --use-fd the file is
// open while fn runs.
func (opts TargetOptions) withTarget(path string, fn func(t xattr.Target) error) error {
	switch {
	case opts.UseFd:
		f, err := openTarget(path)
		if err != nil {
			return err
		}
		err = fn(xattr.File(f))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	case opts.NoDereference:
		return fn(xattr.Link(path))
	default:
		return fn(xattr.Path(path))
	}
}

// describe turns err into a short message naming path and, if known, the
// attribute.
func describe(path string, err error) string {
	var encErr *xattr.EncodingError
	if errors.As(err, &encErr) {
		return fmt.Sprintf("%s: %v", path, encErr)
	}

	var xerr *xattr.Error
	if !errors.As(err, &xerr) {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return pathErr.Error()
		}
		return fmt.Sprintf("%s: %v", path, err)
	}

	var reason interface{} = xerr.Err
	switch {
	case xattr.IsNotFound(xerr):
		reason = xattr.ErrNotFound
	case xattr.IsExist(xerr):
		reason = xattr.ErrExist
	}

	if xerr.Name == "" {
		return fmt.Sprintf("%s: %v", path, reason)
	}
	return fmt.Sprintf("%s: %s: %v", path, xerr.Name, reason)
}

// forEachPath runs fn for every path. Failures are reported per path and
// do not stop the remaining paths. Cancelling ctx stops before the next path.
func forEachPath(ctx context.Context, gopts *GlobalOptions, paths []string, fn func(path string) error) error {
	var failed int
	var last error
	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn(path)
		if err == nil {
			continue
		}
		debug.Log("%v: %+v", path, err)
		if errors.Is(err, context.Canceled) {
			return err
		}

		failed++
		last = errors.FatalWrap(err, describe(path, err))
		if len(paths) > 1 {
			gopts.Warnf("%s\n", describe(path, err))
		}
	}

	switch {
	case failed == 0:
		return nil
	case len(paths) == 1:
		return last
	default:
		return errors.Fatalf("failed on %d of %d paths", failed, len(paths))
	}
}
