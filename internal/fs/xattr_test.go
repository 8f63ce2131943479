//go:build linux

package fs

import (
	"os"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/restic/xattrctl/internal/errors"
	rtest "github.com/restic/xattrctl/internal/test"
	"github.com/restic/xattrctl/internal/xattr"
)

func TestSelectFilter(t *testing.T) {
	for _, test := range []struct {
		patterns []string
		accepted []string
		rejected []string
	}{
		{
			patterns: nil,
			accepted: []string{"user.a", "security.selinux", "trusted.x"},
		},
		{
			patterns: []string{"user.*"},
			accepted: []string{"user.a", "user.comment"},
			rejected: []string{"security.selinux", "trusted.user.a"},
		},
		{
			patterns: []string{"user.o*", "user.comm*"},
			accepted: []string{"user.other", "user.open", "user.common"},
			rejected: []string{"user.bad", "security.other"},
		},
		{
			patterns: []string{"user.?"},
			accepted: []string{"user.a"},
			rejected: []string{"user.ab"},
		},
	} {
		filter, err := SelectFilter(test.patterns)
		rtest.OK(t, err)

		for _, name := range test.accepted {
			rtest.Assert(t, filter(name), "patterns %v should accept %v", test.patterns, name)
		}
		for _, name := range test.rejected {
			rtest.Assert(t, !filter(name), "patterns %v should reject %v", test.patterns, name)
		}
	}
}

func TestSelectFilterInvalidPattern(t *testing.T) {
	_, err := SelectFilter([]string{"user.*", "user.[a"})
	rtest.Assert(t, err != nil, "invalid pattern not rejected")
	rtest.Assert(t, errors.IsFatal(err), "invalid pattern should be a fatal error, got %v", err)
	rtest.Assert(t, strings.Contains(err.Error(), "user.[a"), "error should name the pattern: %v", err)
}

func TestIsListPermissionError(t *testing.T) {
	for _, test := range []struct {
		err  error
		want bool
	}{
		{&xattr.Error{Op: "xattr.list", Path: "/root", Err: unix.EACCES}, true},
		{&xattr.Error{Op: "xattr.llist", Path: "/root", Err: unix.EPERM}, true},
		{errors.WithStack(&xattr.Error{Op: "xattr.flist", Path: "fd 3", Err: unix.EACCES}), true},
		{&xattr.Error{Op: "xattr.get", Path: "/root", Name: "user.a", Err: unix.EACCES}, false},
		{&xattr.Error{Op: "xattr.list", Path: "/root", Err: unix.ENOENT}, false},
		{os.ErrPermission, false},
		{nil, false},
	} {
		rtest.Equals(t, test.want, IsListPermissionError(test.err))
	}
}

func TestHandleXattrErr(t *testing.T) {
	for _, err := range []error{
		nil,
		&xattr.Error{Op: "xattr.set", Path: "/proc/1", Name: "user.a", Err: unix.ENOTSUP},
		&xattr.Error{Op: "xattr.llist", Path: "/mnt/f", Err: unix.EOPNOTSUPP},
		errors.ErrUnsupported,
	} {
		rtest.OK(t, handleXattrErr(err))
	}

	err := &xattr.Error{Op: "xattr.set", Path: "/tmp/f", Name: "user.a", Err: unix.EACCES}
	got := handleXattrErr(err)
	rtest.Assert(t, errors.Is(got, os.ErrPermission), "expected permission error, got %v", got)

	var xerr *xattr.Error
	rtest.Assert(t, errors.As(got, &xerr) && xerr == err, "expected the original *xattr.Error, got %v", got)
}

func noopWarnf(_ string, _ ...interface{}) {}

// userAttrs returns the attributes in the user namespace, keyed by name.
func userAttrs(attrs []Attribute) map[string]string {
	m := make(map[string]string)
	for _, attr := range attrs {
		if strings.HasPrefix(attr.Name, "user.") {
			m[attr.Name] = string(attr.Value)
		}
	}
	return m
}

func testTarget(t *testing.T) xattr.Target {
	t.Helper()

	filename := rtest.TempFile(t, "file", []byte("hello world"))
	rtest.SkipIfNoXattr(t, filename)
	return xattr.Path(filename)
}

func setAndVerifyXattr(t *testing.T, target xattr.Target, attrs []Attribute) {
	t.Helper()

	rtest.OK(t, Restore(target, attrs, func(_ string) bool { return true }))

	actual, err := Fill(target, false, noopWarnf)
	rtest.OK(t, err)
	rtest.Equals(t, userAttrs(attrs), userAttrs(actual))
}

func TestOverwriteXattr(t *testing.T) {
	target := testTarget(t)

	setAndVerifyXattr(t, target, []Attribute{
		{Name: "user.foo", Value: []byte("bar")},
	})

	setAndVerifyXattr(t, target, []Attribute{
		{Name: "user.other", Value: []byte("some")},
		{Name: "user.empty", Value: []byte{}},
	})
}

type testXattrToRestore struct {
	xattr         Attribute
	shouldRestore bool
}

func setAndVerifyXattrWithSelectFilter(t *testing.T, target xattr.Target, testAttrs []testXattrToRestore, patterns []string) {
	t.Helper()

	selectFilter, err := SelectFilter(patterns)
	rtest.OK(t, err)

	attrs := make([]Attribute, 0, len(testAttrs))
	for _, a := range testAttrs {
		attrs = append(attrs, a.xattr)
	}
	rtest.OK(t, Restore(target, attrs, selectFilter))

	actual, err := Fill(target, false, noopWarnf)
	rtest.OK(t, err)
	restored := userAttrs(actual)

	for _, a := range testAttrs {
		value, found := restored[a.xattr.Name]
		if a.shouldRestore {
			rtest.Assert(t, found, "xattr %s not restored", a.xattr.Name)
			rtest.Assert(t, value == string(a.xattr.Value), "xattr %v value not restored", a.xattr)
		} else {
			rtest.Assert(t, !found, "xattr %v should not have been restored", a.xattr)
		}
	}
}

func TestOverwriteXattrWithSelectFilter(t *testing.T) {
	target := testTarget(t)

	setAndVerifyXattrWithSelectFilter(t, target, []testXattrToRestore{
		{Attribute{Name: "user.foo", Value: []byte("bar")}, true},
		{Attribute{Name: "user.test", Value: []byte("testxattr")}, true},
		{Attribute{Name: "security.other", Value: []byte("testing")}, false},
	}, []string{"user.*"})

	setAndVerifyXattrWithSelectFilter(t, target, []testXattrToRestore{
		{Attribute{Name: "user.other", Value: []byte("some")}, true},
		{Attribute{Name: "security.other", Value: []byte("testing")}, false},
		{Attribute{Name: "user.open", Value: []byte("door")}, true},
		{Attribute{Name: "user.common", Value: []byte("testing")}, true},
		{Attribute{Name: "user.bad", Value: []byte("dontincludeme")}, false},
	}, []string{"user.o*", "user.comm*"})

	// attributes outside of the filter are left alone
	actual, err := Fill(target, false, noopWarnf)
	rtest.OK(t, err)
	restored := userAttrs(actual)
	for _, name := range []string{"user.foo", "user.test"} {
		_, found := restored[name]
		rtest.Assert(t, found, "xattr %v outside of the filter was removed", name)
	}
}

func TestFillEmpty(t *testing.T) {
	target := testTarget(t)

	attrs, err := Fill(target, false, noopWarnf)
	rtest.OK(t, err)
	rtest.Equals(t, map[string]string{}, userAttrs(attrs))
}

func TestFillMissingTarget(t *testing.T) {
	target := xattr.Path(rtest.TempDir(t) + "/missing")

	_, err := Fill(target, true, noopWarnf)
	rtest.Assert(t, errors.Is(err, os.ErrNotExist), "expected ENOENT, got %v", err)
}

func TestRestoreMissingTarget(t *testing.T) {
	target := xattr.Path(rtest.TempDir(t) + "/missing")

	err := Restore(target, []Attribute{{Name: "user.a", Value: []byte("a")}}, func(string) bool { return true })
	rtest.Assert(t, errors.Is(err, os.ErrNotExist), "expected ENOENT, got %v", err)
}
