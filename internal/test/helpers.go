package test

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	mrand "math/rand"

	"github.com/pkg/xattr"
)

// Assert fails the test if the condition is false.
func Assert(tb testing.TB, condition bool, msg string, v ...interface{}) {
	if !condition {
		_, file, line, _ := runtime.Caller(1)
		fmt.Printf("\033[31m%s:%d: "+msg+"\033[39m\n\n", append([]interface{}{filepath.Base(file), line}, v...)...)
		tb.FailNow()
	}
}

// OK fails the test if an err is not nil.
func OK(tb testing.TB, err error) {
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		fmt.Printf("\033[31m%s:%d: unexpected error: %+v\033[39m\n\n", filepath.Base(file), line, err)
		tb.FailNow()
	}
}

// Equals fails the test if exp is not equal to act.
func Equals(tb testing.TB, exp, act interface{}) {
	if !reflect.DeepEqual(exp, act) {
		_, file, line, _ := runtime.Caller(1)
		fmt.Printf("\033[31m%s:%d:\n\n\texp: %#v\n\n\tgot: %#v\033[39m\n\n", filepath.Base(file), line, exp, act)
		tb.FailNow()
	}
}

// Random returns size bytes of pseudo-random data derived from the seed.
func Random(seed, count int) []byte {
	p := make([]byte, count)

	rnd := mrand.New(mrand.NewSource(int64(seed)))

	for i := 0; i < len(p); i += 8 {
		val := rnd.Int63()
		var data = []byte{
			byte((val >> 0) & 0xff),
			byte((val >> 8) & 0xff),
			byte((val >> 16) & 0xff),
			byte((val >> 24) & 0xff),
			byte((val >> 32) & 0xff),
			byte((val >> 40) & 0xff),
			byte((val >> 48) & 0xff),
			byte((val >> 56) & 0xff),
		}

		for j := range data {
			cur := i + j
			if cur >= len(p) {
				break
			}
			p[cur] = data[j]
		}
	}

	return p
}

// TempDir returns a temporary directory that is removed by t.Cleanup,
// except if TestCleanupTempDirs is set to false.
func TempDir(t testing.TB) string {
	tempdir, err := os.MkdirTemp(TestTempDir, "xattrctl-test-")
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if !TestCleanupTempDirs {
			t.Logf("leaving temporary directory %v used for test", tempdir)
			return
		}

		OK(t, os.RemoveAll(tempdir))
	})
	return tempdir
}

// TempFile creates a regular file with the given content in a fresh
// temporary directory and returns its path.
func TempFile(t testing.TB, name string, data []byte) string {
	t.Helper()

	filename := filepath.Join(TempDir(t), name)
	OK(t, os.WriteFile(filename, data, 0o600))
	return filename
}

// probeName is the attribute used to find out whether a filesystem accepts
// attributes in the user namespace.
const probeName = "user.xattrctl.probe"

// SkipIfNoXattr skips the test if the filesystem holding filename does not
// support user extended attributes. The probe uses an independent xattr
// implementation so that a broken implementation under test cannot hide
// behind a skipped test.
func SkipIfNoXattr(t testing.TB, filename string) {
	t.Helper()

	err := xattr.Set(filename, probeName, []byte("probe"))
	if err == nil {
		OK(t, xattr.Remove(filename, probeName))
		return
	}

	SkipDisallowed(t, t.Name())
	t.Skipf("filesystem of %v does not support user extended attributes: %v", filename, err)
}
