package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/restic/xattrctl/internal/errors"
	"github.com/restic/xattrctl/internal/fs"
	rtest "github.com/restic/xattrctl/internal/test"
	"github.com/restic/xattrctl/internal/xattr"
)

func testRunDump(t *testing.T, env *testEnvironment, opts DumpOptions, paths ...string) []dumpEntry {
	t.Helper()
	env.reset()
	rtest.OK(t, runDump(context.TODO(), opts, env.gopts, paths))
	return testDecodeDump(t, env)
}

func testDecodeDump(t *testing.T, env *testEnvironment) []dumpEntry {
	t.Helper()
	var entries []dumpEntry
	rtest.OK(t, json.Unmarshal(env.stdout.Bytes(), &entries))
	return entries
}

func writeDump(t *testing.T, env *testEnvironment, entries []dumpEntry) string {
	t.Helper()
	buf, err := json.Marshal(entries)
	rtest.OK(t, err)

	filename := filepath.Join(env.dir, "dump.json")
	rtest.OK(t, os.WriteFile(filename, buf, 0o600))
	return filename
}

// userAttributes returns the user namespace attributes of filename by name.
func userAttributes(t *testing.T, filename string) map[string]string {
	t.Helper()
	attrs, err := fs.Fill(xattr.Path(filename), false, t.Logf)
	rtest.OK(t, err)

	result := make(map[string]string)
	for _, attr := range attrs {
		if strings.HasPrefix(attr.Name, "user.") {
			result[attr.Name] = string(attr.Value)
		}
	}
	return result
}

func TestDumpRestore(t *testing.T) {
	env := withTestEnvironment(t)
	f := env.file(t, "f")

	rtest.OK(t, xattr.Set(f, "user.a", []byte("one")))
	rtest.OK(t, xattr.Set(f, "user.b", []byte{}))

	entries := testRunDump(t, env, DumpOptions{Match: []string{"user.*"}}, f)
	rtest.Equals(t, 1, len(entries))
	rtest.Equals(t, f, entries[0].Path)

	dumpFile := writeDump(t, env, entries)

	rtest.OK(t, xattr.Remove(f, "user.a"))
	rtest.OK(t, xattr.Set(f, "user.b", []byte("changed")))
	rtest.OK(t, xattr.Set(f, "user.c", []byte("extra")))

	env.reset()
	rtest.OK(t, runRestore(context.TODO(), RestoreOptions{}, env.gopts, dumpFile))

	want := map[string]string{"user.a": "one", "user.b": ""}
	if diff := cmp.Diff(want, userAttributes(t, f)); diff != "" {
		t.Errorf("attributes differ after restore (-want +got):\n%s", diff)
	}
}

func TestRestoreMatch(t *testing.T) {
	env := withTestEnvironment(t)
	f := env.file(t, "f")

	dumpFile := writeDump(t, env, []dumpEntry{{
		Path: f,
		Attributes: []fs.Attribute{
			{Name: "user.keep.a", Value: []byte("a")},
			{Name: "user.skip", Value: []byte("skip")},
		},
	}})

	rtest.OK(t, xattr.Set(f, "user.keep.old", []byte("old")))
	rtest.OK(t, xattr.Set(f, "user.other", []byte("other")))

	env.reset()
	rtest.OK(t, runRestore(context.TODO(), RestoreOptions{Match: []string{"user.keep.*"}}, env.gopts, dumpFile))

	want := map[string]string{"user.keep.a": "a", "user.other": "other"}
	if diff := cmp.Diff(want, userAttributes(t, f)); diff != "" {
		t.Errorf("attributes differ after restore (-want +got):\n%s", diff)
	}
}

func TestRestoreFromStdin(t *testing.T) {
	env := withTestEnvironment(t)
	f := env.file(t, "f")

	buf, err := json.Marshal([]dumpEntry{
		{Path: f, Attributes: []fs.Attribute{{Name: "user.a", Value: []byte("first")}}},
		{Path: f, Attributes: []fs.Attribute{{Name: "user.a", Value: []byte("second")}}},
	})
	rtest.OK(t, err)
	env.stdin.Write(buf)

	rtest.OK(t, runRestore(context.TODO(), RestoreOptions{}, env.gopts, "-"))

	value, err := xattr.Get(f, "user.a")
	rtest.OK(t, err)
	rtest.Equals(t, "second", string(value))
}

func TestRestoreInvalidDump(t *testing.T) {
	env := withTestEnvironment(t)

	filename := filepath.Join(env.dir, "dump.json")
	rtest.OK(t, os.WriteFile(filename, []byte("{"), 0o600))

	err := runRestore(context.TODO(), RestoreOptions{}, env.gopts, filename)
	rtest.Assert(t, errors.IsFatal(err), "expected fatal error, got %v", err)

	err = runRestore(context.TODO(), RestoreOptions{}, env.gopts, filename+".missing")
	rtest.Assert(t, errors.IsFatal(err), "expected fatal error, got %v", err)

	err = runRestore(context.TODO(), RestoreOptions{Match: []string{"[user"}}, env.gopts, filename)
	rtest.Assert(t, errors.IsFatal(err), "expected fatal error, got %v", err)
}

func TestDumpRecursive(t *testing.T) {
	env := withTestEnvironment(t)
	root := filepath.Join(env.dir, "root")
	f1 := env.file(t, filepath.Join("root", "f1"))
	f2 := env.file(t, filepath.Join("root", "sub", "f2"))

	rtest.OK(t, xattr.Set(f2, "user.deep", []byte("deep")))

	link := filepath.Join(root, "link")
	rtest.OK(t, os.Symlink(f2, link))
	dangling := filepath.Join(root, "dangling")
	rtest.OK(t, os.Symlink(filepath.Join(root, "missing"), dangling))

	entries := testRunDump(t, env, DumpOptions{Recursive: true, Match: []string{"user.*"}}, root)
	rtest.Equals(t, "", env.stderr.String())

	var paths []string
	for _, entry := range entries {
		paths = append(paths, entry.Path)
		rtest.Assert(t, entry.Attributes != nil, "attributes of %v are nil", entry.Path)
		switch entry.Path {
		case f2:
			rtest.Equals(t, []fs.Attribute{{Name: "user.deep", Value: []byte("deep")}}, entry.Attributes)
		case link, dangling:
			// symlinks are dumped as themselves, they cannot carry user attributes
			rtest.Equals(t, []fs.Attribute{}, entry.Attributes)
		}
	}
	sort.Strings(paths)

	want := []string{root, f1, filepath.Join(root, "sub"), f2, link, dangling}
	sort.Strings(want)
	rtest.Equals(t, want, paths)
}

func TestDumpMissingPath(t *testing.T) {
	env := withTestEnvironment(t)
	f := env.file(t, "f")

	env.reset()
	rtest.OK(t, xattr.Set(f, "user.a", []byte("a")))

	err := runDump(context.TODO(), DumpOptions{Match: []string{"user.*"}}, env.gopts, []string{f, f + ".missing"})
	rtest.Assert(t, errors.IsFatal(err), "expected fatal error, got %v", err)
	rtest.Equals(t, "Fatal: failed on 1 of 2 paths", err.Error())
	rtest.Assert(t, strings.Contains(env.stderr.String(), f+".missing"), "missing path not reported: %q", env.stderr.String())

	// the path that worked is still written
	var entries []dumpEntry
	rtest.OK(t, json.Unmarshal(env.stdout.Bytes(), &entries))
	rtest.Equals(t, []dumpEntry{{Path: f, Attributes: []fs.Attribute{{Name: "user.a", Value: []byte("a")}}}}, entries)
}

func TestDumpCanceled(t *testing.T) {
	env := withTestEnvironment(t)
	f := env.file(t, "f")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env.reset()
	err := runDump(ctx, DumpOptions{}, env.gopts, []string{f})
	rtest.Assert(t, errors.Is(err, context.Canceled), "expected context.Canceled, got %v", err)
	rtest.Equals(t, "", env.stdout.String())
}
