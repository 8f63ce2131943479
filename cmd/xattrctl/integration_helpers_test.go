package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rtest "github.com/restic/xattrctl/internal/test"
)

type testEnvironment struct {
	gopts  *GlobalOptions
	stdin  *bytes.Buffer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	dir    string
}

// withTestEnvironment returns an environment whose output is captured and a
// directory on a filesystem that supports user extended attributes.
func withTestEnvironment(t *testing.T) *testEnvironment {
	t.Helper()

	env := &testEnvironment{
		stdin:  &bytes.Buffer{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		dir:    rtest.TempDir(t),
	}
	rtest.SkipIfNoXattr(t, env.dir)

	env.gopts = &GlobalOptions{
		stdin:  env.stdin,
		stdout: env.stdout,
		stderr: env.stderr,
	}
	rtest.OK(t, env.gopts.PreRun())
	return env
}

func (env *testEnvironment) file(t *testing.T, name string) string {
	t.Helper()

	filename := filepath.Join(env.dir, name)
	rtest.OK(t, os.MkdirAll(filepath.Dir(filename), 0o700))
	rtest.OK(t, os.WriteFile(filename, []byte(name), 0o600))
	return filename
}

func (env *testEnvironment) reset() {
	env.stdout.Reset()
	env.stderr.Reset()
}

// run executes the root command with args like the binary would.
func (env *testEnvironment) run(args ...string) error {
	env.reset()
	cmd := newRootCommand(env.gopts)
	cmd.SetArgs(args)
	cmd.SetOut(env.stdout)
	cmd.SetErr(env.stderr)
	return cmd.ExecuteContext(context.TODO())
}

func (env *testEnvironment) lines() []string {
	out := strings.TrimSuffix(env.stdout.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func testRunSet(t *testing.T, env *testEnvironment, opts SetOptions, args ...string) {
	t.Helper()
	rtest.OK(t, runSet(context.TODO(), opts, env.gopts, args))
}

func testRunGet(t *testing.T, env *testEnvironment, opts GetOptions, args ...string) string {
	t.Helper()
	env.reset()
	rtest.OK(t, runGet(context.TODO(), opts, env.gopts, args))
	return env.stdout.String()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
