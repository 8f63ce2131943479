package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/restic/xattrctl/internal/errors"
)

var version = "0.1.0-dev (compiled manually)"

// GlobalOptions hold all global options for xattrctl.
type GlobalOptions struct {
	Quiet   bool
	Verbose int
	JSON    bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// verbosity is set as follows:
	//  0 means: don't print any messages except errors, this is used when --quiet is specified
	//  1 is the default: print essential messages
	//  2 means: print more messages, this is used when --verbose is specified
	//  3 means: print very detailed messages and stack traces, this is used when --verbose=2 is specified
	verbosity uint
}

func newGlobalOptions() *GlobalOptions {
	return &GlobalOptions{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func (opts *GlobalOptions) AddFlags(f *pflag.FlagSet) {
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "do not print informational messages")
	// use empty parameter name as `-v, --verbose n` instead of the correct `--verbose=n` is confusing
	f.CountVarP(&opts.Verbose, "verbose", "v", "be verbose (specify multiple times or a level using --verbose=n``, max level/times is 2)")
	f.BoolVarP(&opts.JSON, "json", "", false, "set output mode to JSON for commands that support it")
}

func (opts *GlobalOptions) PreRun() error {
	// set verbosity, default is one
	opts.verbosity = 1
	if opts.Quiet && opts.Verbose > 0 {
		return errors.Fatal("--quiet and --verbose cannot be specified at the same time")
	}

	switch {
	case opts.Verbose >= 2:
		opts.verbosity = 3
	case opts.Verbose > 0:
		opts.verbosity = 2
	case opts.Quiet:
		opts.verbosity = 0
	}
	return nil
}

// Printf writes the message to stdout unless --quiet is set.
func (opts *GlobalOptions) Printf(format string, args ...interface{}) {
	if opts.verbosity < 1 {
		return
	}
	_, _ = fmt.Fprintf(opts.stdout, format, args...)
}

// Verbosef writes the message to stdout if --verbose is set.
func (opts *GlobalOptions) Verbosef(format string, args ...interface{}) {
	if opts.verbosity < 2 {
		return
	}
	_, _ = fmt.Fprintf(opts.stdout, format, args...)
}

// Warnf writes the message to stderr.
func (opts *GlobalOptions) Warnf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(opts.stderr, format, args...)
}
