package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/restic/xattrctl/internal/errors"
	"github.com/restic/xattrctl/internal/xattr"
)

func newSetCommand(gopts *GlobalOptions) *cobra.Command {
	var opts SetOptions

	cmd := &cobra.Command{
		Use:   "set [flags] name value path [path...]",
		Short: "Set an extended attribute",
		Long: `
The "set" command associates value with the extended attribute name for each
path. A value starting with "0x" is decoded as hex, with "0s" as base64, a
double-quoted value is unquoted, any other value is used as is.

With --value-file the value is read from the file instead ("-" reads stdin)
and the value argument is omitted.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was any error, for example an existing attribute
with --create or a missing one with --replace.
`,
		DisableAutoGenTag: true,
		Args:              cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.Context(), opts, gopts, args)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

// SetOptions collects all options for the set command.
type SetOptions struct {
	TargetOptions
	Create    bool
	Replace   bool
	ValueFile string
}

func (opts *SetOptions) AddFlags(f *pflag.FlagSet) {
	opts.TargetOptions.AddFlags(f)
	f.BoolVar(&opts.Create, "create", false, "fail if the attribute already exists")
	f.BoolVar(&opts.Replace, "replace", false, "fail if the attribute does not exist")
	f.StringVar(&opts.ValueFile, "value-file", "", "read the value from `file` (use - for stdin)")
}

func (opts SetOptions) mode() (xattr.Mode, error) {
	switch {
	case opts.Create && opts.Replace:
		return 0, errors.Fatal("--create and --replace cannot be specified at the same time")
	case opts.Create:
		return xattr.ModeCreate, nil
	case opts.Replace:
		return xattr.ModeReplace, nil
	}
	return xattr.ModeSet, nil
}

func readValueFile(gopts *GlobalOptions, filename string) ([]byte, error) {
	if filename == "-" {
		value, err := io.ReadAll(gopts.stdin)
		return value, errors.Wrap(err, "read stdin")
	}

	value, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Fatalf("unable to read value file: %v", err)
	}
	return value, nil
}

func runSet(ctx context.Context, opts SetOptions, gopts *GlobalOptions, args []string) error {
	if err := opts.Check(); err != nil {
		return err
	}
	mode, err := opts.mode()
	if err != nil {
		return err
	}

	name := args[0]
	var value []byte
	var paths []string

	if opts.ValueFile != "" {
		value, err = readValueFile(gopts, opts.ValueFile)
		if err != nil {
			return err
		}
		paths = args[1:]
	} else {
		if len(args) < 3 {
			return errors.Fatal("set needs a name, a value and at least one path")
		}
		value, err = decodeValue(args[1])
		if err != nil {
			return err
		}
		paths = args[2:]
	}

	return forEachPath(ctx, gopts, paths, func(path string) error {
		return opts.withTarget(path, func(t xattr.Target) error {
			if err := t.SetWithMode(name, value, mode); err != nil {
				return err
			}
			gopts.Verbosef("%s: %s: %s %d bytes\n", path, name, mode, len(value))
			return nil
		})
	})
}
