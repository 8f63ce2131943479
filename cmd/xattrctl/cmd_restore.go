package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/restic/xattrctl/internal/errors"
	"github.com/restic/xattrctl/internal/fs"
	"github.com/restic/xattrctl/internal/xattr"
)

func newRestoreCommand(gopts *GlobalOptions) *cobra.Command {
	var opts RestoreOptions

	cmd := &cobra.Command{
		Use:   "restore [flags] file",
		Short: "Apply extended attributes written by dump",
		Long: `
The "restore" command reads the output of "dump" from file ("-" reads stdin)
and applies it: for every path the attributes matching --match are written,
and existing attributes matching --match that are not part of the dump are
removed. Attributes not matching --match are left alone.

Without --match only attributes in the "user" namespace are restored, as the
other namespaces usually require privileges.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was any error.
`,
		DisableAutoGenTag: true,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd.Context(), opts, gopts, args[0])
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

// RestoreOptions collects all options for the restore command.
type RestoreOptions struct {
	TargetOptions
	Match []string
}

func (opts *RestoreOptions) AddFlags(f *pflag.FlagSet) {
	opts.TargetOptions.AddFlags(f)
	f.StringArrayVarP(&opts.Match, "match", "m", nil, "only restore attributes matching `pattern` (can be specified multiple times, default: user.*)")
}

func readDump(gopts *GlobalOptions, filename string) ([]dumpEntry, error) {
	var rd io.Reader = gopts.stdin
	if filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, errors.Fatalf("unable to open dump: %v", err)
		}
		defer func() {
			_ = f.Close()
		}()
		rd = f
	}

	var entries []dumpEntry
	if err := json.NewDecoder(rd).Decode(&entries); err != nil {
		return nil, errors.Fatalf("unable to parse dump %v: %v", filename, err)
	}
	return entries, nil
}

func runRestore(ctx context.Context, opts RestoreOptions, gopts *GlobalOptions, filename string) error {
	if err := opts.Check(); err != nil {
		return err
	}

	patterns := opts.Match
	if len(patterns) == 0 {
		patterns = []string{"user.*"}
	}
	selectFilter, err := fs.SelectFilter(patterns)
	if err != nil {
		return err
	}

	entries, err := readDump(gopts, filename)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(entries))
	attrs := make(map[string][]fs.Attribute, len(entries))
	for _, entry := range entries {
		if _, ok := attrs[entry.Path]; !ok {
			paths = append(paths, entry.Path)
		}
		attrs[entry.Path] = entry.Attributes
	}

	return forEachPath(ctx, gopts, paths, func(path string) error {
		return opts.withTarget(path, func(t xattr.Target) error {
			if err := fs.Restore(t, attrs[path], selectFilter); err != nil {
				return err
			}
			gopts.Verbosef("restored %s\n", path)
			return nil
		})
	})
}
