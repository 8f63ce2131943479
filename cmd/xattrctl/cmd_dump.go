package main

import (
	"context"
	"encoding/json"
	iofs "io/fs"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/restic/xattrctl/internal/debug"
	"github.com/restic/xattrctl/internal/errors"
	"github.com/restic/xattrctl/internal/fs"
	"github.com/restic/xattrctl/internal/xattr"
)

func newDumpCommand(gopts *GlobalOptions) *cobra.Command {
	var opts DumpOptions

	cmd := &cobra.Command{
		Use:   "dump [flags] path [path...]",
		Short: "Write all extended attributes as JSON",
		Long: `
The "dump" command writes the extended attributes of each path to stdout as a
JSON array of {"path", "attributes"} objects, values are base64 encoded. The
output can be applied again with the "restore" command.

Attributes that cannot be read are reported and skipped. Paths on filesystems
without extended attribute support, or whose attributes the user may not
list, are written without attributes. With --recursive, symlinks below the
given paths are dumped as links and never followed. Paths that fail are
reported and left out, the remaining paths are still written.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was any error.
`,
		DisableAutoGenTag: true,
		Args:              cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), opts, gopts, args)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

// DumpOptions collects all options for the dump command.
type DumpOptions struct {
	TargetOptions
	Match     []string
	Recursive bool
}

func (opts *DumpOptions) AddFlags(f *pflag.FlagSet) {
	opts.TargetOptions.AddFlags(f)
	f.StringArrayVarP(&opts.Match, "match", "m", nil, "only dump attributes matching `pattern` (can be specified multiple times)")
	f.BoolVarP(&opts.Recursive, "recursive", "R", false, "descend into directories")
}

type dumpEntry struct {
	Path       string         `json:"path"`
	Attributes []fs.Attribute `json:"attributes"`
}

// expandPaths returns paths and, with recursive set, everything below them.
// Symlinks below a root are never followed: they are returned in links and
// dumped as links. Entries that cannot be read are reported and skipped.
func expandPaths(ctx context.Context, gopts *GlobalOptions, paths []string, recursive bool) ([]string, map[string]bool, error) {
	links := make(map[string]bool)
	if !recursive {
		return paths, links, nil
	}

	var result []string

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				if path == root {
					return err
				}
				gopts.Warnf("%v\n", err)
				return nil
			}

			if path != root && d.Type()&iofs.ModeSymlink != 0 {
				links[path] = true
			}
			result = append(result, path)
			return nil
		})
		if err != nil {
			return nil, nil, errors.Wrapf(err, "walk %v", root)
		}
	}
	return result, links, nil
}

func runDump(ctx context.Context, opts DumpOptions, gopts *GlobalOptions, args []string) error {
	if err := opts.Check(); err != nil {
		return err
	}
	selectFilter, err := fs.SelectFilter(opts.Match)
	if err != nil {
		return err
	}

	paths, links, err := expandPaths(ctx, gopts, args, opts.Recursive)
	if err != nil {
		return err
	}

	entries := make([]dumpEntry, 0, len(paths))
	dumpErr := forEachPath(ctx, gopts, paths, func(path string) error {
		topts := opts.TargetOptions
		if links[path] {
			topts = TargetOptions{NoDereference: true}
		}

		return topts.withTarget(path, func(t xattr.Target) error {
			attrs, err := fs.Fill(t, true, gopts.Warnf)
			if err != nil {
				return err
			}

			entry := dumpEntry{Path: path, Attributes: []fs.Attribute{}}
			for _, attr := range attrs {
				if selectFilter(attr.Name) {
					entry.Attributes = append(entry.Attributes, attr)
				}
			}
			debug.Log("dump %v: %d of %d attributes", path, len(entry.Attributes), len(attrs))

			entries = append(entries, entry)
			return nil
		})
	})
	if errors.Is(dumpErr, context.Canceled) {
		return dumpErr
	}

	// paths that failed are missing from the output, the error is returned
	// after the remaining entries have been written
	enc := json.NewEncoder(gopts.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return dumpErr
}
