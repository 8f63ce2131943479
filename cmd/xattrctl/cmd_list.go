package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restic/xattrctl/internal/xattr"
)

func newListCommand(gopts *GlobalOptions) *cobra.Command {
	var opts TargetOptions

	cmd := &cobra.Command{
		Use:     "list [flags] path [path...]",
		Aliases: []string{"ls"},
		Short:   "List the names of extended attributes",
		Long: `
The "list" command prints the names of all extended attributes of each path,
one per line and in the order reported by the kernel. With more than one path
the names are grouped under a "# file: path" header.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was any error.
`,
		DisableAutoGenTag: true,
		Args:              cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), opts, gopts, args)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

type jsonNames struct {
	Path  string   `json:"path"`
	Names []string `json:"names"`
}

func runList(ctx context.Context, opts TargetOptions, gopts *GlobalOptions, paths []string) error {
	if err := opts.Check(); err != nil {
		return err
	}

	enc := json.NewEncoder(gopts.stdout)

	return forEachPath(ctx, gopts, paths, func(path string) error {
		return opts.withTarget(path, func(t xattr.Target) error {
			names, err := t.List()
			if err != nil {
				return err
			}

			if gopts.JSON {
				return enc.Encode(jsonNames{Path: path, Names: names})
			}

			if len(paths) > 1 {
				if _, err := fmt.Fprintf(gopts.stdout, "# file: %s\n", path); err != nil {
					return err
				}
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(gopts.stdout, name); err != nil {
					return err
				}
			}
			return nil
		})
	})
}
