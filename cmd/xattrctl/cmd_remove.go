package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/restic/xattrctl/internal/xattr"
)

func newRemoveCommand(gopts *GlobalOptions) *cobra.Command {
	var opts TargetOptions

	cmd := &cobra.Command{
		Use:     "remove [flags] name path [path...]",
		Aliases: []string{"rm"},
		Short:   "Remove an extended attribute",
		Long: `
The "remove" command deletes the extended attribute name from each path.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was any error, for example a missing attribute.
`,
		DisableAutoGenTag: true,
		Args:              cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), opts, gopts, args)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

func runRemove(ctx context.Context, opts TargetOptions, gopts *GlobalOptions, args []string) error {
	if err := opts.Check(); err != nil {
		return err
	}

	name, paths := args[0], args[1:]

	return forEachPath(ctx, gopts, paths, func(path string) error {
		return opts.withTarget(path, func(t xattr.Target) error {
			if err := t.Remove(name); err != nil {
				return err
			}
			gopts.Verbosef("%s: removed %s\n", path, name)
			return nil
		})
	})
}
