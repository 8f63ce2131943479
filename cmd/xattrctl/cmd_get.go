package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/restic/xattrctl/internal/errors"
	"github.com/restic/xattrctl/internal/terminal"
	"github.com/restic/xattrctl/internal/xattr"
)

func newGetCommand(gopts *GlobalOptions) *cobra.Command {
	var opts GetOptions

	cmd := &cobra.Command{
		Use:   "get [flags] name path [path...]",
		Short: "Print the value of an extended attribute",
		Long: `
The "get" command prints the value of the extended attribute name for each
path. With more than one path every line is prefixed with the path.

Values are printed in the selected encoding: "text" prints a double-quoted
string, "hex" and "base64" print the value with the prefix "0x" or "0s",
"auto" uses text for printable values and base64 otherwise. "raw" writes the
value unmodified, it requires a single path and redirected output.
The default encoding can be set with $XATTRCTL_ENCODING.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was any error, for example a missing attribute.
`,
		DisableAutoGenTag: true,
		Args:              cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), opts, gopts, args)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

// GetOptions collects all options for the get command.
type GetOptions struct {
	TargetOptions
	Encoding string
}

func (opts *GetOptions) AddFlags(f *pflag.FlagSet) {
	opts.TargetOptions.AddFlags(f)
	f.StringVarP(&opts.Encoding, "encoding", "e", defaultEncoding(), "value `encoding`: auto, text, hex, base64 or raw")
}

func defaultEncoding() string {
	if enc := os.Getenv("XATTRCTL_ENCODING"); enc != "" {
		return enc
	}
	return encodingAuto
}

type jsonValue struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Value []byte `json:"value"`
}

func runGet(ctx context.Context, opts GetOptions, gopts *GlobalOptions, args []string) error {
	if err := opts.Check(); err != nil {
		return err
	}
	if err := checkEncoding(opts.Encoding); err != nil {
		return err
	}

	name, paths := args[0], args[1:]

	if opts.Encoding == encodingRaw && !gopts.JSON {
		if len(paths) != 1 {
			return errors.Fatal("the raw encoding supports only a single path")
		}
		if terminal.OutputIsTerminal(gopts.stdout) {
			return errors.Fatal("stdout is the terminal, please redirect output")
		}
	}

	enc := json.NewEncoder(gopts.stdout)

	return forEachPath(ctx, gopts, paths, func(path string) error {
		return opts.withTarget(path, func(t xattr.Target) error {
			value, err := t.Get(name)
			if err != nil {
				return err
			}

			switch {
			case gopts.JSON:
				return enc.Encode(jsonValue{Path: path, Name: name, Value: value})
			case opts.Encoding == encodingRaw:
				_, err = gopts.stdout.Write(value)
			case len(paths) > 1:
				_, err = fmt.Fprintf(gopts.stdout, "%s: %s\n", path, encodeValue(value, opts.Encoding))
			default:
				_, err = fmt.Fprintln(gopts.stdout, encodeValue(value, opts.Encoding))
			}
			return err
		})
	})
}
