package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/restic/xattrctl/internal/debug"
	"github.com/restic/xattrctl/internal/errors"
)

func init() {
	// don't import `go.uber.org/automaxprocs` to disable the log output
	_, _ = maxprocs.Set()
}

func newRootCommand(gopts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xattrctl",
		Short: "Read and write extended attributes",
		Long: `
xattrctl reads, writes, lists and removes Linux extended attributes of files
and directories, and dumps or restores complete attribute sets.

Attribute names are used verbatim including their namespace, for example
"user.comment" or "security.selinux".
`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return gopts.PreRun()
		},
	}

	gopts.AddFlags(cmd.PersistentFlags())

	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(
		newGetCommand(gopts),
		newSetCommand(gopts),
		newListCommand(gopts),
		newRemoveCommand(gopts),
		newDumpCommand(gopts),
		newRestoreCommand(gopts),
		newVersionCommand(gopts),
	)

	return cmd
}

// exitMessage formats err for the user. Fatal errors are printed as is,
// stack traces are only shown with --verbose=2 or an enabled debug log.
func exitMessage(gopts *GlobalOptions, err error) string {
	switch {
	case errors.IsFatal(err):
		return err.Error()
	case gopts.verbosity >= 3 || debug.Enabled():
		return fmt.Sprintf("%+v", err)
	default:
		return err.Error()
	}
}

func main() {
	// install custom global logger into a buffer, if an error occurs
	// we can show the logs
	logBuffer := bytes.NewBuffer(nil)
	log.SetOutput(logBuffer)

	debug.Log("main %#v", os.Args)
	debug.Log("xattrctl %s compiled with %v on %v/%v",
		version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	gopts := newGlobalOptions()
	ctx := createGlobalContext(gopts)
	err := newRootCommand(gopts).ExecuteContext(ctx)

	if err == nil {
		err = ctx.Err()
	}

	var exitCode int
	switch {
	case err == nil:
		exitCode = 0
	case errors.Is(err, context.Canceled):
		exitCode = 130
	default:
		exitCode = 1
	}

	if err != nil {
		msg := exitMessage(gopts, err)
		if !errors.IsFatal(err) && logBuffer.Len() > 0 {
			msg += "\nalso, the following messages were logged by a library:\n"
			sc := bufio.NewScanner(logBuffer)
			for sc.Scan() {
				msg += fmt.Sprintln(sc.Text())
			}
		}
		gopts.Warnf("%v\n", msg)
	}
	Exit(exitCode)
}
