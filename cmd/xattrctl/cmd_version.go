package main

import (
	"encoding/json"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(gopts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `
The "version" command prints detailed information about the build environment
and the version of this software.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was any error.
`,
		DisableAutoGenTag: true,
		Args:              cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runVersion(gopts)
		},
	}
	return cmd
}

func runVersion(gopts *GlobalOptions) error {
	if gopts.JSON {
		type jsonVersion struct {
			MessageType string `json:"message_type"` // version
			Version     string `json:"version"`
			GoVersion   string `json:"go_version"`
			GoOS        string `json:"go_os"`
			GoArch      string `json:"go_arch"`
		}

		return json.NewEncoder(gopts.stdout).Encode(jsonVersion{
			MessageType: "version",
			Version:     version,
			GoVersion:   runtime.Version(),
			GoOS:        runtime.GOOS,
			GoArch:      runtime.GOARCH,
		})
	}

	gopts.Printf("xattrctl %s compiled with %v on %v/%v\n",
		version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
