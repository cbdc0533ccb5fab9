package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags "-X github.com/abhisek/studyforge/cmd.version=v1.2.3".
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the studyforge version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "studyforge %s (%s %s/%s)\n",
			resolveVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

// resolveVersion prefers the linker-injected version, then the module
// version recorded by `go install`.
func resolveVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
