package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weft-io/weft/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "weft",
		Short: "Weft tracing toolkit developer tools",
		Long: `Weft is a userspace tracing toolkit. This tool renders the trace-schema
document a session daemon would emit for a given session description, so
reader compatibility can be checked without running a daemon.`,
	}

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError(err, false))
		os.Exit(1)
	}
}
