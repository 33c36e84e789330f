package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is overridable at build time with
// -ldflags "-X main.version=...".
var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("spindle %s\n", version)
		fmt.Printf("  Go: %s\n", runtime.Version())
	},
}
