// Command serve starts the preview server without a subcommand, for
// container entrypoints.
package main

import (
	"fmt"
	"os"

	"conference-site/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	rootCmd.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
