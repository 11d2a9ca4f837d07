// Package main provides the rulestack binary entry point.
package main

import (
	"fmt"
	"os"

	"github.com/rulestack/rulestack/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
