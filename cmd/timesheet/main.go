// Command timesheet runs SMIL timesheet documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/timesheet/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "timesheet: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
