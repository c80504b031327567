// Command numanalyzer validates a column of integers in a CSV file, splits
// the valid values around a threshold and writes text and CSV reports.
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/numanalyzer/internal/core"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n  %v\n", core.FormatUserError(err), err)
		os.Exit(1)
	}
}
