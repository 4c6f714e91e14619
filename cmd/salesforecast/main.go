// Command salesforecast builds a weekly sales series from a ledger spreadsheet and shows it as
// is, decomposed, forecast or with residual diagnostics.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
