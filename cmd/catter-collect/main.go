// Command catter-collect is a minimal stand-in for a host-side
// aggregation utility: it walks a recorder directory and prints what
// each thread captured.
package main

import (
	"fmt"
	"os"

	"github.com/fogsong233/catter/cmd/catter-collect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
