// Command atlantisctl runs maintenance tasks against the diagram store:
// legacy file migration, search vector backfill, export and restore.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
