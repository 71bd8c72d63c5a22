// main is the entry point for the tabulate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/tabulate/cmd"
	"github.com/huangsam/tabulate/internal/iostore"
)

func main() {
	defer iostore.CloseStores()

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		iostore.CloseStores()
		os.Exit(1)
	}
}
