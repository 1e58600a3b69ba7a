// Command sharpts is the CLI entry point for the SharpTS interpreter and
// bytecode compiler.
package main

import (
	"fmt"
	"os"

	"github.com/sharpts/sharpts/cmd/sharpts/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
