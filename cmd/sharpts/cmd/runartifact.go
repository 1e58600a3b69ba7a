package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/bytecode"
)

var runArtifactCmd = &cobra.Command{
	Use:   "run-artifact [file.stsc]",
	Short: "Load a bytecode artifact produced by emit and run it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunArtifact,
}

func init() {
	rootCmd.AddCommand(runArtifactCmd)
}

func runRunArtifact(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	chunk, err := bytecode.DecodeArtifact(data)
	if err != nil {
		return fmt.Errorf("decoding artifact: %w", err)
	}

	vm := bytecode.NewVM()
	vm.Output = func(line string) { fmt.Println(line) }

	result, err := vm.Run(chunk)
	if err != nil {
		return fmt.Errorf("running %s: %w", filename, err)
	}
	if result.Type != bytecode.ValueUndefined {
		fmt.Println(result.String())
	}
	return nil
}
