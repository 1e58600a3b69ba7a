package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/errorsx"
	"github.com/sharpts/sharpts/pkg/sharpts"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a file and print its top-level statement shapes",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	source := string(content)

	prog, errs := sharpts.Parse(source, filename)
	if len(errs) > 0 {
		f := errorsx.NewFormatter(os.Stderr)
		for _, pe := range errs {
			f.Format(os.Stderr, errorsx.FromParserError(filename, pe), source)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	for _, stmt := range prog.Statements {
		pos := stmt.Pos()
		fmt.Printf("%4d:%-3d %T\n", pos.Line, pos.Column, stmt)
	}
	return nil
}
