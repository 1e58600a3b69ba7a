package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/errorsx"
	"github.com/sharpts/sharpts/pkg/sharpts"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Parse and type-check a file, reporting diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	source := string(content)

	f := errorsx.NewFormatter(os.Stderr)

	prog, parseErrs := sharpts.Parse(source, filename)
	if len(parseErrs) > 0 {
		for _, pe := range parseErrs {
			f.Format(os.Stderr, errorsx.FromParserError(filename, pe), source)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(parseErrs))
	}

	_, typeErrs := sharpts.Check(prog)
	if len(typeErrs) > 0 {
		for _, te := range typeErrs {
			f.Format(os.Stderr, errorsx.FromTypeCheckError(filename, te), source)
		}
		return fmt.Errorf("type checking failed with %d error(s)", len(typeErrs))
	}

	fmt.Println("ok")
	return nil
}
