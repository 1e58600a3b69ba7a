package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/closure"
	"github.com/sharpts/sharpts/internal/errorsx"
	"github.com/sharpts/sharpts/internal/host"
	"github.com/sharpts/sharpts/internal/interp"
	"github.com/sharpts/sharpts/internal/suspend"
	"github.com/sharpts/sharpts/pkg/sharpts"
)

var skipCheck bool

var interpretCmd = &cobra.Command{
	Use:   "interpret [file]",
	Short: "Parse, type-check, and tree-walk a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterpret,
}

func init() {
	interpretCmd.Flags().BoolVar(&skipCheck, "skip-check", false, "run without type-checking first")
	rootCmd.AddCommand(interpretCmd)
}

func runInterpret(_ *cobra.Command, args []string) error {
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

	if !skipCheck {
		_, typeErrs := sharpts.Check(prog)
		if len(typeErrs) > 0 {
			for _, te := range typeErrs {
				f.Format(os.Stderr, errorsx.FromTypeCheckError(filename, te), source)
			}
			return fmt.Errorf("type checking failed with %d error(s)", len(typeErrs))
		}
	}

	collab := &host.Collaborators{Tasks: host.NewDeterministicScheduler()}
	it := interp.New(collab)
	it.Output = func(line string) { fmt.Println(line) }

	cp := closure.Analyze(prog)
	sp := suspend.Analyze(prog)
	if err := it.Interpret(prog, cp, sp, source); err != nil {
		return fmt.Errorf("running %s: %w", filename, err)
	}
	return nil
}
