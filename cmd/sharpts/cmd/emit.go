package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/bytecode"
	"github.com/sharpts/sharpts/internal/closure"
	"github.com/sharpts/sharpts/internal/errorsx"
	"github.com/sharpts/sharpts/pkg/sharpts"
)

var (
	emitOutputFile    string
	emitSkipCheck     bool
	emitDisassemble   bool
	emitVerboseOutput bool
)

var emitCmd = &cobra.Command{
	Use:   "emit [file]",
	Short: "Compile a file ahead-of-time to a bytecode artifact",
	Long: `emit parses and type-checks a file, lowers it to bytecode, and writes
the encoded artifact to disk so it can be loaded and run later without
re-parsing the source.

Examples:
  sharpts emit script.sts
  sharpts emit script.sts -o script.stsc
  sharpts emit script.sts --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)

	emitCmd.Flags().StringVarP(&emitOutputFile, "output", "o", "", "output file (default: <input>.stsc)")
	emitCmd.Flags().BoolVar(&emitSkipCheck, "skip-check", false, "skip type checking before emitting")
	emitCmd.Flags().BoolVar(&emitDisassemble, "disassemble", false, "print disassembled bytecode after emitting")
	emitCmd.Flags().BoolVarP(&emitVerboseOutput, "verbose-emit", "V", false, "verbose emit diagnostics")
}

func runEmit(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	source := string(content)

	if emitVerboseOutput {
		fmt.Fprintf(os.Stderr, "Emitting %s...\n", filename)
	}

	f := errorsx.NewFormatter(os.Stderr)

	prog, parseErrs := sharpts.Parse(source, filename)
	if len(parseErrs) > 0 {
		for _, pe := range parseErrs {
			f.Format(os.Stderr, errorsx.FromParserError(filename, pe), source)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(parseErrs))
	}

	if !emitSkipCheck {
		_, typeErrs := sharpts.Check(prog)
		if len(typeErrs) > 0 {
			for _, te := range typeErrs {
				f.Format(os.Stderr, errorsx.FromTypeCheckError(filename, te), source)
			}
			return fmt.Errorf("type checking failed with %d error(s)", len(typeErrs))
		}
	} else if emitVerboseOutput {
		fmt.Fprintln(os.Stderr, "Type checking skipped")
	}

	cp := closure.Analyze(prog)
	chunk, err := bytecode.NewEmitter(cp).Emit(prog)
	if err != nil {
		return fmt.Errorf("emitting bytecode: %w", err)
	}

	if emitVerboseOutput {
		fmt.Fprintf(os.Stderr, "  Instructions: %d\n", len(chunk.Code))
		fmt.Fprintf(os.Stderr, "  Constants: %d\n", len(chunk.Constants))
		fmt.Fprintf(os.Stderr, "  Locals: %d\n", chunk.LocalCount)
	}

	if emitDisassemble {
		fmt.Fprintf(os.Stderr, "\n== Disassembled Bytecode (%s) ==\n", chunk.Name)
		fmt.Fprintln(os.Stderr, chunk.Disassemble())
	}

	data, err := bytecode.EncodeArtifact(chunk)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	outFile := emitOutputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".stsc"
		} else {
			outFile = filename + ".stsc"
		}
	}

	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return fmt.Errorf("writing output file %s: %w", outFile, err)
	}

	if emitVerboseOutput {
		fmt.Fprintf(os.Stderr, "Artifact written to %s (%s)\n", outFile, humanize.Bytes(uint64(len(data))))
	} else {
		fmt.Printf("Emitted %s -> %s (%s)\n", filename, outFile, humanize.Bytes(uint64(len(data))))
	}

	return nil
}
