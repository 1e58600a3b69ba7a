package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a file and print its token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(_ *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	for _, tok := range lexer.Tokenize(string(content)) {
		fmt.Printf("%4d:%-3d %-16s %q\n", tok.Pos.Line, tok.Pos.Column, tok.Kind, tok.Lexeme)
	}
	return nil
}
