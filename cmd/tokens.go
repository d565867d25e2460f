package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gnolang/ntt/token"
	"github.com/gnolang/ntt/tokenizer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the tokens of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return printTokens(cmd.OutOrStdout(), args[0], src)
	},
}

func printTokens(w io.Writer, filename string, src []byte) error {
	file := token.NewFile(filename, src)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tok := range tokenizer.Tokenize(string(src)) {
		pos := file.Position(tok.Offset)
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\n", pos.Line, pos.Column, tok.Kind, tok.Value())
	}
	return tw.Flush()
}
