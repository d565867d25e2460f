package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnolang/ntt/ast"
	"github.com/gnolang/ntt/parser"
)

var (
	treeRoot    string
	treeGroup   bool
	treeCompact bool
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Print the syntax tree of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		root, err := treeRootKind()
		if err != nil {
			return err
		}

		var tree *ast.Container
		if treeGroup {
			tree = parser.Group(string(src), root)
		} else {
			tree = parser.BuildTree(string(src), root)
		}

		if treeCompact {
			fmt.Fprintln(cmd.OutOrStdout(), ast.Sprint(tree))
			return nil
		}
		ast.Fprint(cmd.OutOrStdout(), tree)
		return nil
	},
}

func init() {
	treeCmd.Flags().StringVar(&treeRoot, "root", "", "Root container kind (Program, Block, Expression...); defaults to the configured root")
	treeCmd.Flags().BoolVar(&treeGroup, "group", false, "Only group brackets, do not structure")
	treeCmd.Flags().BoolVar(&treeCompact, "compact", false, "Print the tree on one line")
}

func treeRootKind() (ast.Kind, error) {
	if treeRoot == "" {
		cfg, err := loadConfig()
		if err != nil {
			return 0, err
		}
		return cfg.RootKind()
	}
	k, ok := ast.ParseKind(treeRoot)
	if !ok || !k.IsContainer() {
		return 0, fmt.Errorf("%q is not a container kind", treeRoot)
	}
	return k, nil
}
