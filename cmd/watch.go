package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ntt/check"
	"github.com/gnolang/ntt/formatter"
	tt "github.com/gnolang/ntt/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-check files whenever they are written",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w, err := check.NewWatcher(engine, logger, func(filename string, issues []tt.Issue, err error) {
			if err != nil {
				return
			}
			if len(issues) == 0 {
				fmt.Fprintf(out, "%s: no issues\n", filename)
				return
			}
			sourceCode, _ := check.ReadSourceCode(filename)
			fmt.Fprint(out, formatter.GenerateFormattedIssue(issues, sourceCode))
		})
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Add(args...); err != nil {
			return err
		}
		logger.Info("Watching", zap.Strings("dirs", args))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
