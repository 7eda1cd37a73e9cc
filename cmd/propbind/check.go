package main

import (
	"fmt"

	"github.com/aretw0/propbind/internal/cli"
	"github.com/aretw0/propbind/pkg/inspect"
	"github.com/aretw0/propbind/pkg/substitute"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report dangling and cyclic references",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		src, closer, err := openSource(cmd.Context(), cmd, logger)
		if err != nil {
			return err
		}
		defer closer()

		maxPasses, _ := cmd.Flags().GetInt("max-passes")
		problems, err := inspect.New(src, inspect.WithResolver(substitute.New(substitute.WithMaxPasses(maxPasses)))).Check()
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reference problems found ✅")
			return nil
		}

		rows := make([]cli.Row, len(problems))
		for i, p := range problems {
			rows[i] = cli.Row{Key: p.Key, Value: fmt.Sprintf("%s: %s", p.Kind, p.Detail)}
		}
		if err := cli.Print(cmd.OutOrStdout(), "Problems", cli.Row{Key: "key", Value: "problem"}, rows); err != nil {
			return err
		}
		return fmt.Errorf("%d reference problem(s)", len(problems))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Int("max-passes", substitute.DefaultMaxPasses, "Substitution pass limit")
}
