package main

import (
	"fmt"

	"github.com/aretw0/propbind/internal/cli"
	"github.com/aretw0/propbind/pkg/inspect"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get KEY...",
	Short: "Print the expanded value of keys",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		src, closer, err := openSource(cmd.Context(), cmd, logger)
		if err != nil {
			return err
		}
		defer closer()

		verbatim, _ := cmd.Flags().GetBool("verbatim")
		in := inspect.New(src)

		rows := make([]cli.Row, 0, len(args))
		for _, key := range args {
			e, ok := in.Get(key, verbatim)
			if !ok {
				return fmt.Errorf("key %q not found in %s", key, src)
			}
			if e.Err != nil {
				return e.Err
			}
			rows = append(rows, cli.Row{Key: key, Value: e.Value})
		}

		if len(rows) == 1 && !cli.IsTerminal(cmd.OutOrStdout()) {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rows[0].Value)
			return err
		}
		return cli.Print(cmd.OutOrStdout(), "", cli.Row{Key: "key", Value: "value"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().Bool("verbatim", false, "Do not expand [key] references")
}
