package main

import (
	"errors"

	"github.com/aretw0/propbind/internal/cli"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every key and its raw value",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		src, closer, err := openSource(cmd.Context(), cmd, logger)
		if err != nil {
			return err
		}
		defer closer()

		keyer, ok := src.(ports.Keyer)
		if !ok {
			return errors.New("source does not enumerate its keys")
		}
		keys := keyer.Keys()
		rows := make([]cli.Row, 0, len(keys))
		for _, key := range keys {
			raw, _ := src.Lookup(key)
			rows = append(rows, cli.Row{Key: key, Value: cast.ToString(raw)})
		}
		return cli.Print(cmd.OutOrStdout(), src.String(), cli.Row{Key: "key", Value: "raw value"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
