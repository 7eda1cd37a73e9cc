package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/propbind"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of propbind",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "propbind version %s\n", strings.TrimSpace(propbind.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
