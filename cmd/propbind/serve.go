package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/propbind"
	"github.com/aretw0/propbind/internal/cli"
	"github.com/aretw0/propbind/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only inspection HTTP server",
	Long: `Serves /keys, /keys/{key}, /check, /health, /info, /openapi.yaml and /metrics for the configured source.

With --mcp the source is exposed to MCP clients instead: --mcp (or --mcp=stdio)
speaks over stdin/stdout and --mcp=sse listens on --port.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		port, _ := cmd.Flags().GetString("port")
		transport, _ := cmd.Flags().GetString("mcp")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src, closer, err := openSource(ctx, cmd, logger)
		if err != nil {
			return err
		}
		defer closer()

		if transport != "" {
			return cli.ServeMCP(ctx, cli.MCPOptions{
				Transport: transport,
				Addr:      ":" + port,
				In:        cmd.InOrStdin(),
				Out:       cmd.OutOrStdout(),
			}, src, logger)
		}

		if cli.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout(), propbind.Version)
		}
		return cli.Serve(ctx, ":"+port, src, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("mcp", "", "Serve MCP instead of HTTP (stdio or sse)")
	serveCmd.Flags().Lookup("mcp").NoOptDefVal = cli.TransportStdio
}
