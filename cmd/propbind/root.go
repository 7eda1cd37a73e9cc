package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/propbind/internal/cli"
	"github.com/aretw0/propbind/internal/logging"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "propbind",
	Short: "Inspect flat property sources",
	Long: `propbind reads properties, YAML and JSON files, environment variables,
Redis hashes, Loam documents and locale bundles, expands [key] references and
reports what a typed contract would see.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringArrayP("file", "f", nil, "Properties, YAML or JSON file (repeatable, later files win)")
	flags.Bool("env", false, "Read environment variables")
	flags.String("env-prefix", "", "Environment variable prefix (implies --env)")
	flags.String("redis", "", "Redis address holding a properties hash")
	flags.String("redis-hash", "", "Redis hash name")
	flags.String("loam-dir", ".", "Loam repository directory")
	flags.String("loam-doc", "", "Loam document whose metadata is read")
	flags.String("bundle-dir", "", "Directory of locale bundle files")
	flags.String("bundle", "messages", "Bundle base name")
	flags.String("locale", "", "Locale used to resolve the bundle (e.g. fr-CA)")
	flags.Bool("debug", false, "Enable debug logging")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return logging.New(logging.Level(debug))
}

// openSource builds the layered source selected by the persistent flags.
func openSource(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (ports.Source, func() error, error) {
	flags := cmd.Flags()
	files, _ := flags.GetStringArray("file")
	useEnv, _ := flags.GetBool("env")
	prefix, _ := flags.GetString("env-prefix")
	redisAddr, _ := flags.GetString("redis")
	redisHash, _ := flags.GetString("redis-hash")
	loamDir, _ := flags.GetString("loam-dir")
	loamDoc, _ := flags.GetString("loam-doc")
	bundleDir, _ := flags.GetString("bundle-dir")
	bundleName, _ := flags.GetString("bundle")
	locale, _ := flags.GetString("locale")

	return cli.BuildSource(ctx, cli.SourceOptions{
		Files:      files,
		UseEnv:     useEnv,
		EnvPrefix:  prefix,
		RedisAddr:  redisAddr,
		RedisHash:  redisHash,
		LoamDir:    loamDir,
		LoamDoc:    loamDoc,
		BundleDir:  bundleDir,
		BundleName: bundleName,
		Locale:     locale,
	}, logger)
}
