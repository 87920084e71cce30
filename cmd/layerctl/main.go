package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/layersearch/internal/app"
	"github.com/kailas-cloud/layersearch/internal/config"
	logpkg "github.com/kailas-cloud/layersearch/internal/logger"
	"github.com/kailas-cloud/layersearch/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:           "layerctl",
	Short:         "Search attribute tables of a layer database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default: config/<ENV>.yaml)")
	pf.StringVar(&flags.dbPath, "db", "", "layer database path, overrides the config")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newLayersCmd(),
		newSearchCmd(),
		newValuesCmd(),
		newExportCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "layerctl", version.String())
			},
		},
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// open loads configuration and wires the application for one command.
func open(ctx context.Context) (*app.App, func(), error) {
	env := config.GetEnv()

	var (
		cfg config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, nil, err
	}
	if flags.dbPath != "" {
		cfg.Database.Path = flags.dbPath
	}
	// The CLI never needs the cache; sampling goes straight to the database.
	cfg.Cache.Addrs = nil

	logger, err := logpkg.NewLogger(env, logpkg.WithLevel(flags.logLevel))
	if err != nil {
		return nil, nil, err
	}

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}

	return a, func() {
		a.Close()
		_ = logger.Sync()
	}, nil
}
