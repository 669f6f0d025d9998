package main

import (
	"fmt"
	"log/slog"
	"os"
	goruntime "runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dmsweep/internal/cli"
	"dmsweep/internal/config"
	"dmsweep/internal/logging"
	"dmsweep/internal/paths"
)

var (
	// Build info (set via ldflags).
	Version = "dev"
	Build   = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dmsweep",
		Short: "Sweep your own messages out of direct-message threads",
		Long: `dmsweep is an interactive client for direct-message threads:
list conversations, pull unbounded history through cursor pagination,
search it by keyword, and bulk-unsend your own matching messages
after an explicit confirmation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("dmsweep v{{.Version}} (build: " + Build + ", " + goruntime.Version() + ")\n")
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	// A .env in the working directory is optional.
	_ = godotenv.Load()
	logging.Init()

	dir, err := paths.EnsureSettingsDir()
	if err != nil {
		return err
	}

	cfg, err := config.Load(paths.ConfigFile(dir))
	if err != nil {
		return err
	}

	app := cli.NewApp(cfg, paths.SessionFile(dir))

	// Try the persisted session; failure just means a manual login.
	ctx := cmd.Context()
	if result, err := app.RestoreSession(ctx); err == nil {
		fmt.Print(cli.FormatLogin(result))
	} else {
		slog.Debug("no restorable session", "err", err)
	}

	return cli.NewMenu(app, os.Stdin, os.Stdout).Run(ctx)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dmsweep v%s (build: %s, %s)\n", Version, Build, goruntime.Version())
		},
	}
}
