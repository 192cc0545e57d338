package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/bizdesk-backend/internal/config"
	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/logger"
)

// NewRootCommand builds bizctl with every subcommand attached.
func NewRootCommand(version string) *cobra.Command {
	var (
		dataDir string
		envFile string
		format  string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "bizctl",
		Short: "bizctl - maintenance tool for the bizdesk data directory",
		Long: `bizctl works directly on the JSON files of a bizdesk data directory.
Stop the API server before running commands that rewrite data.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			f, err := ParseFormat(format)
			if err != nil {
				return err
			}

			level := "warn"
			if verbose {
				level = "debug"
			}
			log, err := logger.New(logger.Config{Level: level, Format: cfg.LogFormat})
			if err != nil {
				return err
			}
			log.SetOutput(os.Stderr)

			db, err := jsonstore.Open(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("failed to open data directory: %w", err)
			}
			cmd.SetContext(WithEnv(cmd.Context(), &Env{
				Config:  cfg,
				DB:      db,
				Log:     log,
				Printer: NewPrinter(cmd.OutOrStdout(), f),
			}))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: $DATA_DIR or ./data)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: .env when present)")
	root.PersistentFlags().StringVarP(&format, "output", "o", "table", "output format (table, json, yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(
		NewInitCommand(),
		NewStatsCommand(),
		NewConvertCommand(),
		NewConvertCurrencyCommand(),
		NewMigrateCommand(),
	)
	root.SetVersionTemplate("bizctl version {{.Version}}\n")
	return root
}
