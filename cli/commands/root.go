// Package commands implements the querystudio CLI commands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querystudio-go/cli/internal/config"
	"github.com/satishbabariya/querystudio-go/internal/debug"
	"github.com/satishbabariya/querystudio-go/query/executor"
	"github.com/satishbabariya/querystudio-go/store"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "querystudio",
	Short: "Build, inspect and run SQL queries from the terminal",
	Long: `QueryStudio is a terminal workbench for relational queries.

Build queries interactively against a live database schema, save them
as shareable documents, compile them to dialect-specific SQL, and run
them with a result preview.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			debug.Init(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// Execute is the main entry point for the CLI
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the CLI configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openStore creates the query document store from configuration
func openStore(cfg *config.Config) *store.Store {
	return store.NewStore(config.AppFs, cfg.QueriesDir, store.Format(cfg.Format))
}

// connectDB opens and pings a database connection. An empty dialect or
// URL falls back to the configured ones. Only DuckDB may run without a
// database URL, as an in-memory database.
func connectDB(ctx context.Context, cfg *config.Config, dialect, url string) (*executor.Conn, error) {
	if dialect == "" {
		dialect = cfg.Dialect
	}
	if url == "" {
		url = cfg.DatabaseURL
	}
	if url == "" && dialect != "duckdb" {
		return nil, fmt.Errorf("no database URL configured. Pass --url, or set QUERYSTUDIO_DATABASE_URL, DATABASE_URL or database_url in .querystudio.yaml")
	}

	conn, err := executor.Open(dialect, url)
	if err != nil {
		return nil, err
	}
	if err := conn.Connect(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}
