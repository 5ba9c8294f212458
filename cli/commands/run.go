package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querystudio-go/cli/internal/ui"
	"github.com/satishbabariya/querystudio-go/query/executor"
	"github.com/satishbabariya/querystudio-go/query/validator"
)

var (
	runDialect string
	runURL     string
	runMaxRows int
	runShowSQL bool
)

var runCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a saved query and show the result grid",
	Long: `Load a saved query document, compile it for the connected database
and execute it. Results render as a grid, capped at the configured row
limit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRun(args[0])
	},
}

func init() {
	runCmd.Flags().StringVarP(&runDialect, "dialect", "d", "", "Database dialect (default: the document's, then configuration)")
	runCmd.Flags().StringVar(&runURL, "url", "", "Database connection URL (default from configuration)")
	runCmd.Flags().IntVar(&runMaxRows, "max-rows", 0, "Cap the result grid at this many rows")
	runCmd.Flags().BoolVar(&runShowSQL, "sql", false, "Print the compiled SQL before the grid")
	rootCmd.AddCommand(runCmd)
}

func runRun(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	doc, err := st.Load(name)
	if err != nil {
		return err
	}

	if result := validator.Validate(doc.Query); !result.Valid {
		ui.PrintError("Query %q does not validate:", name)
		ui.PrintList(result.Errors)
		return fmt.Errorf("query %q is invalid", name)
	}

	// The document remembers the dialect it was built against; a flag
	// overrides it, configuration fills the gap.
	dialect := runDialect
	if dialect == "" {
		dialect = doc.Dialect
	}

	conn, err := connectDB(ctx, cfg, dialect, runURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	exec := executor.NewExecutor(conn)
	if runMaxRows > 0 {
		exec.MaxRows = runMaxRows
	} else if cfg.MaxRows > 0 {
		exec.MaxRows = cfg.MaxRows
	}

	res, err := exec.Run(ctx, doc.Query)
	if err != nil {
		return err
	}

	if runShowSQL {
		ui.PrintSQL(res.SQL)
	}
	ui.PrintResultGrid(res.Columns, res.Rows)

	footer := fmt.Sprintf("%d rows in %s", len(res.Rows), res.Elapsed.Round(time.Millisecond))
	if res.Truncated {
		ui.PrintWarning("%s (truncated at %d rows)", footer, exec.MaxRows)
	} else {
		ui.PrintSuccess("%s", footer)
	}
	return nil
}
