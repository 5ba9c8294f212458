package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querystudio-go/cli/internal/ui"
	"github.com/satishbabariya/querystudio-go/introspect"
)

var (
	inspectDialect string
	inspectURL     string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [table]",
	Short: "Inspect the schema of the configured database",
	Long: `Connect to the configured database and list its tables.

With a table name, show that table's columns, primary key and foreign
keys instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := ""
		if len(args) > 0 {
			table = args[0]
		}
		return runInspect(table)
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectDialect, "dialect", "d", "", "Database dialect (default from configuration)")
	inspectCmd.Flags().StringVar(&inspectURL, "url", "", "Database connection URL (default from configuration)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(table string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	spinner, _ := ui.PrintSpinner("Connecting to database...")
	conn, err := connectDB(ctx, cfg, inspectDialect, inspectURL)
	if err != nil {
		spinner.Fail("Connection failed")
		return err
	}
	defer conn.Close()

	intro, err := introspect.NewIntrospector(conn.DB(), string(conn.Dialect().Name))
	if err != nil {
		spinner.Fail("Unsupported dialect")
		return err
	}

	catalog, err := intro.Introspect(ctx)
	if err != nil {
		spinner.Fail("Introspection failed")
		return err
	}
	spinner.Success(fmt.Sprintf("Found %d tables", len(catalog.Tables)))

	if table != "" {
		t := catalog.Table(table)
		if t == nil {
			return fmt.Errorf("table %q not found", table)
		}
		printTableDetail(*t)
		return nil
	}

	rows := make([][]string, 0, len(catalog.Tables))
	for _, t := range catalog.Tables {
		var pk []string
		for _, col := range t.Columns {
			if col.PrimaryKey {
				pk = append(pk, col.Name)
			}
		}
		rows = append(rows, []string{
			t.Name,
			strconv.Itoa(len(t.Columns)),
			strings.Join(pk, ", "),
			strconv.Itoa(len(t.ForeignKeys)),
		})
	}
	ui.PrintTable([]string{"Table", "Columns", "Primary Key", "Foreign Keys"}, rows)
	return nil
}

func printTableDetail(t introspect.Table) {
	ui.PrintSection(t.Name)

	rows := make([][]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		nullable := "NO"
		if col.Nullable {
			nullable = "YES"
		}
		pk := ""
		if col.PrimaryKey {
			pk = "✓"
		}
		rows = append(rows, []string{col.Name, col.DataType, nullable, pk})
	}
	ui.PrintTable([]string{"Column", "Type", "Nullable", "PK"}, rows)

	if len(t.ForeignKeys) > 0 {
		fmt.Println()
		ui.PrintInfo("Foreign keys")
		items := make([]string, 0, len(t.ForeignKeys))
		for _, fk := range t.ForeignKeys {
			items = append(items, fmt.Sprintf("%s references %s.%s", fk.Column, fk.RefTable, fk.RefColumn))
		}
		ui.PrintList(items)
	}

	if len(t.Indexes) > 0 {
		fmt.Println()
		ui.PrintInfo("Indexes")
		items := make([]string, 0, len(t.Indexes))
		for _, ix := range t.Indexes {
			label := fmt.Sprintf("%s (%s)", ix.Name, strings.Join(ix.Columns, ", "))
			if ix.Unique {
				label += " UNIQUE"
			}
			items = append(items, label)
		}
		ui.PrintList(items)
	}
}
