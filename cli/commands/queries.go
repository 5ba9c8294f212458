package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/querystudio-go/cli/internal/ui"
	"github.com/satishbabariya/querystudio-go/query/sqlgen"
)

var queriesCmd = &cobra.Command{
	Use:     "queries",
	Aliases: []string{"q"},
	Short:   "Manage saved query documents",
}

var queriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueriesList()
	},
}

var queriesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved query and its SQL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueriesShow(args[0])
	},
}

var queriesDeleteForce bool

var queriesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueriesDelete(args[0])
	},
}

func init() {
	queriesDeleteCmd.Flags().BoolVarP(&queriesDeleteForce, "force", "f", false, "Delete without confirmation")
	queriesCmd.AddCommand(queriesListCmd)
	queriesCmd.AddCommand(queriesShowCmd)
	queriesCmd.AddCommand(queriesDeleteCmd)
	rootCmd.AddCommand(queriesCmd)
}

func runQueriesList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	names, err := st.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ui.PrintInfo("No saved queries yet. Create one with: querystudio build")
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		doc, err := st.Load(name)
		if err != nil {
			rows = append(rows, []string{name, "?", "?", "?"})
			continue
		}
		dialect := doc.Dialect
		if dialect == "" {
			dialect = cfg.Dialect
		}
		rows = append(rows, []string{
			name,
			dialect,
			strconv.Itoa(len(doc.Query.Tables)),
			doc.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	ui.PrintTable([]string{"Name", "Dialect", "Tables", "Updated"}, rows)
	return nil
}

func runQueriesShow(name string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	doc, err := st.Load(name)
	if err != nil {
		return err
	}

	dialectName := doc.Dialect
	if dialectName == "" {
		dialectName = cfg.Dialect
	}
	d, err := sqlgen.Lookup(dialectName)
	if err != nil {
		d = sqlgen.Postgres
	}

	tables := make([]string, 0, len(doc.Query.Tables))
	for _, t := range doc.Query.Tables {
		tables = append(tables, fmt.Sprintf("%s AS %s", t.Name, t.Alias))
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", doc.Name)
	fmt.Fprintf(&md, "- Dialect: %s\n", d.Name)
	fmt.Fprintf(&md, "- Tables: %s\n", strings.Join(tables, ", "))
	fmt.Fprintf(&md, "- Updated: %s\n", doc.UpdatedAt.Local().Format(time.RFC822))
	fmt.Fprintf(&md, "\n```sql\n%s\n```\n", sqlgen.Compile(doc.Query, d))

	if err := ui.PrintMarkdown(md.String()); err != nil {
		fmt.Println(md.String())
	}
	return nil
}

func runQueriesDelete(name string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	if !queriesDeleteForce {
		confirmed := false
		prompt := &survey.Confirm{Message: fmt.Sprintf("Delete saved query %q?", name)}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			ui.PrintInfo("Aborted")
			return nil
		}
	}

	if err := st.Delete(name); err != nil {
		return err
	}
	ui.PrintSuccess("Deleted %s", name)
	return nil
}
