package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/querystudio-go/cli/internal/config"
	"github.com/satishbabariya/querystudio-go/cli/internal/ui"
	"github.com/satishbabariya/querystudio-go/introspect"
	"github.com/satishbabariya/querystudio-go/query/builder"
	"github.com/satishbabariya/querystudio-go/query/cache"
	"github.com/satishbabariya/querystudio-go/query/executor"
	"github.com/satishbabariya/querystudio-go/query/model"
	"github.com/satishbabariya/querystudio-go/store"
)

// previewRows caps the interactive preview grid.
const previewRows = 25

// previewCacheTTL bounds how stale a repeated preview may be.
const previewCacheTTL = time.Minute

var (
	buildDialect string
	buildURL     string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a query interactively",
	Long: `Build a query step by step against the connected database.

The builder introspects the database schema, suggests joins along
foreign keys, previews the compiled SQL after every edit and saves the
finished query as a document for run and compile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild()
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildDialect, "dialect", "d", "", "Database dialect (default from configuration)")
	buildCmd.Flags().StringVar(&buildURL, "url", "", "Database connection URL (default from configuration)")
	rootCmd.AddCommand(buildCmd)
}

// Menu entries of the interactive loop.
const (
	menuAddTable    = "Add table"
	menuRemoveTable = "Remove table"
	menuAddJoin     = "Add join"
	menuColumns     = "Select columns"
	menuAggregate   = "Add aggregate"
	menuFilter      = "Set filter (WHERE)"
	menuClearFilter = "Clear filter"
	menuGroupBy     = "Group by"
	menuHaving      = "Add HAVING condition"
	menuOrderBy     = "Order by"
	menuLimits      = "Limit and offset"
	menuPreview     = "Preview SQL"
	menuRunPreview  = "Run preview"
	menuSave        = "Save and exit"
	menuQuit        = "Quit without saving"
)

func runBuild() error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	spinner, _ := ui.PrintSpinner("Connecting to database...")
	conn, err := connectDB(ctx, cfg, buildDialect, buildURL)
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
	if len(catalog.Tables) == 0 {
		spinner.Fail("No tables")
		return fmt.Errorf("the database has no tables to build against")
	}
	spinner.Success(fmt.Sprintf("Found %d tables", len(catalog.Tables)))

	ui.PrintHeader("QueryStudio", fmt.Sprintf("Building a %s query", conn.Dialect().Name))

	loop := &buildLoop{
		cfg:     cfg,
		conn:    conn,
		catalog: catalog,
		session: builder.NewSession(nil),
		store:   openStore(cfg),
		results: cache.NewLRUCache(32, previewCacheTTL),
	}
	return loop.run(ctx)
}

// buildLoop holds the state of one interactive build.
type buildLoop struct {
	cfg     *config.Config
	conn    *executor.Conn
	catalog *introspect.Catalog
	session *builder.Session
	store   *store.Store
	results cache.Cache
}

func (b *buildLoop) run(ctx context.Context) error {
	for {
		var choice string
		prompt := &survey.Select{Message: "Next step:", Options: b.menu(), PageSize: 15}
		if err := survey.AskOne(prompt, &choice); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				ui.PrintInfo("Aborted")
				return nil
			}
			return err
		}

		var err error
		switch choice {
		case menuAddTable:
			err = b.addTable()
		case menuRemoveTable:
			err = b.removeTable()
		case menuAddJoin:
			err = b.addJoin()
		case menuColumns:
			err = b.selectColumns()
		case menuAggregate:
			err = b.addAggregate()
		case menuFilter:
			err = b.setFilter()
		case menuClearFilter:
			b.session.ClearWhere()
			ui.PrintSuccess("Filter cleared")
		case menuGroupBy:
			err = b.addGroupBy()
		case menuHaving:
			err = b.addHaving()
		case menuOrderBy:
			err = b.addOrderBy()
		case menuLimits:
			err = b.setLimits()
		case menuPreview:
			b.preview()
		case menuRunPreview:
			err = b.runPreview(ctx)
		case menuSave:
			return b.save()
		case menuQuit:
			return nil
		}

		// Interrupt inside an action returns to the menu.
		if err != nil && !errors.Is(err, terminal.InterruptErr) {
			return err
		}
		b.printState()
	}
}

// menu assembles the options that make sense for the current query.
func (b *buildLoop) menu() []string {
	q := b.session.Query()

	options := []string{menuAddTable}
	if len(q.Tables) > 0 {
		options = append(options, menuColumns, menuAggregate, menuFilter)
		if q.Where != nil {
			options = append(options, menuClearFilter)
		}
		options = append(options, menuGroupBy)
		if len(q.GroupBy) > 0 {
			options = append(options, menuHaving)
		}
		options = append(options, menuOrderBy, menuLimits, menuRemoveTable)
	}
	if len(q.Tables) > 1 {
		options = append(options, menuAddJoin)
	}
	options = append(options, menuPreview)
	if len(q.Tables) > 0 {
		options = append(options, menuRunPreview, menuSave)
	}
	return append(options, menuQuit)
}

// printState shows the compiled SQL after each edit, plus any model
// issues, which the session API should never produce.
func (b *buildLoop) printState() {
	fmt.Println(ui.SecondaryStyle.Render("  " + b.session.SQL(b.conn.Dialect())))
	for _, issue := range b.session.Issues() {
		ui.PrintWarning("%s", issue.Message)
	}
}

func (b *buildLoop) addTable() error {
	options := make([]string, 0, len(b.catalog.Tables))
	for _, t := range b.catalog.Tables {
		options = append(options, t.Name)
	}

	var choice string
	if err := survey.AskOne(&survey.Select{Message: "Table to add:", Options: options, PageSize: 12}, &choice); err != nil {
		return err
	}

	t := b.catalog.Table(choice)
	alias := b.session.AddTable(t.Schema, t.Name, t.ColumnInfo())
	ui.PrintSuccess("Added %s AS %s", t.Name, alias)

	return b.offerJoins(alias)
}

// offerJoins proposes foreign-key joins for a freshly added table.
func (b *buildLoop) offerJoins(alias string) error {
	q := b.session.Query()
	if len(q.Tables) < 2 {
		return nil
	}
	suggestions := introspect.SuggestJoins(b.catalog, q, alias)
	if len(suggestions) == 0 {
		return nil
	}

	const skip = "Skip"
	labels := make([]string, 0, len(suggestions)+1)
	for _, j := range suggestions {
		labels = append(labels, joinLabel(j))
	}
	labels = append(labels, skip)

	var pick string
	if err := survey.AskOne(&survey.Select{Message: "Join on:", Options: labels}, &pick); err != nil {
		return err
	}
	for i, l := range labels[:len(labels)-1] {
		if l == pick {
			j := suggestions[i]
			b.session.AddJoin(j.Type, j.LeftAlias, j.LeftColumn, j.RightAlias, j.RightColumn)
			ui.PrintSuccess("Joined on %s", pick)
		}
	}
	return nil
}

func joinLabel(j model.Join) string {
	return fmt.Sprintf("%s.%s = %s.%s", j.LeftAlias, j.LeftColumn, j.RightAlias, j.RightColumn)
}

func (b *buildLoop) removeTable() error {
	alias, err := b.pickAlias("Remove which table?")
	if err != nil {
		return err
	}

	refs := b.session.TableReferences(alias)
	if refs.Total() > 0 {
		confirmed := false
		msg := fmt.Sprintf("Removing %s also drops %d dependent parts (columns, joins, conditions). Continue?", alias, refs.Total())
		if err := survey.AskOne(&survey.Confirm{Message: msg}, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	b.session.RemoveTable(alias)
	ui.PrintSuccess("Removed %s", alias)
	return nil
}

func (b *buildLoop) addJoin() error {
	q := b.session.Query()

	// Collect suggestions for every table, newest first, then allow a
	// manual join.
	const manual = "Manual..."
	var suggestions []model.Join
	for i := len(q.Tables) - 1; i >= 0; i-- {
		suggestions = append(suggestions, introspect.SuggestJoins(b.catalog, q, q.Tables[i].Alias)...)
	}

	labels := make([]string, 0, len(suggestions)+1)
	for _, j := range suggestions {
		labels = append(labels, joinLabel(j))
	}
	labels = append(labels, manual)

	var pick string
	if err := survey.AskOne(&survey.Select{Message: "Join on:", Options: labels, PageSize: 12}, &pick); err != nil {
		return err
	}

	if pick != manual {
		for i, l := range labels[:len(labels)-1] {
			if l == pick {
				j := suggestions[i]
				b.session.AddJoin(j.Type, j.LeftAlias, j.LeftColumn, j.RightAlias, j.RightColumn)
				ui.PrintSuccess("Joined on %s", pick)
				return nil
			}
		}
		return nil
	}

	leftAlias, err := b.pickAlias("Left table:")
	if err != nil {
		return err
	}
	leftColumn, err := b.pickColumn(leftAlias, "Left column:")
	if err != nil {
		return err
	}
	rightAlias, err := b.pickAlias("Right table:")
	if err != nil {
		return err
	}
	rightColumn, err := b.pickColumn(rightAlias, "Right column:")
	if err != nil {
		return err
	}

	var joinType string
	joinTypes := []string{string(model.JoinInner), string(model.JoinLeft), string(model.JoinRight), string(model.JoinFull)}
	if err := survey.AskOne(&survey.Select{Message: "Join type:", Options: joinTypes}, &joinType); err != nil {
		return err
	}

	b.session.AddJoin(model.JoinType(joinType), leftAlias, leftColumn, rightAlias, rightColumn)
	ui.PrintSuccess("Joined %s.%s = %s.%s", leftAlias, leftColumn, rightAlias, rightColumn)
	return nil
}

func (b *buildLoop) selectColumns() error {
	alias, err := b.pickAlias("Columns from which table?")
	if err != nil {
		return err
	}

	t, ok := model.TableByAlias(b.session.Query(), alias)
	if !ok {
		return nil
	}
	options := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		options = append(options, col.Name)
	}

	var picks []string
	if err := survey.AskOne(&survey.MultiSelect{Message: "Columns:", Options: options, PageSize: 12}, &picks); err != nil {
		return err
	}
	for _, name := range picks {
		b.session.AddColumn(alias, name)
	}
	if len(picks) > 0 {
		ui.PrintSuccess("Added %d columns", len(picks))
	}
	return nil
}

func (b *buildLoop) addAggregate() error {
	aggregates := []string{
		string(model.AggCount),
		string(model.AggSum),
		string(model.AggAvg),
		string(model.AggMin),
		string(model.AggMax),
		string(model.AggCountDistinct),
	}
	var aggName string
	if err := survey.AskOne(&survey.Select{Message: "Aggregate:", Options: aggregates}, &aggName); err != nil {
		return err
	}

	alias, err := b.pickAlias("Over which table?")
	if err != nil {
		return err
	}
	column, err := b.pickColumn(alias, "Over which column?")
	if err != nil {
		return err
	}

	id := b.session.AddColumn(alias, column)
	agg := model.Aggregate(aggName)
	b.session.UpdateColumn(id, model.ColumnPatch{Aggregate: &agg})
	ui.PrintSuccess("Added %s(%s.%s)", aggName, alias, column)
	return nil
}

func (b *buildLoop) setFilter() error {
	var expr string
	prompt := &survey.Input{
		Message: "Filter expression:",
		Help:    "Example: users.status = 'active' AND (users.role = 'admin' OR users.verified = true)",
	}
	if err := survey.AskOne(prompt, &expr); err != nil {
		return err
	}
	if strings.TrimSpace(expr) == "" {
		return nil
	}

	if err := b.session.ApplyFilter(expr); err != nil {
		ui.PrintError("Invalid filter: %v", err)
		return nil
	}
	ui.PrintSuccess("Filter applied")
	return nil
}

func (b *buildLoop) addGroupBy() error {
	alias, err := b.pickAlias("Group by which table?")
	if err != nil {
		return err
	}
	column, err := b.pickColumn(alias, "Group by which column?")
	if err != nil {
		return err
	}
	b.session.AddGroupBy(alias, column)
	ui.PrintSuccess("Grouping by %s.%s", alias, column)
	return nil
}

func (b *buildLoop) addHaving() error {
	aggregates := []string{
		string(model.AggCount),
		string(model.AggSum),
		string(model.AggAvg),
		string(model.AggMin),
		string(model.AggMax),
	}
	var aggName string
	if err := survey.AskOne(&survey.Select{Message: "Aggregate:", Options: aggregates}, &aggName); err != nil {
		return err
	}
	alias, err := b.pickAlias("Over which table?")
	if err != nil {
		return err
	}
	column, err := b.pickColumn(alias, "Over which column?")
	if err != nil {
		return err
	}

	operators := []string{"=", "!=", ">", "<", ">=", "<="}
	var op string
	if err := survey.AskOne(&survey.Select{Message: "Operator:", Options: operators}, &op); err != nil {
		return err
	}

	var raw string
	if err := survey.AskOne(&survey.Input{Message: "Value:"}, &raw, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	b.session.AddHaving(model.HavingCondition{
		Aggregate:  model.Aggregate(aggName),
		TableAlias: alias,
		ColumnName: column,
		Operator:   model.Operator(op),
		Value:      parseLiteral(raw),
	})
	ui.PrintSuccess("Having %s(%s.%s) %s %s", aggName, alias, column, op, raw)
	return nil
}

func (b *buildLoop) addOrderBy() error {
	alias, err := b.pickAlias("Order by which table?")
	if err != nil {
		return err
	}
	column, err := b.pickColumn(alias, "Order by which column?")
	if err != nil {
		return err
	}

	var dir string
	if err := survey.AskOne(&survey.Select{Message: "Direction:", Options: []string{string(model.SortAsc), string(model.SortDesc)}}, &dir); err != nil {
		return err
	}

	b.session.AddOrderBy(alias, column, model.SortDirection(dir))
	ui.PrintSuccess("Ordering by %s.%s %s", alias, column, dir)
	return nil
}

func (b *buildLoop) setLimits() error {
	limit, cleared, err := askCount("Limit (empty to clear):")
	if err != nil {
		return err
	}
	if cleared {
		b.session.ClearLimit()
	} else {
		b.session.SetLimit(limit)
	}

	offset, cleared, err := askCount("Offset (empty to clear):")
	if err != nil {
		return err
	}
	if cleared {
		b.session.ClearOffset()
	} else {
		b.session.SetOffset(offset)
	}
	return nil
}

func (b *buildLoop) preview() {
	ui.PrintSQL(b.session.SQL(b.conn.Dialect()))

	result := b.session.Validate()
	if result.Valid {
		ui.PrintSuccess("Query is valid")
		return
	}
	ui.PrintWarning("Validation reported %d problems:", len(result.Errors))
	ui.PrintList(result.Errors)
}

func (b *buildLoop) runPreview(ctx context.Context) error {
	result := b.session.Validate()
	if !result.Valid {
		ui.PrintWarning("Query does not validate:")
		ui.PrintList(result.Errors)
		return nil
	}

	exec := executor.NewExecutor(b.conn).WithCache(b.results, 0)
	exec.MaxRows = previewRows

	res, err := exec.Run(ctx, b.session.Query())
	if err != nil {
		ui.PrintError("%v", err)
		return nil
	}

	ui.PrintResultGrid(res.Columns, res.Rows)
	if res.Truncated {
		ui.PrintInfo("Preview truncated at %d rows", previewRows)
	}
	if res.FromCache {
		ui.PrintInfo("Served from cache")
	}
	return nil
}

func (b *buildLoop) save() error {
	result := b.session.Validate()
	if !result.Valid {
		ui.PrintWarning("Query does not validate:")
		ui.PrintList(result.Errors)

		anyway := false
		if err := survey.AskOne(&survey.Confirm{Message: "Save anyway?"}, &anyway); err != nil {
			return err
		}
		if !anyway {
			return nil
		}
	}

	var name string
	if err := survey.AskOne(&survey.Input{Message: "Save as:"}, &name, survey.WithValidator(survey.Required)); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}
		return err
	}

	doc := &store.Document{
		Name:    name,
		Dialect: string(b.conn.Dialect().Name),
		Query:   b.session.Query(),
	}
	if err := b.store.Save(doc); err != nil {
		return err
	}

	ui.PrintBox("Saved "+name, fmt.Sprintf("Run it:      querystudio run %s\nCompile it:  querystudio compile %s --dialect mysql", name, name))
	return nil
}

// pickAlias asks for one of the query's table aliases, skipping the
// prompt when only one table is present.
func (b *buildLoop) pickAlias(message string) (string, error) {
	q := b.session.Query()
	if len(q.Tables) == 1 {
		return q.Tables[0].Alias, nil
	}

	options := make([]string, 0, len(q.Tables))
	for _, t := range q.Tables {
		options = append(options, t.Alias)
	}
	var alias string
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &alias)
	return alias, err
}

// pickColumn asks for a column of the table under the given alias.
func (b *buildLoop) pickColumn(alias, message string) (string, error) {
	t, ok := model.TableByAlias(b.session.Query(), alias)
	if !ok {
		return "", fmt.Errorf("unknown table alias %q", alias)
	}

	options := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		options = append(options, col.Name)
	}
	var column string
	err := survey.AskOne(&survey.Select{Message: message, Options: options, PageSize: 12}, &column)
	return column, err
}

// askCount prompts for a non-negative whole number; an empty answer
// reports cleared.
func askCount(message string) (int, bool, error) {
	validator := func(ans interface{}) error {
		s, _ := ans.(string)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return fmt.Errorf("enter a non-negative whole number")
		}
		return nil
	}

	var raw string
	if err := survey.AskOne(&survey.Input{Message: message}, &raw, survey.WithValidator(validator)); err != nil {
		return 0, false, err
	}
	if raw == "" {
		return 0, true, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, nil
	}
	return n, false, nil
}

// parseLiteral interprets user input the way filter expressions do:
// numbers and booleans by shape, everything else as text.
func parseLiteral(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if strings.EqualFold(s, "true") {
		return true
	}
	if strings.EqualFold(s, "false") {
		return false
	}
	return s
}
