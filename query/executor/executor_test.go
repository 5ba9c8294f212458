package executor_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querystudio-go/query/cache"
	"github.com/satishbabariya/querystudio-go/query/executor"
	"github.com/satishbabariya/querystudio-go/query/model"
	"github.com/satishbabariya/querystudio-go/query/sqlgen"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	stmts := []string{
		`CREATE TABLE users (id INTEGER, name TEXT, active BOOLEAN)`,
		`INSERT INTO users VALUES (1, 'alice', true)`,
		`INSERT INTO users VALUES (2, 'bob', false)`,
		`INSERT INTO users VALUES (3, 'carol', true)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func usersQuery() model.Query {
	q := model.NewQuery()
	q, alias := model.AddTable(q, "", "users", []model.ColumnInfo{
		{Name: "id", DataType: "integer"},
		{Name: "name", DataType: "text"},
		{Name: "active", DataType: "boolean"},
	})
	q = model.AddColumn(q, model.SelectedColumn{ID: "c1", TableAlias: alias, ColumnName: "id"})
	q = model.AddColumn(q, model.SelectedColumn{ID: "c2", TableAlias: alias, ColumnName: "name"})
	q = model.AddOrderBy(q, model.OrderByColumn{ID: "o1", TableAlias: alias, ColumnName: "id", Direction: model.SortAsc})
	return q
}

func TestExecutor_RunCompiledQuery(t *testing.T) {
	db := openTestDB(t)
	exec := executor.NewExecutor(executor.FromDB(db, sqlgen.DuckDB))

	q := usersQuery()
	root := model.ConditionGroup{ID: "g1", Operator: model.LogicAnd, Conditions: []model.Condition{
		{ID: "w1", TableAlias: "users", ColumnName: "active", Operator: model.OpEquals, Value: true},
	}}
	q = model.WithWhere(q, &root)

	res, err := exec.Run(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.EqualValues(t, 1, res.Rows[0][0])
	assert.Equal(t, "alice", res.Rows[0][1])
	assert.EqualValues(t, 3, res.Rows[1][0])
	assert.Equal(t, "carol", res.Rows[1][1])
	assert.False(t, res.Truncated)
	assert.Contains(t, res.SQL, "WHERE users.active = true")
}

func TestExecutor_TruncatesAtRowCap(t *testing.T) {
	db := openTestDB(t)
	exec := executor.NewExecutor(executor.FromDB(db, sqlgen.DuckDB))
	exec.MaxRows = 2

	res, err := exec.Run(context.Background(), usersQuery())
	require.NoError(t, err)

	assert.Len(t, res.Rows, 2)
	assert.True(t, res.Truncated)
}

func TestExecutor_CachesResults(t *testing.T) {
	db := openTestDB(t)
	exec := executor.NewExecutor(executor.FromDB(db, sqlgen.DuckDB)).
		WithCache(cache.NewLRUCache(8, 0), time.Minute)

	first, err := exec.Run(context.Background(), usersQuery())
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	// Data changes are invisible to a cached result until the entry
	// expires.
	_, err = db.Exec(`INSERT INTO users VALUES (4, 'dave', true)`)
	require.NoError(t, err)

	second, err := exec.Run(context.Background(), usersQuery())
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Len(t, second.Rows, len(first.Rows))
}

func TestExecutor_ReportsQueryErrors(t *testing.T) {
	db := openTestDB(t)
	exec := executor.NewExecutor(executor.FromDB(db, sqlgen.DuckDB))

	_, err := exec.RunSQL(context.Background(), "SELECT nope FROM missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query execution failed")
}

func TestOpen_RefusesDialectWithoutDriver(t *testing.T) {
	_, err := executor.Open("sqlserver", "server=localhost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no driver available")
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := executor.Open("oracle", "")
	assert.ErrorIs(t, err, sqlgen.ErrUnknownDialect)
}
