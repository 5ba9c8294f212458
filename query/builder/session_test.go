package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querystudio-go/query/builder"
	"github.com/satishbabariya/querystudio-go/query/model"
	"github.com/satishbabariya/querystudio-go/query/sqlgen"
)

func newTestSession() *builder.Session {
	return builder.NewSession(&model.SequenceSource{})
}

func usersColumns() []model.ColumnInfo {
	return []model.ColumnInfo{
		{Name: "id", DataType: "integer"},
		{Name: "status", DataType: "text"},
		{Name: "role", DataType: "text"},
		{Name: "verified", DataType: "boolean"},
		{Name: "created_at", DataType: "timestamp"},
	}
}

func TestSession_BuildsAggregationQuery(t *testing.T) {
	s := newTestSession()

	alias := s.AddTable("", "users", usersColumns())
	require.Equal(t, "users", alias)

	s.AddColumn(alias, "id")
	statusID := s.AddColumn(alias, "status")
	count := model.AggCount
	s.UpdateColumn(statusID, model.ColumnPatch{Aggregate: &count})

	root := s.EnsureWhere(model.LogicAnd)
	s.AddCondition(root, model.Condition{
		TableAlias: alias,
		ColumnName: "created_at",
		Operator:   model.OpGreaterOrEqual,
		Value:      "2024-01-01",
	})

	s.AddGroupBy(alias, "status")
	s.AddOrderBy(alias, "status", model.SortAsc)
	s.SetLimit(10)

	want := "SELECT users.id, COUNT(users.status) " +
		"FROM users AS users " +
		"WHERE users.created_at >= '2024-01-01' " +
		"GROUP BY users.status " +
		"ORDER BY users.status ASC " +
		"LIMIT 10"
	assert.Equal(t, want, s.SQL(sqlgen.Postgres))
	assert.Empty(t, s.Issues())

	// The bare id column is not grouped, which the validator flags even
	// though the SQL above still renders.
	result := s.Validate()
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "users.id")
}

func TestSession_NestedGroupRoundTrip(t *testing.T) {
	s := newTestSession()
	alias := s.AddTable("", "users", usersColumns())

	root := s.EnsureWhere(model.LogicOr)
	s.AddCondition(root, model.Condition{
		TableAlias: alias, ColumnName: "status", Operator: model.OpEquals, Value: "active",
	})

	inner, err := s.AddGroup(root, model.LogicAnd)
	require.NoError(t, err)
	require.NotEmpty(t, inner)

	s.AddCondition(inner, model.Condition{
		TableAlias: alias, ColumnName: "role", Operator: model.OpEquals, Value: "admin",
	})
	s.AddCondition(inner, model.Condition{
		TableAlias: alias, ColumnName: "verified", Operator: model.OpEquals, Value: true,
	})

	want := "SELECT * FROM users AS users " +
		"WHERE users.status = 'active' OR (users.role = 'admin' AND users.verified = true)"
	assert.Equal(t, want, s.SQL(sqlgen.Postgres))
}

func TestSession_ApplyFilter(t *testing.T) {
	s := newTestSession()
	s.AddTable("", "users", usersColumns())

	err := s.ApplyFilter("users.status = 'active' OR (users.role = 'admin' AND users.verified = TRUE)")
	require.NoError(t, err)

	want := "SELECT * FROM users AS users " +
		"WHERE users.status = 'active' OR (users.role = 'admin' AND users.verified = true)"
	assert.Equal(t, want, s.SQL(sqlgen.Postgres))

	// A bad expression reports the error and leaves the tree alone.
	err = s.ApplyFilter("users.status =")
	require.Error(t, err)
	assert.Equal(t, want, s.SQL(sqlgen.Postgres))
}

func TestSession_EnsureWhereIsIdempotent(t *testing.T) {
	s := newTestSession()
	first := s.EnsureWhere(model.LogicAnd)
	second := s.EnsureWhere(model.LogicOr)

	assert.Equal(t, first, second)
	assert.Equal(t, model.LogicAnd, s.Query().Where.Operator)
}

func TestSession_AddGroupEnforcesDepthLimit(t *testing.T) {
	s := newTestSession()
	parent := s.EnsureWhere(model.LogicAnd)

	for depth := 1; depth <= model.MaxGroupDepth; depth++ {
		id, err := s.AddGroup(parent, model.LogicOr)
		require.NoError(t, err)
		require.NotEmpty(t, id)
		parent = id
	}

	id, err := s.AddGroup(parent, model.LogicAnd)
	assert.ErrorIs(t, err, model.ErrMaxDepth)
	assert.Empty(t, id)

	q := s.Query()
	deepest := model.FindGroup(q.Where, parent)
	require.NotNil(t, deepest)
	assert.Empty(t, deepest.Groups)
}

func TestSession_AddGroupUnknownParent(t *testing.T) {
	s := newTestSession()

	id, err := s.AddGroup("no_such_group", model.LogicAnd)
	assert.NoError(t, err)
	assert.Empty(t, id)
	assert.Nil(t, s.Query().Where)
}

func TestSession_ConditionLifecycle(t *testing.T) {
	s := newTestSession()
	alias := s.AddTable("", "users", usersColumns())
	root := s.EnsureWhere(model.LogicAnd)

	condID := s.AddCondition(root, model.Condition{
		TableAlias: alias, ColumnName: "status", Operator: model.OpEquals, Value: "active",
	})
	require.NotEmpty(t, condID)
	assert.Contains(t, s.SQL(sqlgen.Postgres), "WHERE users.status = 'active'")

	s.UpdateCondition(model.Condition{
		ID:         condID,
		TableAlias: alias,
		ColumnName: "status",
		Operator:   model.OpNotEquals,
		Value:      "banned",
	})
	assert.Contains(t, s.SQL(sqlgen.Postgres), "WHERE users.status != 'banned'")

	s.RemoveCondition(condID)
	assert.Equal(t, "SELECT * FROM users AS users", s.SQL(sqlgen.Postgres))
}

func TestSession_SetGroupOperator(t *testing.T) {
	s := newTestSession()
	alias := s.AddTable("", "users", usersColumns())
	root := s.EnsureWhere(model.LogicAnd)
	s.AddCondition(root, model.Condition{TableAlias: alias, ColumnName: "status", Value: "active"})
	s.AddCondition(root, model.Condition{TableAlias: alias, ColumnName: "role", Value: "admin"})

	require.Contains(t, s.SQL(sqlgen.Postgres), "'active' AND")
	s.SetGroupOperator(root, model.LogicOr)
	assert.Contains(t, s.SQL(sqlgen.Postgres), "'active' OR")
}

func TestSession_RemoveGroup(t *testing.T) {
	s := newTestSession()
	alias := s.AddTable("", "users", usersColumns())
	root := s.EnsureWhere(model.LogicAnd)
	s.AddCondition(root, model.Condition{TableAlias: alias, ColumnName: "status", Value: "active"})

	inner, err := s.AddGroup(root, model.LogicOr)
	require.NoError(t, err)
	s.AddCondition(inner, model.Condition{TableAlias: alias, ColumnName: "role", Value: "admin"})

	s.RemoveGroup(inner)
	assert.Equal(t, "SELECT * FROM users AS users WHERE users.status = 'active'", s.SQL(sqlgen.Postgres))
}

func TestSession_RemoveTablePrunesReferences(t *testing.T) {
	s := newTestSession()
	users := s.AddTable("", "users", usersColumns())
	orders := s.AddTable("", "orders", []model.ColumnInfo{
		{Name: "id", DataType: "integer"},
		{Name: "user_id", DataType: "integer"},
		{Name: "total", DataType: "numeric"},
	})

	s.AddColumn(users, "id")
	s.AddColumn(orders, "total")
	s.AddJoin(model.JoinLeft, users, "id", orders, "user_id")
	root := s.EnsureWhere(model.LogicAnd)
	s.AddCondition(root, model.Condition{
		TableAlias: orders, ColumnName: "total", Operator: model.OpGreater, Value: 100,
	})
	s.AddOrderBy(orders, "total", model.SortDesc)

	refs := s.TableReferences(orders)
	assert.Equal(t, 4, refs.Total())

	s.RemoveTable(orders)

	q := s.Query()
	assert.Len(t, q.Tables, 1)
	assert.Empty(t, q.Joins)
	assert.Nil(t, q.Where)
	assert.Empty(t, q.OrderBy)
	assert.Equal(t, "SELECT users.id FROM users AS users", s.SQL(sqlgen.Postgres))
}

func TestSession_IssuesRefreshAfterEveryEdit(t *testing.T) {
	s := newTestSession()
	s.AddTable("", "users", usersColumns())

	s.SetLimit(0)
	require.Len(t, s.Issues(), 1)
	assert.Equal(t, model.IssueBadLimit, s.Issues()[0].Code)

	s.SetLimit(25)
	assert.Empty(t, s.Issues())

	s.SetOffset(-1)
	require.Len(t, s.Issues(), 1)
	assert.Equal(t, model.IssueBadOffset, s.Issues()[0].Code)

	s.ClearOffset()
	assert.Empty(t, s.Issues())
}

func TestSession_QueryReturnsDeepCopy(t *testing.T) {
	s := newTestSession()
	alias := s.AddTable("", "users", usersColumns())
	root := s.EnsureWhere(model.LogicAnd)
	s.AddCondition(root, model.Condition{TableAlias: alias, ColumnName: "status", Value: "active"})

	before := s.SQL(sqlgen.Postgres)

	q := s.Query()
	q.Tables[0].Alias = "hacked"
	q.Where.Conditions[0].Value = "hacked"

	assert.Equal(t, before, s.SQL(sqlgen.Postgres))
}

func TestSession_MoveColumnReorders(t *testing.T) {
	s := newTestSession()
	alias := s.AddTable("", "users", usersColumns())
	s.AddColumn(alias, "id")
	statusID := s.AddColumn(alias, "status")
	s.AddColumn(alias, "role")

	s.MoveColumn(statusID, 0)
	assert.Equal(t, "SELECT users.status, users.id, users.role FROM users AS users", s.SQL(sqlgen.Postgres))
}

func TestSession_Restore(t *testing.T) {
	q := model.NewQuery()
	q, alias := model.AddTable(q, "", "users", usersColumns())
	q = model.AddColumn(q, model.SelectedColumn{ID: "c1", TableAlias: alias, ColumnName: "id"})
	q = model.WithLimit(q, -5)

	s := builder.Restore(&model.SequenceSource{}, q)

	require.Len(t, s.Issues(), 1)
	assert.Equal(t, model.IssueBadLimit, s.Issues()[0].Code)

	s.ClearLimit()
	assert.Empty(t, s.Issues())
	assert.Equal(t, "SELECT users.id FROM users AS users", s.SQL(sqlgen.Postgres))
}

func TestSession_ResetClearsState(t *testing.T) {
	s := newTestSession()
	alias := s.AddTable("", "users", usersColumns())
	s.AddColumn(alias, "id")
	s.SetLimit(0)
	require.NotEmpty(t, s.Issues())

	s.Reset()

	assert.Empty(t, s.Issues())
	assert.Equal(t, "SELECT *", s.SQL(sqlgen.Postgres))
}

func TestNewSession_NilIDSourceFallsBack(t *testing.T) {
	s := builder.NewSession(nil)
	first := s.AddColumn("u", "id")
	second := s.AddColumn("u", "status")

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}
