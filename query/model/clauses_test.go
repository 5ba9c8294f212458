package model_test

import (
	"testing"

	"github.com/satishbabariya/querystudio-go/query/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithWhere_ClonesTheGivenTree(t *testing.T) {
	root := model.ConditionGroup{
		ID:       "g0",
		Operator: model.LogicAnd,
		Conditions: []model.Condition{
			{ID: "w1", TableAlias: "u", ColumnName: "status", Operator: model.OpEquals, Value: "active"},
		},
	}

	q := model.WithWhere(model.NewQuery(), &root)

	// Mutating the caller's tree afterwards must not reach the query.
	root.Conditions[0].Value = "deleted"

	require.NotNil(t, q.Where)
	assert.Equal(t, "active", q.Where.Conditions[0].Value)
}

func TestWithWhere_NilClearsTheRoot(t *testing.T) {
	q := model.WithWhere(model.NewQuery(), &model.ConditionGroup{ID: "g0"})
	require.NotNil(t, q.Where)

	cleared := model.WithWhere(q, nil)

	assert.Nil(t, cleared.Where)
	assert.NotNil(t, q.Where, "input query must not change")
}

func TestAddGroupBy_IgnoresDuplicatePairs(t *testing.T) {
	q := model.NewQuery()
	q = model.AddGroupBy(q, model.GroupByColumn{TableAlias: "u", ColumnName: "status"})
	q = model.AddGroupBy(q, model.GroupByColumn{TableAlias: "u", ColumnName: "status"})
	q = model.AddGroupBy(q, model.GroupByColumn{TableAlias: "u", ColumnName: "role"})

	assert.Equal(t, []model.GroupByColumn{
		{TableAlias: "u", ColumnName: "status"},
		{TableAlias: "u", ColumnName: "role"},
	}, q.GroupBy)
}

func TestRemoveGroupBy_FiltersByPair(t *testing.T) {
	q := model.NewQuery()
	q = model.AddGroupBy(q, model.GroupByColumn{TableAlias: "u", ColumnName: "status"})
	q = model.AddGroupBy(q, model.GroupByColumn{TableAlias: "u", ColumnName: "role"})

	removed := model.RemoveGroupBy(q, "u", "status")

	assert.Equal(t, []model.GroupByColumn{{TableAlias: "u", ColumnName: "role"}}, removed.GroupBy)
	assert.Len(t, q.GroupBy, 2, "input query must not change")

	assert.Equal(t, removed, model.RemoveGroupBy(removed, "u", "missing"))
}

func TestHaving_AddUpdateRemove(t *testing.T) {
	q := model.NewQuery()
	q = model.AddHaving(q, model.HavingCondition{
		ID: "h1", Aggregate: model.AggCount,
		TableAlias: "o", ColumnName: "id",
		Operator: model.OpGreater, Value: 5,
	})

	updated := model.UpdateHaving(q, model.HavingCondition{
		ID: "h1", Aggregate: model.AggSum,
		TableAlias: "o", ColumnName: "total",
		Operator: model.OpGreaterOrEqual, Value: 100,
	})
	require.Len(t, updated.Having, 1)
	assert.Equal(t, model.AggSum, updated.Having[0].Aggregate)
	assert.Equal(t, model.AggCount, q.Having[0].Aggregate, "input query must not change")

	assert.Equal(t, updated, model.UpdateHaving(updated, model.HavingCondition{ID: "h_missing"}))

	assert.Empty(t, model.RemoveHaving(updated, "h1").Having)
	assert.Equal(t, updated, model.RemoveHaving(updated, "h_missing"))
}

func TestOrderBy_SequenceIsPrecedence(t *testing.T) {
	q := model.NewQuery()
	q = model.AddOrderBy(q, model.OrderByColumn{ID: "o1", TableAlias: "u", ColumnName: "status", Direction: model.SortAsc})
	q = model.AddOrderBy(q, model.OrderByColumn{ID: "o2", TableAlias: "u", ColumnName: "id", Direction: model.SortDesc})

	require.Len(t, q.OrderBy, 2)
	assert.Equal(t, "o1", q.OrderBy[0].ID)
	assert.Equal(t, "o2", q.OrderBy[1].ID)

	updated := model.UpdateOrderBy(q, model.OrderByColumn{ID: "o1", TableAlias: "u", ColumnName: "status", Direction: model.SortDesc})
	assert.Equal(t, model.SortDesc, updated.OrderBy[0].Direction)
	assert.Equal(t, model.SortAsc, q.OrderBy[0].Direction, "input query must not change")

	removed := model.RemoveOrderBy(updated, "o1")
	require.Len(t, removed.OrderBy, 1)
	assert.Equal(t, "o2", removed.OrderBy[0].ID)

	assert.Equal(t, removed, model.RemoveOrderBy(removed, "o_missing"))
}

func TestLimitOffset_SetAndClear(t *testing.T) {
	q := model.WithLimit(model.NewQuery(), 25)
	q = model.WithOffset(q, 50)

	require.NotNil(t, q.Limit)
	require.NotNil(t, q.Offset)
	assert.Equal(t, 25, *q.Limit)
	assert.Equal(t, 50, *q.Offset)

	cleared := model.ClearLimit(q)
	assert.Nil(t, cleared.Limit)
	assert.NotNil(t, cleared.Offset)
	assert.NotNil(t, q.Limit, "input query must not change")

	cleared = model.ClearOffset(cleared)
	assert.Nil(t, cleared.Offset)
}
