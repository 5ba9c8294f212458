package model_test

import (
	"testing"

	"github.com/satishbabariya/querystudio-go/query/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoJoins() model.Query {
	q := model.NewQuery()
	q = model.AddJoin(q, model.Join{
		ID: "j1", Type: model.JoinInner,
		LeftAlias: "u", LeftColumn: "id",
		RightAlias: "o", RightColumn: "user_id",
	})
	q = model.AddJoin(q, model.Join{
		ID: "j2", Type: model.JoinLeft,
		LeftAlias: "o", LeftColumn: "id",
		RightAlias: "i", RightColumn: "order_id",
	})
	return q
}

func TestAddJoin_PreservesAddOrder(t *testing.T) {
	q := twoJoins()

	require.Len(t, q.Joins, 2)
	assert.Equal(t, "j1", q.Joins[0].ID)
	assert.Equal(t, "j2", q.Joins[1].ID)
}

func TestRemoveJoin_FiltersById(t *testing.T) {
	q := twoJoins()

	removed := model.RemoveJoin(q, "j1")

	require.Len(t, removed.Joins, 1)
	assert.Equal(t, "j2", removed.Joins[0].ID)
	assert.Len(t, q.Joins, 2, "input query must not change")
}

func TestRemoveJoin_UnknownIDIsNoop(t *testing.T) {
	q := twoJoins()

	assert.Equal(t, q, model.RemoveJoin(q, "j_missing"))
}

func TestUpdateJoin_MergesPatchFields(t *testing.T) {
	q := twoJoins()
	kind := model.JoinRight
	leftColumn := "customer_id"

	updated := model.UpdateJoin(q, "j1", model.JoinPatch{Type: &kind, LeftColumn: &leftColumn})

	j := updated.Joins[0]
	assert.Equal(t, model.JoinRight, j.Type)
	assert.Equal(t, "customer_id", j.LeftColumn)
	assert.Equal(t, "u", j.LeftAlias, "field without a patch entry stays as it was")
	assert.Equal(t, "user_id", j.RightColumn)

	assert.Equal(t, model.JoinInner, q.Joins[0].Type, "input query must not change")
}

func TestUpdateJoin_UnknownIDIsNoop(t *testing.T) {
	q := twoJoins()
	kind := model.JoinFull

	assert.Equal(t, q, model.UpdateJoin(q, "j_missing", model.JoinPatch{Type: &kind}))
}
