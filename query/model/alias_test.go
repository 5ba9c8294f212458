package model_test

import (
	"testing"

	"github.com/satishbabariya/querystudio-go/query/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateAlias_PrefersLowercasedName(t *testing.T) {
	assert.Equal(t, "users", model.AllocateAlias("Users", nil))
	assert.Equal(t, "order_items", model.AllocateAlias("ORDER_ITEMS", []string{"orders"}))
}

func TestAllocateAlias_AppendsSuffixOnCollision(t *testing.T) {
	existing := []string{"users"}
	assert.Equal(t, "users_1", model.AllocateAlias("users", existing))

	existing = append(existing, "users_1")
	assert.Equal(t, "users_2", model.AllocateAlias("Users", existing))
}

func TestAllocateAlias_EmptyNameFallsBack(t *testing.T) {
	assert.Equal(t, "t", model.AllocateAlias("", nil))
	assert.Equal(t, "t_1", model.AllocateAlias("", []string{"t"}))
}

func TestAllocateAlias_NeverDuplicates(t *testing.T) {
	q := model.NewQuery()
	for i := 0; i < 25; i++ {
		q, _ = model.AddTable(q, "public", "orders", nil)
	}

	seen := make(map[string]bool)
	for _, alias := range q.Aliases() {
		require.False(t, seen[alias], "alias %q allocated twice", alias)
		seen[alias] = true
	}
	assert.Len(t, seen, 25)
}
