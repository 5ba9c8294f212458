package store_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querystudio-go/query/model"
	"github.com/satishbabariya/querystudio-go/query/sqlgen"
	"github.com/satishbabariya/querystudio-go/store"
)

func sampleQuery() model.Query {
	q := model.NewQuery()
	q, alias := model.AddTable(q, "", "users", []model.ColumnInfo{
		{Name: "id", DataType: "integer"},
		{Name: "status", DataType: "text"},
	})
	q = model.AddColumn(q, model.SelectedColumn{ID: "c1", TableAlias: alias, ColumnName: "id"})
	root := model.ConditionGroup{ID: "g1", Operator: model.LogicAnd, Conditions: []model.Condition{
		{ID: "w1", TableAlias: alias, ColumnName: "status", Operator: model.OpEquals, Value: "active"},
	}}
	q = model.WithWhere(q, &root)
	q = model.WithLimit(q, 25)
	return q
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	for _, format := range []store.Format{store.FormatYAML, store.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			s := store.NewStore(afero.NewMemMapFs(), "queries", format)

			doc := &store.Document{Name: "active-users", Dialect: "postgres", Query: sampleQuery()}
			require.NoError(t, s.Save(doc))
			assert.False(t, doc.CreatedAt.IsZero())
			assert.False(t, doc.UpdatedAt.IsZero())

			loaded, err := s.Load("active-users")
			require.NoError(t, err)

			assert.Equal(t, "active-users", loaded.Name)
			assert.Equal(t, "postgres", loaded.Dialect)

			// The round-tripped model must compile to the same SQL.
			want := sqlgen.Compile(doc.Query, sqlgen.Postgres)
			got := sqlgen.Compile(loaded.Query, sqlgen.Postgres)
			assert.Equal(t, want, got)
			assert.Contains(t, got, "WHERE users.status = 'active'")
			assert.Contains(t, got, "LIMIT 25")
		})
	}
}

func TestStore_SavePreservesCreatedAt(t *testing.T) {
	s := store.NewStore(afero.NewMemMapFs(), "queries", store.FormatYAML)

	doc := &store.Document{Name: "report", Query: sampleQuery()}
	require.NoError(t, s.Save(doc))
	created := doc.CreatedAt

	require.NoError(t, s.Save(doc))
	assert.Equal(t, created, doc.CreatedAt)
	assert.True(t, doc.UpdatedAt.Equal(created) || doc.UpdatedAt.After(created))
}

func TestStore_List(t *testing.T) {
	s := store.NewStore(afero.NewMemMapFs(), "queries", store.FormatYAML)

	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"beta", "alpha", "gamma"} {
		require.NoError(t, s.Save(&store.Document{Name: name, Query: sampleQuery()}))
	}

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

func TestStore_Delete(t *testing.T) {
	s := store.NewStore(afero.NewMemMapFs(), "queries", store.FormatYAML)
	require.NoError(t, s.Save(&store.Document{Name: "tmp", Query: sampleQuery()}))

	require.NoError(t, s.Delete("tmp"))

	_, err := s.Load("tmp")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.Delete("tmp"), store.ErrNotFound)
}

func TestStore_LoadMissing(t *testing.T) {
	s := store.NewStore(afero.NewMemMapFs(), "queries", store.FormatYAML)

	_, err := s.Load("nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_RejectsBadNames(t *testing.T) {
	s := store.NewStore(afero.NewMemMapFs(), "queries", store.FormatYAML)

	for _, name := range []string{"", "a/b", `a\b`, "../escape"} {
		assert.ErrorIs(t, s.Save(&store.Document{Name: name}), store.ErrInvalidName)
		_, err := s.Load(name)
		assert.ErrorIs(t, err, store.ErrInvalidName)
	}
}

func TestStore_LoadAcceptsEitherEncoding(t *testing.T) {
	fs := afero.NewMemMapFs()

	jsonStore := store.NewStore(fs, "queries", store.FormatJSON)
	require.NoError(t, jsonStore.Save(&store.Document{Name: "shared", Query: sampleQuery()}))

	yamlStore := store.NewStore(fs, "queries", store.FormatYAML)
	loaded, err := yamlStore.Load("shared")
	require.NoError(t, err)
	assert.Equal(t, "shared", loaded.Name)
}

func TestStore_Path(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := store.NewStore(fs, "queries", store.FormatYAML)

	// Unsaved documents resolve to the configured format.
	assert.Equal(t, filepath.Join("queries", "draft.query.yaml"), s.Path("draft"))

	jsonStore := store.NewStore(fs, "queries", store.FormatJSON)
	require.NoError(t, jsonStore.Save(&store.Document{Name: "draft", Query: sampleQuery()}))

	// Once saved, the stored file wins regardless of the format the
	// store was configured with.
	assert.Equal(t, filepath.Join("queries", "draft.query.json"), s.Path("draft"))
}
