package sqlgen_test

import (
	"testing"

	"github.com/satishbabariya/querystudio-go/query/sqlgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_ResolvesNamesAndAliases(t *testing.T) {
	tests := []struct {
		in   string
		want sqlgen.DialectName
	}{
		{"postgres", sqlgen.DialectPostgres},
		{"postgresql", sqlgen.DialectPostgres},
		{"pg", sqlgen.DialectPostgres},
		{"MySQL", sqlgen.DialectMySQL},
		{"mariadb", sqlgen.DialectMySQL},
		{"sqlite", sqlgen.DialectSQLite},
		{"sqlite3", sqlgen.DialectSQLite},
		{"duckdb", sqlgen.DialectDuckDB},
		{"sqlserver", sqlgen.DialectSQLServer},
		{"mssql", sqlgen.DialectSQLServer},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := sqlgen.Lookup(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name)
		})
	}
}

func TestLookup_UnknownNameFails(t *testing.T) {
	_, err := sqlgen.Lookup("oracle")
	assert.ErrorIs(t, err, sqlgen.ErrUnknownDialect)
}

func TestQuoteIdent_LeavesSafeIdentifiersBare(t *testing.T) {
	assert.Equal(t, "users", sqlgen.Postgres.QuoteIdent("users"))
	assert.Equal(t, "created_at", sqlgen.Postgres.QuoteIdent("created_at"))
	assert.Equal(t, "_internal2", sqlgen.Postgres.QuoteIdent("_internal2"))
	assert.Equal(t, "*", sqlgen.Postgres.QuoteIdent("*"))
}

func TestQuoteIdent_QuotesUnsafeIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		dialect sqlgen.Dialect
		in      string
		want    string
	}{
		{"reserved word", sqlgen.Postgres, "order", `"order"`},
		{"uppercase folds in postgres", sqlgen.Postgres, "Users", `"Users"`},
		{"leading digit", sqlgen.Postgres, "2fa_codes", `"2fa_codes"`},
		{"embedded space", sqlgen.Postgres, "user name", `"user name"`},
		{"embedded quote doubled", sqlgen.Postgres, `we"ird`, `"we""ird"`},
		{"mysql backticks", sqlgen.MySQL, "order", "`order`"},
		{"mysql backtick doubled", sqlgen.MySQL, "a`b", "`a``b`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.QuoteIdent(tt.in))
		})
	}
}
