// Package sqlgen renders a query model into SQL text for a target
// database dialect. Compilation is pure and deterministic: the same
// model and dialect always produce the same string, nothing is thrown,
// and a model the validator rejects still renders to some text.
package sqlgen

import (
	"errors"
	"strings"
)

// ErrUnknownDialect reports a dialect name with no registered dialect.
var ErrUnknownDialect = errors.New("unknown sql dialect")

// DialectName identifies a registered dialect.
type DialectName string

const (
	// DialectPostgres targets PostgreSQL.
	DialectPostgres DialectName = "postgres"
	// DialectMySQL targets MySQL and MariaDB.
	DialectMySQL DialectName = "mysql"
	// DialectSQLite targets SQLite.
	DialectSQLite DialectName = "sqlite"
	// DialectDuckDB targets DuckDB.
	DialectDuckDB DialectName = "duckdb"
	// DialectSQLServer targets Microsoft SQL Server.
	DialectSQLServer DialectName = "sqlserver"
)

// Dialect describes the syntax conventions of one SQL target. The
// compiler consults it for identifier quoting, boolean literals and
// row-limit syntax; everything else renders the same across targets.
type Dialect struct {
	Name DialectName

	// IdentQuote wraps identifiers that are not safe to emit bare.
	IdentQuote byte

	// UseLimitOffset renders LIMIT n OFFSET m.
	UseLimitOffset bool
	// UseLimitComma renders LIMIT m, n (MySQL style when both present).
	UseLimitComma bool
	// UseTopClause renders SELECT TOP n when no offset is set.
	UseTopClause bool
	// OffsetFetchSyntax renders OFFSET m ROWS FETCH NEXT n ROWS ONLY.
	OffsetFetchSyntax bool

	// BoolTrue and BoolFalse are the dialect's boolean literals.
	BoolTrue  string
	BoolFalse string
}

// Postgres is the default dialect.
var Postgres = Dialect{
	Name:           DialectPostgres,
	IdentQuote:     '"',
	UseLimitOffset: true,
	BoolTrue:       "true",
	BoolFalse:      "false",
}

// MySQL renders backtick-quoted identifiers and comma-style limits.
var MySQL = Dialect{
	Name:          DialectMySQL,
	IdentQuote:    '`',
	UseLimitComma: true,
	BoolTrue:      "true",
	BoolFalse:     "false",
}

// SQLite follows the standard LIMIT/OFFSET syntax.
var SQLite = Dialect{
	Name:           DialectSQLite,
	IdentQuote:     '"',
	UseLimitOffset: true,
	BoolTrue:       "true",
	BoolFalse:      "false",
}

// DuckDB follows the standard LIMIT/OFFSET syntax.
var DuckDB = Dialect{
	Name:           DialectDuckDB,
	IdentQuote:     '"',
	UseLimitOffset: true,
	BoolTrue:       "true",
	BoolFalse:      "false",
}

// SQLServer renders TOP or OFFSET/FETCH and has no boolean literals.
var SQLServer = Dialect{
	Name:              DialectSQLServer,
	IdentQuote:        '"',
	UseTopClause:      true,
	OffsetFetchSyntax: true,
	BoolTrue:          "1",
	BoolFalse:         "0",
}

var dialects = map[string]Dialect{
	"postgres":  Postgres,
	"mysql":     MySQL,
	"sqlite":    SQLite,
	"duckdb":    DuckDB,
	"sqlserver": SQLServer,
}

// Lookup resolves a dialect by name or driver alias. Matching is case
// insensitive and accepts the common aliases (postgresql, pg, mariadb,
// sqlite3, mssql).
func Lookup(name string) (Dialect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if d, ok := dialects[key]; ok {
		return d, nil
	}
	switch key {
	case "postgresql", "pg":
		return Postgres, nil
	case "mariadb":
		return MySQL, nil
	case "sqlite3":
		return SQLite, nil
	case "mssql":
		return SQLServer, nil
	}
	return Dialect{}, ErrUnknownDialect
}

// Names returns the registered dialect names, for help text.
func Names() []string {
	return []string{"postgres", "mysql", "sqlite", "duckdb", "sqlserver"}
}

// QuoteIdent returns the identifier quoted for the dialect, or bare
// when it is already safe: all lowercase letters, digits and
// underscores, not starting with a digit and not a reserved word.
// Embedded quote characters are escaped by doubling.
func (d Dialect) QuoteIdent(s string) string {
	if s == "*" {
		return s
	}
	if isSafeIdent(s) {
		return s
	}
	if d.IdentQuote == 0 {
		return s
	}
	q := string(d.IdentQuote)
	return q + strings.ReplaceAll(s, q, q+q) + q
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	if reservedIdent(strings.ToLower(s)) {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !(r == '_' || (r >= 'a' && r <= 'z')) {
				return false
			}
			continue
		}
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func reservedIdent(name string) bool {
	switch name {
	case "select", "from", "where", "group", "having", "order", "by",
		"limit", "offset", "join", "inner", "left", "right", "full",
		"on", "as", "and", "or", "not", "in", "is", "null", "like",
		"between", "distinct", "asc", "desc", "union", "all", "case",
		"when", "then", "else", "end", "table", "user":
		return true
	default:
		return false
	}
}
