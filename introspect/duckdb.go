package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DuckDBIntrospector implements introspection for DuckDB through its
// SQLite-compatible PRAGMA interface.
type DuckDBIntrospector struct {
	db *sql.DB
}

// Introspect reads the DuckDB schema catalog. DuckDB exposes no
// foreign key listing that is stable across releases, and the
// duckdb_indexes() layout shifts between versions, so the catalog
// carries neither and join suggestions stay empty for it.
func (i *DuckDBIntrospector) Introspect(ctx context.Context) (*Catalog, error) {
	rows, err := i.db.QueryContext(ctx, "PRAGMA show_tables")
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		table := Table{Schema: "main"}
		if err := rows.Scan(&table.Name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for idx := range tables {
		t := &tables[idx]
		columns, err := i.introspectColumns(ctx, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect columns for %s: %w", t.Name, err)
		}
		t.Columns = columns
	}

	return &Catalog{Tables: tables}, nil
}

func (i *DuckDBIntrospector) introspectColumns(ctx context.Context, tableName string) ([]Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%q)", tableName)

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var cid int
		var col Column
		var colType string
		var notNull bool
		var dfltValue sql.NullString
		var isPk bool

		if err := rows.Scan(&cid, &col.Name, &colType, &notNull, &dfltValue, &isPk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}

		col.DataType = strings.ToLower(colType)
		col.Nullable = !notNull
		col.PrimaryKey = isPk
		columns = append(columns, col)
	}

	return columns, rows.Err()
}
