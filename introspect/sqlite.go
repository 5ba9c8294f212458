package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SQLiteIntrospector implements introspection for SQLite.
type SQLiteIntrospector struct {
	db *sql.DB
}

// Introspect reads the SQLite schema catalog, skipping the internal
// sqlite_ tables.
func (i *SQLiteIntrospector) Introspect(ctx context.Context) (*Catalog, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := i.db.QueryContext(ctx, query)
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

		fks, err := i.introspectForeignKeys(ctx, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect foreign keys for %s: %w", t.Name, err)
		}
		t.ForeignKeys = fks

		indexes, err := i.introspectIndexes(ctx, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect indexes for %s: %w", t.Name, err)
		}
		t.Indexes = indexes
	}

	return &Catalog{Tables: tables}, nil
}

func (i *SQLiteIntrospector) introspectColumns(ctx context.Context, tableName string) ([]Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%q)", tableName)

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var cid, notNull, isPk int
		var col Column
		var colType string
		var dfltValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &colType, &notNull, &dfltValue, &isPk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}

		col.DataType = strings.ToLower(colType)
		col.Nullable = notNull == 0
		col.PrimaryKey = isPk > 0
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (i *SQLiteIntrospector) introspectIndexes(ctx context.Context, tableName string) ([]Index, error) {
	query := fmt.Sprintf("PRAGMA index_list(%q)", tableName)

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		// Origin "pk" is the implicit primary key index.
		if origin == "pk" {
			continue
		}
		indexes = append(indexes, Index{Name: name, Unique: unique == 1})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for idx := range indexes {
		columns, err := i.introspectIndexColumns(ctx, indexes[idx].Name)
		if err != nil {
			return nil, err
		}
		indexes[idx].Columns = columns
	}

	return indexes, nil
}

func (i *SQLiteIntrospector) introspectIndexColumns(ctx context.Context, indexName string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA index_info(%q)", indexName)

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query index columns: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString

		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("failed to scan index column: %w", err)
		}
		// Expression index entries have no column name.
		if name.Valid {
			columns = append(columns, name.String)
		}
	}

	return columns, rows.Err()
}

func (i *SQLiteIntrospector) introspectForeignKeys(ctx context.Context, tableName string) ([]ForeignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%q)", tableName)

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var id, seq int
		var fk ForeignKey
		var onUpdate, onDelete, match string
		var refColumn sql.NullString

		if err := rows.Scan(&id, &seq, &fk.RefTable, &fk.Column, &refColumn, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		// Trailing columns of a composite key repeat the id with a
		// higher seq; only the leading pair feeds join suggestions.
		if seq > 0 {
			continue
		}
		if refColumn.Valid {
			fk.RefColumn = refColumn.String
		}
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}
