package introspect

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/querystudio-go/internal/debug"
)

// MySQLIntrospector implements introspection for MySQL and MariaDB.
type MySQLIntrospector struct {
	db *sql.DB
}

// Introspect reads the schema catalog of the currently selected
// database.
func (i *MySQLIntrospector) Introspect(ctx context.Context) (*Catalog, error) {
	var dbName string
	if err := i.db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&dbName); err != nil {
		return nil, fmt.Errorf("failed to resolve current database: %w", err)
	}

	tables, err := i.introspectTables(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect tables: %w", err)
	}
	debug.Debug("Introspected MySQL catalog", "database", dbName, "tables", len(tables))
	return &Catalog{Tables: tables}, nil
}

func (i *MySQLIntrospector) introspectTables(ctx context.Context, dbName string) ([]Table, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := i.db.QueryContext(ctx, query, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		table := Table{Schema: dbName}
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
		columns, err := i.introspectColumns(ctx, dbName, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect columns for %s: %w", t.Name, err)
		}
		t.Columns = columns

		fks, err := i.introspectForeignKeys(ctx, dbName, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect foreign keys for %s: %w", t.Name, err)
		}
		t.ForeignKeys = fks

		indexes, err := i.introspectIndexes(ctx, dbName, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect indexes for %s: %w", t.Name, err)
		}
		t.Indexes = indexes
	}

	return tables, nil
}

func (i *MySQLIntrospector) introspectColumns(ctx context.Context, schema, tableName string) ([]Column, error) {
	// column_key marks primary key membership, saving the separate
	// constraint lookup other databases need.
	query := `
		SELECT
			column_name,
			column_type,
			is_nullable,
			column_key
		FROM information_schema.columns
		WHERE table_schema = ?
		  AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := i.db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var isNullable, columnKey string
		if err := rows.Scan(&col.Name, &col.DataType, &isNullable, &columnKey); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = isNullable == "YES"
		col.PrimaryKey = columnKey == "PRI"
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (i *MySQLIntrospector) introspectIndexes(ctx context.Context, schema, tableName string) ([]Index, error) {
	query := `
		SELECT
			index_name,
			column_name,
			non_unique
		FROM information_schema.statistics
		WHERE table_schema = ?
		  AND table_name = ?
		  AND index_name != 'PRIMARY'
		ORDER BY index_name, seq_in_index
	`

	rows, err := i.db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var c indexCollector
	for rows.Next() {
		var name, column string
		var nonUnique int
		if err := rows.Scan(&name, &column, &nonUnique); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		c.add(name, column, nonUnique == 0)
	}

	return c.indexes, rows.Err()
}

func (i *MySQLIntrospector) introspectForeignKeys(ctx context.Context, schema, tableName string) ([]ForeignKey, error) {
	query := `
		SELECT
			column_name,
			referenced_table_name,
			referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
		  AND table_name = ?
		  AND referenced_table_name IS NOT NULL
		ORDER BY ordinal_position
	`

	rows, err := i.db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Column, &fk.RefTable, &fk.RefColumn); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}
