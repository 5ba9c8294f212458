package introspect

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/querystudio-go/internal/debug"
)

// PostgresIntrospector implements introspection for PostgreSQL.
type PostgresIntrospector struct {
	db *sql.DB
}

// Introspect reads the PostgreSQL schema catalog from the public
// schema.
func (i *PostgresIntrospector) Introspect(ctx context.Context) (*Catalog, error) {
	tables, err := i.introspectTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect tables: %w", err)
	}
	debug.Debug("Introspected PostgreSQL catalog", "tables", len(tables))
	return &Catalog{Tables: tables}, nil
}

func (i *PostgresIntrospector) introspectTables(ctx context.Context) ([]Table, error) {
	query := `
		SELECT
			table_schema,
			table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var table Table
		if err := rows.Scan(&table.Schema, &table.Name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for idx := range tables {
		t := &tables[idx]
		columns, err := i.introspectColumns(ctx, t.Schema, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect columns for %s: %w", t.Name, err)
		}
		t.Columns = columns

		if err := i.markPrimaryKey(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to introspect primary key for %s: %w", t.Name, err)
		}

		fks, err := i.introspectForeignKeys(ctx, t.Schema, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect foreign keys for %s: %w", t.Name, err)
		}
		t.ForeignKeys = fks

		indexes, err := i.introspectIndexes(ctx, t.Schema, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect indexes for %s: %w", t.Name, err)
		}
		t.Indexes = indexes
	}

	return tables, nil
}

func (i *PostgresIntrospector) introspectColumns(ctx context.Context, schema, tableName string) ([]Column, error) {
	query := `
		SELECT
			column_name,
			data_type,
			is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
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
		var isNullable string
		if err := rows.Scan(&col.Name, &col.DataType, &isNullable); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = isNullable == "YES"
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (i *PostgresIntrospector) markPrimaryKey(ctx context.Context, t *Table) error {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := i.db.QueryContext(ctx, query, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("failed to query primary key: %w", err)
	}
	defer rows.Close()

	pk := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan primary key column: %w", err)
		}
		pk[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for idx := range t.Columns {
		if pk[t.Columns[idx].Name] {
			t.Columns[idx].PrimaryKey = true
		}
	}
	return nil
}

func (i *PostgresIntrospector) introspectIndexes(ctx context.Context, schema, tableName string) ([]Index, error) {
	// information_schema has no index view, so this reads the system
	// catalogs directly. Primary key indexes are skipped; the key is
	// already marked on the columns.
	query := `
		SELECT
			i.relname AS index_name,
			a.attname AS column_name,
			ix.indisunique
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = $1
		  AND t.relname = $2
		  AND NOT ix.indisprimary
		ORDER BY i.relname, array_position(ix.indkey::int2[], a.attnum)
	`

	rows, err := i.db.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var c indexCollector
	for rows.Next() {
		var name, column string
		var unique bool
		if err := rows.Scan(&name, &column, &unique); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		c.add(name, column, unique)
	}

	return c.indexes, rows.Err()
}

func (i *PostgresIntrospector) introspectForeignKeys(ctx context.Context, schema, tableName string) ([]ForeignKey, error) {
	query := `
		SELECT
			kcu.column_name,
			ccu.table_name AS referenced_table,
			ccu.column_name AS referenced_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
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
