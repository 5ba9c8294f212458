// Package introspect reads the table inventory of a live database so
// queries can be built against real schema: table and column names,
// declared types, primary keys and the foreign keys joins are
// suggested from.
package introspect

import (
	"context"
	"database/sql"

	"github.com/satishbabariya/querystudio-go/query/model"
)

// Introspector reads the schema catalog of one database.
type Introspector interface {
	Introspect(ctx context.Context) (*Catalog, error)
}

// Catalog is the introspected table inventory of one database.
type Catalog struct {
	Tables []Table
}

// Table describes one introspected table.
type Table struct {
	Schema      string
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
	Indexes     []Index
}

// Column describes one introspected column. DataType is the raw
// database type name; the SQL compiler classifies it when formatting
// literals.
type Column struct {
	Name       string
	DataType   string
	Nullable   bool
	PrimaryKey bool
}

// ForeignKey is one column-to-column reference. Multi-column foreign
// keys surface as their leading column pair, which is the part join
// suggestions can use.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Index describes one secondary index on a table. Primary key indexes
// are not listed; the key shows up on the columns themselves.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// NewIntrospector creates an introspector for the given dialect.
func NewIntrospector(db *sql.DB, dialect string) (Introspector, error) {
	switch dialect {
	case "postgresql", "postgres":
		return &PostgresIntrospector{db: db}, nil
	case "mysql", "mariadb":
		return &MySQLIntrospector{db: db}, nil
	case "sqlite", "sqlite3":
		return &SQLiteIntrospector{db: db}, nil
	case "duckdb":
		return &DuckDBIntrospector{db: db}, nil
	default:
		return nil, ErrUnsupportedDialect
	}
}

// Table returns the catalog entry with the given name, or nil when the
// catalog has none.
func (c *Catalog) Table(name string) *Table {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}

// ColumnInfo converts the table's columns to the query model's form.
func (t Table) ColumnInfo() []model.ColumnInfo {
	out := make([]model.ColumnInfo, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = model.ColumnInfo{Name: col.Name, DataType: col.DataType}
	}
	return out
}

// indexCollector groups per-column index rows into Index entries,
// keeping the order rows arrive in. Databases report one row per
// indexed column, ordered by position within the index.
type indexCollector struct {
	indexes []Index
	pos     map[string]int
}

func (c *indexCollector) add(name, column string, unique bool) {
	if c.pos == nil {
		c.pos = map[string]int{}
	}
	i, ok := c.pos[name]
	if !ok {
		i = len(c.indexes)
		c.pos[name] = i
		c.indexes = append(c.indexes, Index{Name: name, Unique: unique})
	}
	c.indexes[i].Columns = append(c.indexes[i].Columns, column)
}

// SuggestJoins proposes join clauses linking the table under the given
// alias to tables already in the query, following the catalog's
// foreign keys in both directions. The joined table is always the
// right side, matching how the compiler renders join targets.
func SuggestJoins(cat *Catalog, q model.Query, alias string) []model.Join {
	target, ok := model.TableByAlias(q, alias)
	if !ok {
		return nil
	}
	targetMeta := cat.Table(target.Name)

	var out []model.Join
	for _, other := range q.Tables {
		if other.Alias == alias {
			continue
		}
		if targetMeta != nil {
			for _, fk := range targetMeta.ForeignKeys {
				if fk.RefTable == other.Name {
					out = append(out, model.Join{
						Type:        model.JoinInner,
						LeftAlias:   other.Alias,
						LeftColumn:  fk.RefColumn,
						RightAlias:  alias,
						RightColumn: fk.Column,
					})
				}
			}
		}
		if otherMeta := cat.Table(other.Name); otherMeta != nil {
			for _, fk := range otherMeta.ForeignKeys {
				if fk.RefTable == target.Name {
					out = append(out, model.Join{
						Type:        model.JoinInner,
						LeftAlias:   other.Alias,
						LeftColumn:  fk.Column,
						RightAlias:  alias,
						RightColumn: fk.RefColumn,
					})
				}
			}
		}
	}
	return out
}
