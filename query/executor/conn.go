// Package executor runs compiled queries against a live database
// connection and collects the results into a plain grid.
package executor

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/lib/pq"                // PostgreSQL driver
	_ "github.com/marcboeker/go-duckdb"  // DuckDB driver
	_ "github.com/mattn/go-sqlite3"      // SQLite driver

	"github.com/satishbabariya/querystudio-go/query/sqlgen"
)

// Conn pairs a database handle with the dialect queries against it are
// compiled for.
type Conn struct {
	db      *sql.DB
	dialect sqlgen.Dialect
}

// Open opens a connection for the named dialect. The dialect also
// selects the driver; dialects the compiler supports but no bundled
// driver serves are refused here.
func Open(dialectName, dsn string) (*Conn, error) {
	d, err := sqlgen.Lookup(dialectName)
	if err != nil {
		return nil, err
	}
	driver := driverName(d.Name)
	if driver == "" {
		return nil, fmt.Errorf("no driver available for dialect %q", d.Name)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &Conn{db: db, dialect: d}, nil
}

// FromDB wraps an existing database handle.
func FromDB(db *sql.DB, d sqlgen.Dialect) *Conn {
	return &Conn{db: db, dialect: d}
}

// driverName maps dialect names to registered Go driver names.
func driverName(name sqlgen.DialectName) string {
	switch name {
	case sqlgen.DialectPostgres:
		return "postgres"
	case sqlgen.DialectMySQL:
		return "mysql"
	case sqlgen.DialectSQLite:
		return "sqlite3"
	case sqlgen.DialectDuckDB:
		return "duckdb"
	default:
		return ""
	}
}

// Connect verifies the connection is usable.
func (c *Conn) Connect(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (c *Conn) Close() error {
	return c.db.Close()
}

// DB returns the underlying database handle.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Dialect returns the dialect this connection compiles for.
func (c *Conn) Dialect() sqlgen.Dialect {
	return c.dialect
}
