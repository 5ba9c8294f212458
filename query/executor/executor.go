package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/satishbabariya/querystudio-go/internal/debug"
	"github.com/satishbabariya/querystudio-go/query/cache"
	"github.com/satishbabariya/querystudio-go/query/model"
	"github.com/satishbabariya/querystudio-go/query/sqlgen"
)

// DefaultMaxRows caps how many rows a preview run reads when the
// caller sets no explicit limit of its own.
const DefaultMaxRows = 1000

// Executor runs queries and collects rows.
type Executor struct {
	conn *Conn

	// MaxRows caps the rows read per run. Zero or negative falls back
	// to DefaultMaxRows.
	MaxRows int

	cache    cache.Cache
	cacheTTL time.Duration
}

// NewExecutor creates an executor over the connection.
func NewExecutor(conn *Conn) *Executor {
	return &Executor{conn: conn, MaxRows: DefaultMaxRows}
}

// WithCache attaches a result cache, so re-running an unchanged query
// within the TTL returns the stored result instead of hitting the
// database. A zero TTL uses the cache's default.
func (e *Executor) WithCache(c cache.Cache, ttl time.Duration) *Executor {
	e.cache = c
	e.cacheTTL = ttl
	return e
}

// Result is one query run: the SQL that ran, the result grid, and how
// long the database took to deliver it. Rows is truncated at the
// executor's row cap; Truncated reports when that happened.
type Result struct {
	SQL       string
	Columns   []string
	Rows      [][]any
	Truncated bool
	FromCache bool
	Elapsed   time.Duration
}

// Run compiles the query for the connection's dialect and executes it.
func (e *Executor) Run(ctx context.Context, q model.Query) (*Result, error) {
	return e.RunSQL(ctx, sqlgen.Compile(q, e.conn.dialect))
}

// RunSQL executes already-compiled SQL text and scans every row into
// the result grid.
func (e *Executor) RunSQL(ctx context.Context, sqlText string) (*Result, error) {
	var key string
	if e.cache != nil {
		key = cache.Key(string(e.conn.dialect.Name), sqlText)
		if v, ok := e.cache.Get(key); ok {
			if stored, ok := v.(Result); ok {
				stored.FromCache = true
				debug.Debug("Query served from cache", "key", key)
				return &stored, nil
			}
		}
	}

	debug.Debug("Executing query", "dialect", e.conn.dialect.Name, "sql", sqlText)
	start := time.Now()

	rows, err := e.conn.db.QueryContext(ctx, sqlText)
	if err != nil {
		debug.Error("Query execution failed", "error", err)
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &Result{SQL: sqlText, Columns: columns}
	max := e.MaxRows
	if max <= 0 {
		max = DefaultMaxRows
	}

	for rows.Next() {
		if len(result.Rows) >= max {
			result.Truncated = true
			break
		}
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	result.Elapsed = time.Since(start)
	debug.Debug("Query finished", "rows", len(result.Rows), "truncated", result.Truncated, "elapsed", result.Elapsed)

	if e.cache != nil {
		e.cache.Set(key, *result, e.cacheTTL)
	}
	return result, nil
}

// normalizeValue converts driver byte slices to strings so the grid
// holds printable values regardless of driver.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
