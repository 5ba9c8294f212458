// Package validator checks a query model for semantic errors and
// reports them as human-readable messages. Validation is advisory: the
// compiler renders the model regardless, and callers gate execution on
// the result.
package validator

import (
	"fmt"

	"github.com/satishbabariya/querystudio-go/query/model"
)

// Result is the outcome of one validation pass. Valid is true exactly
// when Errors is empty.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate runs every rule in order and collects all errors rather
// than stopping at the first failure.
//
// The rules, in evaluation order: the model needs at least one table;
// once grouping or aggregation is in play, every bare selected column
// must appear in GROUP BY; output aliases must be unique; and every
// clause must reference a table alias that is actually in the model.
func Validate(q model.Query) Result {
	var errs []string

	if len(q.Tables) == 0 {
		errs = append(errs, "select at least one table")
	}

	if aggregationInPlay(q) {
		grouped := make(map[model.GroupByColumn]bool, len(q.GroupBy))
		for _, gb := range q.GroupBy {
			grouped[gb] = true
		}
		for _, c := range q.Columns {
			if c.Aggregate != "" {
				continue
			}
			if !grouped[model.GroupByColumn{TableAlias: c.TableAlias, ColumnName: c.ColumnName}] {
				errs = append(errs, fmt.Sprintf("column %s.%s must be aggregated or added to GROUP BY", c.TableAlias, c.ColumnName))
			}
		}
	}

	errs = append(errs, model.DuplicateColumnAliases(q)...)
	errs = append(errs, model.DanglingReferences(q)...)

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// aggregationInPlay reports whether the grouping rule applies: either
// GROUP BY has entries, or at least one selected column is aggregated,
// which makes every remaining bare column ambiguous.
func aggregationInPlay(q model.Query) bool {
	if len(q.GroupBy) > 0 {
		return true
	}
	for _, c := range q.Columns {
		if c.Aggregate != "" {
			return true
		}
	}
	return false
}
