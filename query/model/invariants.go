package model

import "fmt"

// IssueCode identifies one kind of structural invariant violation.
type IssueCode string

const (
	// IssueDuplicateTableAlias flags two tables sharing an alias.
	IssueDuplicateTableAlias IssueCode = "duplicate_table_alias"
	// IssueDuplicateColumnAlias flags two selected columns sharing a
	// non-empty output alias.
	IssueDuplicateColumnAlias IssueCode = "duplicate_column_alias"
	// IssueGroupTooDeep flags a WHERE tree nested past MaxGroupDepth.
	IssueGroupTooDeep IssueCode = "group_too_deep"
	// IssueDanglingAlias flags a reference to a table alias that is
	// not in the model.
	IssueDanglingAlias IssueCode = "dangling_alias"
	// IssueDuplicateGroupBy flags a repeated GROUP BY pair.
	IssueDuplicateGroupBy IssueCode = "duplicate_group_by"
	// IssueBadLimit flags a non-positive LIMIT.
	IssueBadLimit IssueCode = "bad_limit"
	// IssueBadOffset flags a negative OFFSET.
	IssueBadOffset IssueCode = "bad_offset"
)

// Issue is one structural invariant violation found in a query.
type Issue struct {
	Code    IssueCode
	Message string
}

// CheckInvariants scans the query for structural invariant violations
// and returns all of them. The edit operations preserve these
// invariants by construction; the checker catches models assembled by
// hand or loaded from a document.
func CheckInvariants(q Query) []Issue {
	var issues []Issue

	seen := make(map[string]bool, len(q.Tables))
	for _, t := range q.Tables {
		if seen[t.Alias] {
			issues = append(issues, Issue{
				Code:    IssueDuplicateTableAlias,
				Message: fmt.Sprintf("duplicate table alias %q", t.Alias),
			})
		}
		seen[t.Alias] = true
	}

	for _, msg := range DuplicateColumnAliases(q) {
		issues = append(issues, Issue{Code: IssueDuplicateColumnAlias, Message: msg})
	}

	if depth := MaxDepth(q.Where); depth > MaxGroupDepth {
		issues = append(issues, Issue{
			Code:    IssueGroupTooDeep,
			Message: fmt.Sprintf("condition groups nested %d deep, limit is %d", depth, MaxGroupDepth),
		})
	}

	for _, msg := range DanglingReferences(q) {
		issues = append(issues, Issue{Code: IssueDanglingAlias, Message: msg})
	}

	seenGroupBy := make(map[GroupByColumn]bool, len(q.GroupBy))
	for _, gb := range q.GroupBy {
		if seenGroupBy[gb] {
			issues = append(issues, Issue{
				Code:    IssueDuplicateGroupBy,
				Message: fmt.Sprintf("duplicate GROUP BY entry %s.%s", gb.TableAlias, gb.ColumnName),
			})
		}
		seenGroupBy[gb] = true
	}

	if q.Limit != nil && *q.Limit <= 0 {
		issues = append(issues, Issue{
			Code:    IssueBadLimit,
			Message: fmt.Sprintf("limit must be positive, got %d", *q.Limit),
		})
	}
	if q.Offset != nil && *q.Offset < 0 {
		issues = append(issues, Issue{
			Code:    IssueBadOffset,
			Message: fmt.Sprintf("offset must not be negative, got %d", *q.Offset),
		})
	}

	return issues
}

// DuplicateColumnAliases returns one message for every non-empty
// output alias shared by two or more selected columns.
func DuplicateColumnAliases(q Query) []string {
	var msgs []string
	seen := make(map[string]bool)
	flagged := make(map[string]bool)
	for _, c := range q.Columns {
		if c.Alias == "" {
			continue
		}
		if seen[c.Alias] && !flagged[c.Alias] {
			msgs = append(msgs, fmt.Sprintf("duplicate column alias %q", c.Alias))
			flagged[c.Alias] = true
		}
		seen[c.Alias] = true
	}
	return msgs
}

// DanglingReferences returns one message for every query part that
// references a table alias not present in the model.
func DanglingReferences(q Query) []string {
	known := make(map[string]bool, len(q.Tables))
	for _, t := range q.Tables {
		known[t.Alias] = true
	}

	var msgs []string
	for _, c := range q.Columns {
		if !known[c.TableAlias] {
			msgs = append(msgs, fmt.Sprintf("unknown table alias %q in selected column %s.%s", c.TableAlias, c.TableAlias, c.ColumnName))
		}
	}
	for _, j := range q.Joins {
		if !known[j.LeftAlias] {
			msgs = append(msgs, fmt.Sprintf("unknown table alias %q in join", j.LeftAlias))
		}
		if !known[j.RightAlias] {
			msgs = append(msgs, fmt.Sprintf("unknown table alias %q in join", j.RightAlias))
		}
	}
	if q.Where != nil {
		walkConditions(*q.Where, func(c Condition) {
			if !known[c.TableAlias] {
				msgs = append(msgs, fmt.Sprintf("unknown table alias %q in where condition on %s.%s", c.TableAlias, c.TableAlias, c.ColumnName))
			}
		})
	}
	for _, gb := range q.GroupBy {
		if !known[gb.TableAlias] {
			msgs = append(msgs, fmt.Sprintf("unknown table alias %q in group by", gb.TableAlias))
		}
	}
	for _, h := range q.Having {
		if !known[h.TableAlias] {
			msgs = append(msgs, fmt.Sprintf("unknown table alias %q in having condition", h.TableAlias))
		}
	}
	for _, o := range q.OrderBy {
		if !known[o.TableAlias] {
			msgs = append(msgs, fmt.Sprintf("unknown table alias %q in order by", o.TableAlias))
		}
	}
	return msgs
}

func walkConditions(g ConditionGroup, fn func(Condition)) {
	for _, c := range g.Conditions {
		fn(c)
	}
	for _, child := range g.Groups {
		walkConditions(child, fn)
	}
}
