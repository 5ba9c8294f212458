// Package model defines the query document: the tables, columns, joins,
// filter tree, grouping, ordering and pagination that make up an
// in-progress relational query. Every edit operation in this package
// returns a new value and never mutates its input, so callers can keep
// snapshots for change detection and undo.
package model

// MaxGroupDepth is the deepest nesting allowed in the WHERE condition
// tree. The root group sits at depth 0.
const MaxGroupDepth = 3

// Query is the aggregate state of an in-progress query.
type Query struct {
	Tables  []Table           `json:"tables,omitempty" yaml:"tables,omitempty"`
	Columns []SelectedColumn  `json:"columns,omitempty" yaml:"columns,omitempty"`
	Joins   []Join            `json:"joins,omitempty" yaml:"joins,omitempty"`
	Where   *ConditionGroup   `json:"where,omitempty" yaml:"where,omitempty"`
	GroupBy []GroupByColumn   `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
	Having  []HavingCondition `json:"having,omitempty" yaml:"having,omitempty"`
	OrderBy []OrderByColumn   `json:"orderBy,omitempty" yaml:"orderBy,omitempty"`
	Limit   *int              `json:"limit,omitempty" yaml:"limit,omitempty"`
	Offset  *int              `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// NewQuery returns an empty query model.
func NewQuery() Query {
	return Query{}
}

// Table is a table added to the query, identified by its alias. The
// alias is unique within the model and qualifies every column reference.
type Table struct {
	Alias   string       `json:"alias" yaml:"alias"`
	Schema  string       `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name    string       `json:"tableName" yaml:"tableName"`
	Columns []ColumnInfo `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// ColumnInfo describes one column of an added table, as reported by
// schema introspection.
type ColumnInfo struct {
	Name     string `json:"name" yaml:"name"`
	DataType string `json:"dataType" yaml:"dataType"`
}

// SelectedColumn is one output column of the SELECT list. Sequence
// order in Query.Columns determines SELECT column order.
type SelectedColumn struct {
	ID         string    `json:"id" yaml:"id"`
	TableAlias string    `json:"tableAlias" yaml:"tableAlias"`
	ColumnName string    `json:"columnName" yaml:"columnName"`
	Alias      string    `json:"alias,omitempty" yaml:"alias,omitempty"`
	Aggregate  Aggregate `json:"aggregate,omitempty" yaml:"aggregate,omitempty"`
	Distinct   bool      `json:"distinct,omitempty" yaml:"distinct,omitempty"`
}

// Aggregate is an aggregate function applied to a selected column or a
// HAVING condition.
type Aggregate string

const (
	// AggCount counts rows.
	AggCount Aggregate = "COUNT"
	// AggSum sums values.
	AggSum Aggregate = "SUM"
	// AggAvg averages values.
	AggAvg Aggregate = "AVG"
	// AggMin takes the minimum value.
	AggMin Aggregate = "MIN"
	// AggMax takes the maximum value.
	AggMax Aggregate = "MAX"
	// AggCountDistinct counts distinct values.
	AggCountDistinct Aggregate = "COUNT_DISTINCT"
)

// JoinType is the kind of a join clause.
type JoinType string

const (
	// JoinInner keeps only matching rows from both tables.
	JoinInner JoinType = "INNER"
	// JoinLeft keeps all rows of the left table.
	JoinLeft JoinType = "LEFT"
	// JoinRight keeps all rows of the right table.
	JoinRight JoinType = "RIGHT"
	// JoinFull keeps all rows of both tables.
	JoinFull JoinType = "FULL"
)

// Join links two added tables on a column equality predicate. The right
// alias names the table the join introduces into the FROM clause.
type Join struct {
	ID          string   `json:"id" yaml:"id"`
	Type        JoinType `json:"joinType" yaml:"joinType"`
	LeftAlias   string   `json:"leftTableAlias" yaml:"leftTableAlias"`
	LeftColumn  string   `json:"leftColumn" yaml:"leftColumn"`
	RightAlias  string   `json:"rightTableAlias" yaml:"rightTableAlias"`
	RightColumn string   `json:"rightColumn" yaml:"rightColumn"`
}

// Operator is a comparison operator usable in a WHERE condition.
type Operator string

const (
	// OpEquals checks equality.
	OpEquals Operator = "="
	// OpNotEquals checks inequality.
	OpNotEquals Operator = "!="
	// OpGreater checks strictly greater than.
	OpGreater Operator = ">"
	// OpLess checks strictly less than.
	OpLess Operator = "<"
	// OpGreaterOrEqual checks greater than or equal.
	OpGreaterOrEqual Operator = ">="
	// OpLessOrEqual checks less than or equal.
	OpLessOrEqual Operator = "<="
	// OpLike matches a pattern.
	OpLike Operator = "LIKE"
	// OpNotLike rejects a pattern.
	OpNotLike Operator = "NOT LIKE"
	// OpIn checks membership in a value list.
	OpIn Operator = "IN"
	// OpNotIn checks absence from a value list.
	OpNotIn Operator = "NOT IN"
	// OpIsNull checks for NULL.
	OpIsNull Operator = "IS NULL"
	// OpIsNotNull checks for non-NULL.
	OpIsNotNull Operator = "IS NOT NULL"
	// OpBetween checks an inclusive range.
	OpBetween Operator = "BETWEEN"
)

// NeedsValue reports whether the operator requires a literal operand.
func (o Operator) NeedsValue() bool {
	return o != OpIsNull && o != OpIsNotNull
}

// TakesList reports whether the operator compares against a value list.
func (o Operator) TakesList() bool {
	return o == OpIn || o == OpNotIn
}

// TakesRange reports whether the operator compares against a lower and
// an upper bound.
func (o Operator) TakesRange() bool {
	return o == OpBetween
}

// IsComparison reports whether the operator is a plain comparison, the
// subset allowed in HAVING conditions.
func (o Operator) IsComparison() bool {
	switch o {
	case OpEquals, OpNotEquals, OpGreater, OpLess, OpGreaterOrEqual, OpLessOrEqual:
		return true
	}
	return false
}

// Condition is a single filter predicate on one column. The populated
// value field depends on the operator: Values for IN and NOT IN, Value
// plus Value2 for BETWEEN, no value at all for IS NULL and IS NOT NULL,
// Value alone for everything else.
type Condition struct {
	ID         string   `json:"id" yaml:"id"`
	TableAlias string   `json:"tableAlias" yaml:"tableAlias"`
	ColumnName string   `json:"columnName" yaml:"columnName"`
	Operator   Operator `json:"operator" yaml:"operator"`
	Value      any      `json:"value,omitempty" yaml:"value,omitempty"`
	Value2     any      `json:"value2,omitempty" yaml:"value2,omitempty"`
	Values     []any    `json:"values,omitempty" yaml:"values,omitempty"`
}

// LogicalOperator combines the children of a condition group.
type LogicalOperator string

const (
	// LogicAnd requires all children to match.
	LogicAnd LogicalOperator = "AND"
	// LogicOr requires any child to match.
	LogicOr LogicalOperator = "OR"
)

// ConditionGroup is a node of the WHERE tree: conditions and nested
// sub-groups combined with one logical operator. The root group is the
// WHERE clause; a nil root on the query means no WHERE clause.
type ConditionGroup struct {
	ID         string           `json:"id" yaml:"id"`
	Operator   LogicalOperator  `json:"operator" yaml:"operator"`
	Conditions []Condition      `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Groups     []ConditionGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// GroupByColumn is one GROUP BY entry. The (TableAlias, ColumnName)
// pair is unique within the model.
type GroupByColumn struct {
	TableAlias string `json:"tableAlias" yaml:"tableAlias"`
	ColumnName string `json:"columnName" yaml:"columnName"`
}

// HavingCondition filters grouped rows on an aggregate value. Only
// plain comparison operators are allowed here.
type HavingCondition struct {
	ID         string    `json:"id" yaml:"id"`
	Aggregate  Aggregate `json:"aggregate" yaml:"aggregate"`
	TableAlias string    `json:"tableAlias" yaml:"tableAlias"`
	ColumnName string    `json:"columnName" yaml:"columnName"`
	Operator   Operator  `json:"operator" yaml:"operator"`
	Value      any       `json:"value,omitempty" yaml:"value,omitempty"`
}

// SortDirection orders an ORDER BY column ascending or descending.
type SortDirection string

const (
	// SortAsc sorts ascending.
	SortAsc SortDirection = "ASC"
	// SortDesc sorts descending.
	SortDesc SortDirection = "DESC"
)

// OrderByColumn is one ORDER BY entry; sequence order in Query.OrderBy
// is the sort precedence.
type OrderByColumn struct {
	ID         string        `json:"id" yaml:"id"`
	TableAlias string        `json:"tableAlias" yaml:"tableAlias"`
	ColumnName string        `json:"columnName" yaml:"columnName"`
	Direction  SortDirection `json:"direction" yaml:"direction"`
}
