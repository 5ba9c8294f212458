package sqlgen

import (
	"strconv"
	"strings"

	"github.com/satishbabariya/querystudio-go/query/model"
)

// Compile renders the query model as SQL text for the dialect, clause
// by clause, omitting empty clauses entirely. It never fails: a model
// the validator rejects still renders to its best-effort text, which
// the target database is free to refuse.
func Compile(q model.Query, d Dialect) string {
	parts := []string{buildSelect(q, d)}

	if from := buildFrom(q, d); from != "" {
		parts = append(parts, "FROM "+from)
	}
	parts = append(parts, buildJoins(q, d)...)

	if where := buildWhere(q, d); where != "" {
		parts = append(parts, "WHERE "+where)
	}
	if groupBy := buildGroupBy(q, d); groupBy != "" {
		parts = append(parts, "GROUP BY "+groupBy)
	}
	if having := buildHaving(q, d); having != "" {
		parts = append(parts, "HAVING "+having)
	}
	if orderBy := buildOrderBy(q, d); orderBy != "" {
		parts = append(parts, "ORDER BY "+orderBy)
	}
	parts = append(parts, buildLimit(q, d)...)

	return strings.Join(parts, " ")
}

func buildSelect(q model.Query, d Dialect) string {
	sel := "SELECT "
	if d.UseTopClause && q.Limit != nil && q.Offset == nil {
		sel += "TOP " + strconv.Itoa(*q.Limit) + " "
	}
	if len(q.Columns) == 0 {
		return sel + "*"
	}
	cols := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		cols[i] = buildColumn(c, d)
	}
	return sel + strings.Join(cols, ", ")
}

func buildColumn(c model.SelectedColumn, d Dialect) string {
	expr := aggExpr(c.Aggregate, columnRef(c.TableAlias, c.ColumnName, d))
	if c.Distinct {
		expr = "DISTINCT " + expr
	}
	if c.Alias != "" {
		expr += " AS " + d.QuoteIdent(c.Alias)
	}
	return expr
}

func aggExpr(a model.Aggregate, ref string) string {
	switch a {
	case "":
		return ref
	case model.AggCountDistinct:
		return "COUNT(DISTINCT " + ref + ")"
	default:
		return string(a) + "(" + ref + ")"
	}
}

func columnRef(alias, column string, d Dialect) string {
	return d.QuoteIdent(alias) + "." + d.QuoteIdent(column)
}

// buildFrom renders the first table as the base of the FROM clause.
// Tables never introduced by a join are kept alongside it as a comma
// list so nothing the user added silently disappears.
func buildFrom(q model.Query, d Dialect) string {
	if len(q.Tables) == 0 {
		return ""
	}
	joined := make(map[string]bool, len(q.Joins))
	for _, j := range q.Joins {
		joined[j.RightAlias] = true
	}
	items := []string{tableRef(q.Tables[0], d)}
	for _, t := range q.Tables[1:] {
		if !joined[t.Alias] {
			items = append(items, tableRef(t, d))
		}
	}
	return strings.Join(items, ", ")
}

func tableRef(t model.Table, d Dialect) string {
	name := d.QuoteIdent(t.Name)
	if t.Schema != "" {
		name = d.QuoteIdent(t.Schema) + "." + name
	}
	return name + " AS " + d.QuoteIdent(t.Alias)
}

func buildJoins(q model.Query, d Dialect) []string {
	parts := make([]string, 0, len(q.Joins))
	for _, j := range q.Joins {
		t, ok := model.TableByAlias(q, j.RightAlias)
		if !ok {
			t = model.Table{Alias: j.RightAlias, Name: j.RightAlias}
		}
		kind := j.Type
		if kind == "" {
			kind = model.JoinInner
		}
		on := columnRef(j.LeftAlias, j.LeftColumn, d) + " = " + columnRef(j.RightAlias, j.RightColumn, d)
		parts = append(parts, string(kind)+" JOIN "+tableRef(t, d)+" ON "+on)
	}
	return parts
}

func buildWhere(q model.Query, d Dialect) string {
	if q.Where == nil {
		return ""
	}
	return buildGroup(q, *q.Where, 0, d)
}

// buildGroup renders one node of the condition tree. Children join on
// the group's own operator; any nested group wraps itself in
// parentheses so mixed AND/OR levels keep their meaning.
func buildGroup(q model.Query, g model.ConditionGroup, depth int, d Dialect) string {
	var parts []string
	for _, c := range g.Conditions {
		if s := buildCondition(q, c, d); s != "" {
			parts = append(parts, s)
		}
	}
	for _, child := range g.Groups {
		if s := buildGroup(q, child, depth+1, d); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	op := g.Operator
	if op == "" {
		op = model.LogicAnd
	}
	joined := strings.Join(parts, " "+string(op)+" ")
	if depth > 0 {
		return "(" + joined + ")"
	}
	return joined
}

func buildCondition(q model.Query, c model.Condition, d Dialect) string {
	op := c.Operator
	if op == "" {
		op = model.OpEquals
	}
	expr := columnRef(c.TableAlias, c.ColumnName, d) + " " + string(op)
	val := ValueExpr(c, model.ColumnType(q, c.TableAlias, c.ColumnName), d)
	if val == "" {
		return expr
	}
	return expr + " " + val
}

func buildGroupBy(q model.Query, d Dialect) string {
	if len(q.GroupBy) == 0 {
		return ""
	}
	items := make([]string, len(q.GroupBy))
	for i, gb := range q.GroupBy {
		items[i] = columnRef(gb.TableAlias, gb.ColumnName, d)
	}
	return strings.Join(items, ", ")
}

func buildHaving(q model.Query, d Dialect) string {
	if len(q.Having) == 0 {
		return ""
	}
	parts := make([]string, len(q.Having))
	for i, h := range q.Having {
		expr := aggExpr(h.Aggregate, columnRef(h.TableAlias, h.ColumnName, d))
		val := FormatValue(h.Value, havingValueType(q, h), d)
		parts[i] = expr + " " + string(h.Operator) + " " + val
	}
	return strings.Join(parts, " AND ")
}

// havingValueType picks the type family the HAVING literal is
// formatted against. Counting and arithmetic aggregates compare
// against numbers whatever the column type; MIN and MAX compare
// against the column's own type.
func havingValueType(q model.Query, h model.HavingCondition) string {
	switch h.Aggregate {
	case model.AggMin, model.AggMax, "":
		return model.ColumnType(q, h.TableAlias, h.ColumnName)
	default:
		return "numeric"
	}
}

func buildOrderBy(q model.Query, d Dialect) string {
	if len(q.OrderBy) == 0 {
		return ""
	}
	items := make([]string, len(q.OrderBy))
	for i, o := range q.OrderBy {
		dir := o.Direction
		if dir == "" {
			dir = model.SortAsc
		}
		items[i] = columnRef(o.TableAlias, o.ColumnName, d) + " " + string(dir)
	}
	return strings.Join(items, ", ")
}

func buildLimit(q model.Query, d Dialect) []string {
	hasLimit := q.Limit != nil
	hasOffset := q.Offset != nil
	if !hasLimit && !hasOffset {
		return nil
	}

	switch {
	case d.OffsetFetchSyntax && hasOffset:
		out := "OFFSET " + strconv.Itoa(*q.Offset) + " ROWS"
		if hasLimit {
			out += " FETCH NEXT " + strconv.Itoa(*q.Limit) + " ROWS ONLY"
		}
		return []string{out}
	case d.UseTopClause && hasLimit && !hasOffset:
		// Rendered as TOP in the SELECT clause.
		return nil
	case d.UseLimitComma && hasLimit && hasOffset:
		return []string{"LIMIT " + strconv.Itoa(*q.Offset) + ", " + strconv.Itoa(*q.Limit)}
	}

	var parts []string
	if hasLimit {
		parts = append(parts, "LIMIT "+strconv.Itoa(*q.Limit))
	}
	if hasOffset {
		parts = append(parts, "OFFSET "+strconv.Itoa(*q.Offset))
	}
	return parts
}
