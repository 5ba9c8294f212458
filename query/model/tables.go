package model

// AddTable adds a table to the query under a freshly allocated alias
// and returns the updated query together with the alias chosen.
func AddTable(q Query, schema, name string, columns []ColumnInfo) (Query, string) {
	alias := AllocateAlias(name, q.Aliases())
	t := Table{
		Alias:   alias,
		Schema:  schema,
		Name:    name,
		Columns: append([]ColumnInfo(nil), columns...),
	}
	q.Tables = append(append([]Table(nil), q.Tables...), t)
	return q, alias
}

// RemoveTable removes the table with the given alias and prunes every
// part of the query that referenced it: selected columns, joins,
// conditions anywhere in the WHERE tree, group-by entries, having
// conditions and order-by entries. Groups left empty by the prune are
// dropped as well. An unknown alias leaves the query unchanged.
func RemoveTable(q Query, alias string) Query {
	if !q.HasAlias(alias) {
		return q
	}

	out := q

	tables := make([]Table, 0, len(q.Tables)-1)
	for _, t := range q.Tables {
		if t.Alias != alias {
			tables = append(tables, t)
		}
	}
	out.Tables = tables

	var columns []SelectedColumn
	for _, c := range q.Columns {
		if c.TableAlias != alias {
			columns = append(columns, c)
		}
	}
	out.Columns = columns

	var joins []Join
	for _, j := range q.Joins {
		if j.LeftAlias != alias && j.RightAlias != alias {
			joins = append(joins, j)
		}
	}
	out.Joins = joins

	if q.Where != nil {
		pruned := pruneGroup(*q.Where, alias)
		if len(pruned.Conditions) == 0 && len(pruned.Groups) == 0 {
			out.Where = nil
		} else {
			out.Where = &pruned
		}
	}

	var groupBy []GroupByColumn
	for _, g := range q.GroupBy {
		if g.TableAlias != alias {
			groupBy = append(groupBy, g)
		}
	}
	out.GroupBy = groupBy

	var having []HavingCondition
	for _, h := range q.Having {
		if h.TableAlias != alias {
			having = append(having, h)
		}
	}
	out.Having = having

	var orderBy []OrderByColumn
	for _, o := range q.OrderBy {
		if o.TableAlias != alias {
			orderBy = append(orderBy, o)
		}
	}
	out.OrderBy = orderBy

	return out
}

func pruneGroup(g ConditionGroup, alias string) ConditionGroup {
	var conds []Condition
	for _, c := range g.Conditions {
		if c.TableAlias != alias {
			conds = append(conds, c)
		}
	}
	var groups []ConditionGroup
	for _, child := range g.Groups {
		pruned := pruneGroup(child, alias)
		if len(pruned.Conditions) > 0 || len(pruned.Groups) > 0 {
			groups = append(groups, pruned)
		}
	}
	g.Conditions = conds
	g.Groups = groups
	return g
}

// TableRefs counts the query parts that reference one table alias.
type TableRefs struct {
	Columns    int
	Joins      int
	Conditions int
	GroupBy    int
	Having     int
	OrderBy    int
}

// Total returns the combined reference count.
func (r TableRefs) Total() int {
	return r.Columns + r.Joins + r.Conditions + r.GroupBy + r.Having + r.OrderBy
}

// TableReferences scans the whole query for references to the given
// table alias. Callers use it to warn the user before RemoveTable
// prunes the referencing parts.
func TableReferences(q Query, alias string) TableRefs {
	var refs TableRefs
	for _, c := range q.Columns {
		if c.TableAlias == alias {
			refs.Columns++
		}
	}
	for _, j := range q.Joins {
		if j.LeftAlias == alias || j.RightAlias == alias {
			refs.Joins++
		}
	}
	if q.Where != nil {
		refs.Conditions = countGroupRefs(*q.Where, alias)
	}
	for _, g := range q.GroupBy {
		if g.TableAlias == alias {
			refs.GroupBy++
		}
	}
	for _, h := range q.Having {
		if h.TableAlias == alias {
			refs.Having++
		}
	}
	for _, o := range q.OrderBy {
		if o.TableAlias == alias {
			refs.OrderBy++
		}
	}
	return refs
}

func countGroupRefs(g ConditionGroup, alias string) int {
	n := 0
	for _, c := range g.Conditions {
		if c.TableAlias == alias {
			n++
		}
	}
	for _, child := range g.Groups {
		n += countGroupRefs(child, alias)
	}
	return n
}

// TableByAlias returns the table registered under the given alias.
func TableByAlias(q Query, alias string) (Table, bool) {
	for _, t := range q.Tables {
		if t.Alias == alias {
			return t, true
		}
	}
	return Table{}, false
}

// ColumnType returns the declared data type of a column reference, or
// the empty string when the table or column is not in the model.
func ColumnType(q Query, alias, column string) string {
	t, ok := TableByAlias(q, alias)
	if !ok {
		return ""
	}
	for _, c := range t.Columns {
		if c.Name == column {
			return c.DataType
		}
	}
	return ""
}
