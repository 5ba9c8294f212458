package model

// Clone returns a deep copy of the query. Edit operations already copy
// whatever they change, so Clone is only needed when a caller wants a
// full snapshot, for example to diff against after a batch of edits.
func (q Query) Clone() Query {
	out := q
	if q.Tables != nil {
		out.Tables = make([]Table, len(q.Tables))
		for i, t := range q.Tables {
			t.Columns = append([]ColumnInfo(nil), t.Columns...)
			out.Tables[i] = t
		}
	}
	out.Columns = append([]SelectedColumn(nil), q.Columns...)
	out.Joins = append([]Join(nil), q.Joins...)
	if q.Where != nil {
		w := q.Where.Clone()
		out.Where = &w
	}
	out.GroupBy = append([]GroupByColumn(nil), q.GroupBy...)
	out.Having = append([]HavingCondition(nil), q.Having...)
	out.OrderBy = append([]OrderByColumn(nil), q.OrderBy...)
	if q.Limit != nil {
		n := *q.Limit
		out.Limit = &n
	}
	if q.Offset != nil {
		n := *q.Offset
		out.Offset = &n
	}
	return out
}

// Clone returns a deep copy of the group and its entire subtree.
func (g ConditionGroup) Clone() ConditionGroup {
	out := g
	out.Conditions = cloneConditions(g.Conditions)
	if g.Groups != nil {
		out.Groups = make([]ConditionGroup, len(g.Groups))
		for i := range g.Groups {
			out.Groups[i] = g.Groups[i].Clone()
		}
	}
	return out
}

func cloneConditions(conds []Condition) []Condition {
	if conds == nil {
		return nil
	}
	out := make([]Condition, len(conds))
	copy(out, conds)
	for i := range out {
		out[i].Values = append([]any(nil), out[i].Values...)
	}
	return out
}
