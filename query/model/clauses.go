package model

// WithWhere sets or clears the WHERE tree root. The group is deep
// copied so later edits to the caller's value cannot reach into the
// query.
func WithWhere(q Query, root *ConditionGroup) Query {
	if root == nil {
		q.Where = nil
		return q
	}
	cloned := root.Clone()
	q.Where = &cloned
	return q
}

// AddGroupBy appends a GROUP BY entry. A duplicate (alias, column)
// pair is ignored, keeping the entries unique.
func AddGroupBy(q Query, gb GroupByColumn) Query {
	for _, existing := range q.GroupBy {
		if existing == gb {
			return q
		}
	}
	q.GroupBy = append(append([]GroupByColumn(nil), q.GroupBy...), gb)
	return q
}

// RemoveGroupBy drops the GROUP BY entry for the given column
// reference. An unknown pair leaves the query unchanged.
func RemoveGroupBy(q Query, tableAlias, columnName string) Query {
	idx := -1
	for i, gb := range q.GroupBy {
		if gb.TableAlias == tableAlias && gb.ColumnName == columnName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return q
	}
	groupBy := append([]GroupByColumn(nil), q.GroupBy...)
	q.GroupBy = append(groupBy[:idx], groupBy[idx+1:]...)
	return q
}

// AddHaving appends a HAVING condition.
func AddHaving(q Query, h HavingCondition) Query {
	q.Having = append(append([]HavingCondition(nil), q.Having...), h)
	return q
}

// RemoveHaving drops the HAVING condition with the given id. An
// unknown id leaves the query unchanged.
func RemoveHaving(q Query, havingID string) Query {
	idx := -1
	for i, h := range q.Having {
		if h.ID == havingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return q
	}
	having := append([]HavingCondition(nil), q.Having...)
	q.Having = append(having[:idx], having[idx+1:]...)
	return q
}

// UpdateHaving replaces the HAVING condition sharing h's id with h. An
// unknown id leaves the query unchanged.
func UpdateHaving(q Query, h HavingCondition) Query {
	idx := -1
	for i, existing := range q.Having {
		if existing.ID == h.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return q
	}
	having := append([]HavingCondition(nil), q.Having...)
	having[idx] = h
	q.Having = having
	return q
}

// AddOrderBy appends an ORDER BY entry; sequence order is the sort
// precedence.
func AddOrderBy(q Query, o OrderByColumn) Query {
	q.OrderBy = append(append([]OrderByColumn(nil), q.OrderBy...), o)
	return q
}

// RemoveOrderBy drops the ORDER BY entry with the given id. An unknown
// id leaves the query unchanged.
func RemoveOrderBy(q Query, orderByID string) Query {
	idx := -1
	for i, o := range q.OrderBy {
		if o.ID == orderByID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return q
	}
	orderBy := append([]OrderByColumn(nil), q.OrderBy...)
	q.OrderBy = append(orderBy[:idx], orderBy[idx+1:]...)
	return q
}

// UpdateOrderBy replaces the ORDER BY entry sharing o's id with o. An
// unknown id leaves the query unchanged.
func UpdateOrderBy(q Query, o OrderByColumn) Query {
	idx := -1
	for i, existing := range q.OrderBy {
		if existing.ID == o.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return q
	}
	orderBy := append([]OrderByColumn(nil), q.OrderBy...)
	orderBy[idx] = o
	q.OrderBy = orderBy
	return q
}

// WithLimit sets the LIMIT row count.
func WithLimit(q Query, limit int) Query {
	q.Limit = &limit
	return q
}

// ClearLimit removes the LIMIT clause.
func ClearLimit(q Query) Query {
	q.Limit = nil
	return q
}

// WithOffset sets the OFFSET row count.
func WithOffset(q Query, offset int) Query {
	q.Offset = &offset
	return q
}

// ClearOffset removes the OFFSET clause.
func ClearOffset(q Query) Query {
	q.Offset = nil
	return q
}
