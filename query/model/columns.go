package model

// ColumnPatch carries partial updates for a selected column. Nil
// fields are left untouched.
type ColumnPatch struct {
	Alias     *string
	Aggregate *Aggregate
	Distinct  *bool
}

// AddColumn appends a column to the SELECT list.
func AddColumn(q Query, c SelectedColumn) Query {
	q.Columns = append(append([]SelectedColumn(nil), q.Columns...), c)
	return q
}

// RemoveColumn drops the column with the given id. An unknown id
// leaves the query unchanged.
func RemoveColumn(q Query, columnID string) Query {
	idx := columnIndex(q, columnID)
	if idx < 0 {
		return q
	}
	columns := append([]SelectedColumn(nil), q.Columns...)
	q.Columns = append(columns[:idx], columns[idx+1:]...)
	return q
}

// UpdateColumn merges the patch into the column with the given id. An
// unknown id leaves the query unchanged.
func UpdateColumn(q Query, columnID string, patch ColumnPatch) Query {
	idx := columnIndex(q, columnID)
	if idx < 0 {
		return q
	}
	columns := append([]SelectedColumn(nil), q.Columns...)
	c := columns[idx]
	if patch.Alias != nil {
		c.Alias = *patch.Alias
	}
	if patch.Aggregate != nil {
		c.Aggregate = *patch.Aggregate
	}
	if patch.Distinct != nil {
		c.Distinct = *patch.Distinct
	}
	columns[idx] = c
	q.Columns = columns
	return q
}

// MoveColumn moves the column with the given id to a new position in
// the SELECT list, shifting the columns in between. Positions outside
// the list are clamped to its ends; an unknown id leaves the query
// unchanged.
func MoveColumn(q Query, columnID string, newIndex int) Query {
	idx := columnIndex(q, columnID)
	if idx < 0 {
		return q
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(q.Columns)-1 {
		newIndex = len(q.Columns) - 1
	}
	if newIndex == idx {
		return q
	}
	columns := append([]SelectedColumn(nil), q.Columns...)
	c := columns[idx]
	columns = append(columns[:idx], columns[idx+1:]...)
	columns = append(columns, SelectedColumn{})
	copy(columns[newIndex+1:], columns[newIndex:])
	columns[newIndex] = c
	q.Columns = columns
	return q
}

func columnIndex(q Query, columnID string) int {
	for i, c := range q.Columns {
		if c.ID == columnID {
			return i
		}
	}
	return -1
}
