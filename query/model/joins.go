package model

// JoinPatch carries partial updates for a join clause. Nil fields are
// left untouched.
type JoinPatch struct {
	Type        *JoinType
	LeftAlias   *string
	LeftColumn  *string
	RightAlias  *string
	RightColumn *string
}

// AddJoin appends a join clause. Join order is the order joins render
// in the FROM clause.
func AddJoin(q Query, j Join) Query {
	q.Joins = append(append([]Join(nil), q.Joins...), j)
	return q
}

// RemoveJoin drops the join with the given id. An unknown id leaves
// the query unchanged.
func RemoveJoin(q Query, joinID string) Query {
	idx := -1
	for i, j := range q.Joins {
		if j.ID == joinID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return q
	}
	joins := append([]Join(nil), q.Joins...)
	q.Joins = append(joins[:idx], joins[idx+1:]...)
	return q
}

// UpdateJoin merges the patch into the join with the given id. An
// unknown id leaves the query unchanged.
func UpdateJoin(q Query, joinID string, patch JoinPatch) Query {
	idx := -1
	for i, j := range q.Joins {
		if j.ID == joinID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return q
	}
	joins := append([]Join(nil), q.Joins...)
	j := joins[idx]
	if patch.Type != nil {
		j.Type = *patch.Type
	}
	if patch.LeftAlias != nil {
		j.LeftAlias = *patch.LeftAlias
	}
	if patch.LeftColumn != nil {
		j.LeftColumn = *patch.LeftColumn
	}
	if patch.RightAlias != nil {
		j.RightAlias = *patch.RightAlias
	}
	if patch.RightColumn != nil {
		j.RightColumn = *patch.RightColumn
	}
	joins[idx] = j
	q.Joins = joins
	return q
}
