// Package builder owns a query model on behalf of an editing surface.
// A Session applies discrete edits through the model's immutable
// operations, stamps new entities with ids from an injected source,
// and re-checks the model's structural invariants after every change.
package builder

import (
	"github.com/satishbabariya/querystudio-go/query/filterexpr"
	"github.com/satishbabariya/querystudio-go/query/model"
	"github.com/satishbabariya/querystudio-go/query/sqlgen"
	"github.com/satishbabariya/querystudio-go/query/validator"
)

// Session is the single owner of an in-progress query. It is not safe
// for concurrent use; edits arrive as discrete calls from one
// goroutine, the way an interactive surface drives them.
type Session struct {
	ids    model.IDSource
	query  model.Query
	issues []model.Issue
}

// NewSession returns an empty session. A nil id source falls back to
// random UUIDs.
func NewSession(ids model.IDSource) *Session {
	if ids == nil {
		ids = model.UUIDSource{}
	}
	return &Session{ids: ids}
}

// Restore returns a session primed with an existing query, for
// documents loaded from disk. Invariants are checked immediately.
func Restore(ids model.IDSource, q model.Query) *Session {
	s := NewSession(ids)
	s.apply(q.Clone())
	return s
}

// Query returns a deep copy of the current model, so no caller ever
// holds a mutable reference into the session's state.
func (s *Session) Query() model.Query {
	return s.query.Clone()
}

// Issues returns the structural invariant violations found after the
// most recent edit.
func (s *Session) Issues() []model.Issue {
	return append([]model.Issue(nil), s.issues...)
}

// Reset clears the session back to an empty query, as happens when the
// user resets the builder or switches connections.
func (s *Session) Reset() {
	s.query = model.NewQuery()
	s.issues = nil
}

// SQL compiles the current model for the dialect.
func (s *Session) SQL(d sqlgen.Dialect) string {
	return sqlgen.Compile(s.query, d)
}

// Validate runs the semantic validator over the current model.
func (s *Session) Validate() validator.Result {
	return validator.Validate(s.query)
}

func (s *Session) apply(q model.Query) {
	s.query = q
	s.issues = model.CheckInvariants(q)
}

// AddTable adds a table under a freshly allocated alias and returns
// the alias.
func (s *Session) AddTable(schema, name string, columns []model.ColumnInfo) string {
	q, alias := model.AddTable(s.query, schema, name, columns)
	s.apply(q)
	return alias
}

// RemoveTable removes a table and prunes everything that referenced it.
func (s *Session) RemoveTable(alias string) {
	s.apply(model.RemoveTable(s.query, alias))
}

// TableReferences reports how many query parts reference the alias,
// for warning the user before RemoveTable prunes them.
func (s *Session) TableReferences(alias string) model.TableRefs {
	return model.TableReferences(s.query, alias)
}

// AddColumn appends a bare column to the SELECT list and returns its id.
func (s *Session) AddColumn(tableAlias, columnName string) string {
	id := s.ids.NewID()
	s.apply(model.AddColumn(s.query, model.SelectedColumn{
		ID:         id,
		TableAlias: tableAlias,
		ColumnName: columnName,
	}))
	return id
}

// UpdateColumn merges a patch into the identified column.
func (s *Session) UpdateColumn(columnID string, patch model.ColumnPatch) {
	s.apply(model.UpdateColumn(s.query, columnID, patch))
}

// RemoveColumn drops the identified column.
func (s *Session) RemoveColumn(columnID string) {
	s.apply(model.RemoveColumn(s.query, columnID))
}

// MoveColumn moves the identified column to a new SELECT position.
func (s *Session) MoveColumn(columnID string, newIndex int) {
	s.apply(model.MoveColumn(s.query, columnID, newIndex))
}

// AddJoin appends a join clause and returns its id.
func (s *Session) AddJoin(t model.JoinType, leftAlias, leftColumn, rightAlias, rightColumn string) string {
	id := s.ids.NewID()
	s.apply(model.AddJoin(s.query, model.Join{
		ID:          id,
		Type:        t,
		LeftAlias:   leftAlias,
		LeftColumn:  leftColumn,
		RightAlias:  rightAlias,
		RightColumn: rightColumn,
	}))
	return id
}

// UpdateJoin merges a patch into the identified join.
func (s *Session) UpdateJoin(joinID string, patch model.JoinPatch) {
	s.apply(model.UpdateJoin(s.query, joinID, patch))
}

// RemoveJoin drops the identified join.
func (s *Session) RemoveJoin(joinID string) {
	s.apply(model.RemoveJoin(s.query, joinID))
}

// EnsureWhere creates the root condition group if the query has none
// and returns the root's id either way.
func (s *Session) EnsureWhere(op model.LogicalOperator) string {
	if s.query.Where != nil {
		return s.query.Where.ID
	}
	root := model.ConditionGroup{ID: s.ids.NewID(), Operator: op}
	q := s.query
	q.Where = &root
	s.apply(q)
	return root.ID
}

// ClearWhere drops the whole WHERE tree.
func (s *Session) ClearWhere() {
	q := s.query
	q.Where = nil
	s.apply(q)
}

// ApplyFilter parses a boolean filter expression and installs the
// result as the WHERE tree, replacing whatever was there. A failed
// parse leaves the query untouched.
func (s *Session) ApplyFilter(expr string) error {
	root, err := filterexpr.Parse(expr, s.ids)
	if err != nil {
		return err
	}
	q := s.query
	q.Where = root
	s.apply(q)
	return nil
}

// AddGroup nests a new group under the identified parent and returns
// the new group's id. Nesting past the depth limit returns
// model.ErrMaxDepth; an unknown parent returns an empty id.
func (s *Session) AddGroup(parentID string, op model.LogicalOperator) (string, error) {
	id := s.ids.NewID()
	root, err := model.AddNestedGroup(s.query.Where, parentID, model.ConditionGroup{ID: id, Operator: op})
	if err != nil {
		return "", err
	}
	if root == s.query.Where {
		return "", nil
	}
	q := s.query
	q.Where = root
	s.apply(q)
	return id, nil
}

// SetGroupOperator switches the identified group between AND and OR.
func (s *Session) SetGroupOperator(groupID string, op model.LogicalOperator) {
	root := model.UpdateGroup(s.query.Where, groupID, model.GroupPatch{Operator: &op})
	q := s.query
	q.Where = root
	s.apply(q)
}

// RemoveGroup drops the identified nested group. The root group is
// cleared through ClearWhere instead.
func (s *Session) RemoveGroup(groupID string) {
	root := model.RemoveGroup(s.query.Where, groupID)
	q := s.query
	q.Where = root
	s.apply(q)
}

// AddCondition appends a condition to the identified group and returns
// the condition's id. An unknown group returns an empty id.
func (s *Session) AddCondition(groupID string, c model.Condition) string {
	g := model.FindGroup(s.query.Where, groupID)
	if g == nil {
		return ""
	}
	if c.ID == "" {
		c.ID = s.ids.NewID()
	}
	s.spliceGroup(groupID, model.AddCondition(*g, c))
	return c.ID
}

// UpdateCondition replaces the condition sharing c's id, wherever it
// sits in the tree.
func (s *Session) UpdateCondition(c model.Condition) {
	owner := model.FindConditionOwner(s.query.Where, c.ID)
	if owner == nil {
		return
	}
	s.spliceGroup(owner.ID, model.ReplaceCondition(*owner, c))
}

// RemoveCondition drops the identified condition, wherever it sits in
// the tree.
func (s *Session) RemoveCondition(conditionID string) {
	owner := model.FindConditionOwner(s.query.Where, conditionID)
	if owner == nil {
		return
	}
	s.spliceGroup(owner.ID, model.RemoveCondition(*owner, conditionID))
}

// spliceGroup writes an edited copy of one group back into the tree.
func (s *Session) spliceGroup(groupID string, g model.ConditionGroup) {
	root := model.UpdateGroup(s.query.Where, groupID, model.GroupPatch{
		Operator:   &g.Operator,
		Conditions: &g.Conditions,
		Groups:     &g.Groups,
	})
	q := s.query
	q.Where = root
	s.apply(q)
}

// AddGroupBy appends a GROUP BY entry; duplicates are ignored.
func (s *Session) AddGroupBy(tableAlias, columnName string) {
	s.apply(model.AddGroupBy(s.query, model.GroupByColumn{
		TableAlias: tableAlias,
		ColumnName: columnName,
	}))
}

// RemoveGroupBy drops a GROUP BY entry.
func (s *Session) RemoveGroupBy(tableAlias, columnName string) {
	s.apply(model.RemoveGroupBy(s.query, tableAlias, columnName))
}

// AddHaving appends a HAVING condition and returns its id.
func (s *Session) AddHaving(h model.HavingCondition) string {
	if h.ID == "" {
		h.ID = s.ids.NewID()
	}
	s.apply(model.AddHaving(s.query, h))
	return h.ID
}

// UpdateHaving replaces the HAVING condition sharing h's id.
func (s *Session) UpdateHaving(h model.HavingCondition) {
	s.apply(model.UpdateHaving(s.query, h))
}

// RemoveHaving drops the identified HAVING condition.
func (s *Session) RemoveHaving(havingID string) {
	s.apply(model.RemoveHaving(s.query, havingID))
}

// AddOrderBy appends an ORDER BY entry and returns its id.
func (s *Session) AddOrderBy(tableAlias, columnName string, dir model.SortDirection) string {
	id := s.ids.NewID()
	s.apply(model.AddOrderBy(s.query, model.OrderByColumn{
		ID:         id,
		TableAlias: tableAlias,
		ColumnName: columnName,
		Direction:  dir,
	}))
	return id
}

// UpdateOrderBy replaces the ORDER BY entry sharing o's id.
func (s *Session) UpdateOrderBy(o model.OrderByColumn) {
	s.apply(model.UpdateOrderBy(s.query, o))
}

// RemoveOrderBy drops the identified ORDER BY entry.
func (s *Session) RemoveOrderBy(orderByID string) {
	s.apply(model.RemoveOrderBy(s.query, orderByID))
}

// SetLimit caps the row count.
func (s *Session) SetLimit(n int) {
	s.apply(model.WithLimit(s.query, n))
}

// ClearLimit removes the row cap.
func (s *Session) ClearLimit() {
	s.apply(model.ClearLimit(s.query))
}

// SetOffset skips leading rows.
func (s *Session) SetOffset(n int) {
	s.apply(model.WithOffset(s.query, n))
}

// ClearOffset removes the row skip.
func (s *Session) ClearOffset() {
	s.apply(model.ClearOffset(s.query))
}
