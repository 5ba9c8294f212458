package model

import "errors"

// ErrMaxDepth reports an attempt to nest a condition group deeper than
// MaxGroupDepth allows.
var ErrMaxDepth = errors.New("condition group nesting too deep")

// GroupPatch carries partial updates for a condition group. Nil fields
// are left untouched; set fields replace the group's field wholesale.
type GroupPatch struct {
	Operator   *LogicalOperator
	Conditions *[]Condition
	Groups     *[]ConditionGroup
}

// UpdateGroup returns a new tree in which the group with the given id
// has the patch merged into it. Every ancestor on the path to that
// group is rebuilt; untouched subtrees are shared with the input tree.
// An unknown id returns the root unchanged.
func UpdateGroup(root *ConditionGroup, groupID string, patch GroupPatch) *ConditionGroup {
	if root == nil {
		return nil
	}
	updated, found := updateGroupRec(*root, groupID, patch)
	if !found {
		return root
	}
	return &updated
}

func updateGroupRec(g ConditionGroup, groupID string, patch GroupPatch) (ConditionGroup, bool) {
	if g.ID == groupID {
		return applyGroupPatch(g, patch), true
	}
	for i := range g.Groups {
		child, found := updateGroupRec(g.Groups[i], groupID, patch)
		if !found {
			continue
		}
		groups := append([]ConditionGroup(nil), g.Groups...)
		groups[i] = child
		g.Groups = groups
		return g, true
	}
	return g, false
}

func applyGroupPatch(g ConditionGroup, patch GroupPatch) ConditionGroup {
	if patch.Operator != nil {
		g.Operator = *patch.Operator
	}
	if patch.Conditions != nil {
		g.Conditions = cloneConditions(*patch.Conditions)
	}
	if patch.Groups != nil {
		groups := make([]ConditionGroup, len(*patch.Groups))
		for i, child := range *patch.Groups {
			groups[i] = child.Clone()
		}
		g.Groups = groups
	}
	return g
}

// AddNestedGroup returns a new tree with the group appended to the
// parent's sub-group sequence. The edit is refused with ErrMaxDepth
// when it would place any node of the new subtree deeper than
// MaxGroupDepth. An unknown parent id returns the root unchanged with
// no error.
func AddNestedGroup(root *ConditionGroup, parentID string, g ConditionGroup) (*ConditionGroup, error) {
	if root == nil {
		return nil, nil
	}
	depth, ok := GroupDepth(root, parentID)
	if !ok {
		return root, nil
	}
	if depth+1+groupHeight(g) > MaxGroupDepth {
		return root, ErrMaxDepth
	}
	updated, _ := addGroupRec(*root, parentID, g.Clone())
	return &updated, nil
}

func addGroupRec(g ConditionGroup, parentID string, child ConditionGroup) (ConditionGroup, bool) {
	if g.ID == parentID {
		groups := append([]ConditionGroup(nil), g.Groups...)
		g.Groups = append(groups, child)
		return g, true
	}
	for i := range g.Groups {
		sub, found := addGroupRec(g.Groups[i], parentID, child)
		if !found {
			continue
		}
		groups := append([]ConditionGroup(nil), g.Groups...)
		groups[i] = sub
		g.Groups = groups
		return g, true
	}
	return g, false
}

// RemoveGroup returns a new tree with the identified group filtered
// out of every sub-group sequence it appears in. The root group cannot
// be removed this way; callers clear the query's Where field instead.
// An unknown id returns the root unchanged.
func RemoveGroup(root *ConditionGroup, groupID string) *ConditionGroup {
	if root == nil {
		return nil
	}
	if root.ID == groupID {
		return root
	}
	updated, removed := removeGroupRec(*root, groupID)
	if !removed {
		return root
	}
	return &updated
}

func removeGroupRec(g ConditionGroup, groupID string) (ConditionGroup, bool) {
	removed := false
	groups := make([]ConditionGroup, 0, len(g.Groups))
	for _, child := range g.Groups {
		if child.ID == groupID {
			removed = true
			continue
		}
		sub, subRemoved := removeGroupRec(child, groupID)
		if subRemoved {
			removed = true
		}
		groups = append(groups, sub)
	}
	if removed {
		g.Groups = groups
	}
	return g, removed
}

// AddCondition returns a copy of the group with the condition
// appended. The group id is resolved by the caller first; use
// UpdateGroup to splice the result back into a tree.
func AddCondition(g ConditionGroup, c Condition) ConditionGroup {
	c.Values = append([]any(nil), c.Values...)
	conds := append([]Condition(nil), g.Conditions...)
	g.Conditions = append(conds, c)
	return g
}

// RemoveCondition returns a copy of the group with the identified
// condition filtered out. An unknown id returns the group unchanged.
func RemoveCondition(g ConditionGroup, conditionID string) ConditionGroup {
	idx := -1
	for i, c := range g.Conditions {
		if c.ID == conditionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return g
	}
	conds := append([]Condition(nil), g.Conditions...)
	g.Conditions = append(conds[:idx], conds[idx+1:]...)
	return g
}

// ReplaceCondition returns a copy of the group with the condition
// sharing c's id replaced by c. An unknown id returns the group
// unchanged.
func ReplaceCondition(g ConditionGroup, c Condition) ConditionGroup {
	idx := -1
	for i, existing := range g.Conditions {
		if existing.ID == c.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return g
	}
	c.Values = append([]any(nil), c.Values...)
	conds := append([]Condition(nil), g.Conditions...)
	conds[idx] = c
	g.Conditions = conds
	return g
}

// FindGroup returns a pointer to the group with the given id inside
// the tree, or nil when absent. The pointer aliases the tree; treat it
// as read-only.
func FindGroup(root *ConditionGroup, groupID string) *ConditionGroup {
	if root == nil {
		return nil
	}
	if root.ID == groupID {
		return root
	}
	for i := range root.Groups {
		if g := FindGroup(&root.Groups[i], groupID); g != nil {
			return g
		}
	}
	return nil
}

// FindConditionOwner returns the group that directly holds the
// condition with the given id, or nil when absent. The pointer aliases
// the tree; treat it as read-only.
func FindConditionOwner(root *ConditionGroup, conditionID string) *ConditionGroup {
	if root == nil {
		return nil
	}
	for _, c := range root.Conditions {
		if c.ID == conditionID {
			return root
		}
	}
	for i := range root.Groups {
		if g := FindConditionOwner(&root.Groups[i], conditionID); g != nil {
			return g
		}
	}
	return nil
}

// GroupDepth returns the nesting depth of the group with the given id,
// with the root at depth 0. The second result is false when the id is
// not in the tree.
func GroupDepth(root *ConditionGroup, groupID string) (int, bool) {
	if root == nil {
		return 0, false
	}
	return groupDepthRec(*root, groupID, 0)
}

func groupDepthRec(g ConditionGroup, groupID string, depth int) (int, bool) {
	if g.ID == groupID {
		return depth, true
	}
	for _, child := range g.Groups {
		if d, ok := groupDepthRec(child, groupID, depth+1); ok {
			return d, true
		}
	}
	return 0, false
}

// MaxDepth returns the depth of the deepest group in the tree, with
// the root at depth 0. A nil root counts as depth 0.
func MaxDepth(root *ConditionGroup) int {
	if root == nil {
		return 0
	}
	return groupHeight(*root)
}

func groupHeight(g ConditionGroup) int {
	h := 0
	for _, child := range g.Groups {
		if ch := groupHeight(child) + 1; ch > h {
			h = ch
		}
	}
	return h
}
