package filterexpr

import (
	"errors"
	"testing"

	"github.com/satishbabariya/querystudio-go/query/model"
)

func parseOrFail(t *testing.T, input string) *model.ConditionGroup {
	t.Helper()
	root, err := Parse(input, &model.SequenceSource{})
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	return root
}

func TestParseSimpleComparison(t *testing.T) {
	root := parseOrFail(t, "u.age >= 30")

	if root.Operator != model.LogicAnd {
		t.Errorf("Expected AND root, got %s", root.Operator)
	}
	if len(root.Conditions) != 1 || len(root.Groups) != 0 {
		t.Fatalf("Expected 1 condition and no groups, got %d and %d", len(root.Conditions), len(root.Groups))
	}

	c := root.Conditions[0]
	if c.TableAlias != "u" || c.ColumnName != "age" {
		t.Errorf("Expected u.age, got %s.%s", c.TableAlias, c.ColumnName)
	}
	if c.Operator != model.OpGreaterOrEqual {
		t.Errorf("Expected >=, got %s", c.Operator)
	}
	if c.Value != 30 {
		t.Errorf("Expected value 30, got %v", c.Value)
	}
}

func TestParseAndChain(t *testing.T) {
	root := parseOrFail(t, "u.a = 1 AND u.b = 2 AND u.c = 3")

	if root.Operator != model.LogicAnd {
		t.Errorf("Expected AND root, got %s", root.Operator)
	}
	if len(root.Conditions) != 3 {
		t.Errorf("Expected 3 conditions, got %d", len(root.Conditions))
	}
}

func TestParseOrWithNestedGroup(t *testing.T) {
	root := parseOrFail(t, "u.status = 'active' OR (u.role = 'admin' AND u.verified = TRUE)")

	if root.Operator != model.LogicOr {
		t.Errorf("Expected OR root, got %s", root.Operator)
	}
	if len(root.Conditions) != 1 {
		t.Fatalf("Expected 1 direct condition, got %d", len(root.Conditions))
	}
	if root.Conditions[0].Value != "active" {
		t.Errorf("Expected value 'active', got %v", root.Conditions[0].Value)
	}

	if len(root.Groups) != 1 {
		t.Fatalf("Expected 1 nested group, got %d", len(root.Groups))
	}
	inner := root.Groups[0]
	if inner.Operator != model.LogicAnd {
		t.Errorf("Expected AND group, got %s", inner.Operator)
	}
	if len(inner.Conditions) != 2 {
		t.Fatalf("Expected 2 nested conditions, got %d", len(inner.Conditions))
	}
	if inner.Conditions[1].Value != true {
		t.Errorf("Expected boolean true, got %v", inner.Conditions[1].Value)
	}
}

func TestParseOperatorShapes(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, c model.Condition)
	}{
		{
			input: "u.deleted_at IS NULL",
			check: func(t *testing.T, c model.Condition) {
				if c.Operator != model.OpIsNull {
					t.Errorf("Expected IS NULL, got %s", c.Operator)
				}
				if c.Value != nil {
					t.Errorf("Expected no value, got %v", c.Value)
				}
			},
		},
		{
			input: "u.deleted_at IS NOT NULL",
			check: func(t *testing.T, c model.Condition) {
				if c.Operator != model.OpIsNotNull {
					t.Errorf("Expected IS NOT NULL, got %s", c.Operator)
				}
			},
		},
		{
			input: "u.role IN ('admin', 'owner', 3)",
			check: func(t *testing.T, c model.Condition) {
				if c.Operator != model.OpIn {
					t.Errorf("Expected IN, got %s", c.Operator)
				}
				if len(c.Values) != 3 {
					t.Fatalf("Expected 3 values, got %d", len(c.Values))
				}
				if c.Values[0] != "admin" || c.Values[2] != 3 {
					t.Errorf("Unexpected values %v", c.Values)
				}
			},
		},
		{
			input: "u.role NOT IN ('banned')",
			check: func(t *testing.T, c model.Condition) {
				if c.Operator != model.OpNotIn {
					t.Errorf("Expected NOT IN, got %s", c.Operator)
				}
			},
		},
		{
			input: "u.name LIKE '%smith%'",
			check: func(t *testing.T, c model.Condition) {
				if c.Operator != model.OpLike {
					t.Errorf("Expected LIKE, got %s", c.Operator)
				}
				if c.Value != "%smith%" {
					t.Errorf("Expected pattern, got %v", c.Value)
				}
			},
		},
		{
			input: "u.email NOT LIKE '%spam%'",
			check: func(t *testing.T, c model.Condition) {
				if c.Operator != model.OpNotLike {
					t.Errorf("Expected NOT LIKE, got %s", c.Operator)
				}
			},
		},
		{
			input: "o.total BETWEEN 10 AND 99.5",
			check: func(t *testing.T, c model.Condition) {
				if c.Operator != model.OpBetween {
					t.Errorf("Expected BETWEEN, got %s", c.Operator)
				}
				if c.Value != 10 {
					t.Errorf("Expected lower bound 10, got %v", c.Value)
				}
				if c.Value2 != 99.5 {
					t.Errorf("Expected upper bound 99.5, got %v", c.Value2)
				}
			},
		},
		{
			input: "u.status <> 'active'",
			check: func(t *testing.T, c model.Condition) {
				if c.Operator != model.OpNotEquals {
					t.Errorf("Expected != for <>, got %s", c.Operator)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := parseOrFail(t, tt.input)
			if len(root.Conditions) != 1 {
				t.Fatalf("Expected 1 condition, got %d", len(root.Conditions))
			}
			tt.check(t, root.Conditions[0])
		})
	}
}

func TestParseStringEscapes(t *testing.T) {
	root := parseOrFail(t, "u.name = 'O''Brien'")

	if root.Conditions[0].Value != "O'Brien" {
		t.Errorf("Expected O'Brien, got %v", root.Conditions[0].Value)
	}
}

func TestParseLowercaseKeywords(t *testing.T) {
	root := parseOrFail(t, "u.a = 1 and u.b is not null or u.c in (2, 3)")

	if root.Operator != model.LogicOr {
		t.Errorf("Expected OR root, got %s", root.Operator)
	}
	if len(root.Conditions) != 1 || len(root.Groups) != 1 {
		t.Fatalf("Expected 1 condition and 1 group, got %d and %d", len(root.Conditions), len(root.Groups))
	}
	if len(root.Groups[0].Conditions) != 2 {
		t.Errorf("Expected 2 AND-chained conditions, got %d", len(root.Groups[0].Conditions))
	}
}

func TestParseNegativeAndFloatNumbers(t *testing.T) {
	root := parseOrFail(t, "u.score >= -1.5")

	if root.Conditions[0].Value != -1.5 {
		t.Errorf("Expected -1.5, got %v", root.Conditions[0].Value)
	}
}

func TestParseRedundantParensDoNotNest(t *testing.T) {
	root := parseOrFail(t, "((u.a = 1 AND u.b = 2))")

	if len(root.Groups) != 0 {
		t.Errorf("Expected no nested groups, got %d", len(root.Groups))
	}
	if len(root.Conditions) != 2 {
		t.Errorf("Expected 2 conditions, got %d", len(root.Conditions))
	}
}

func TestParseGroupBeforeCondition(t *testing.T) {
	root := parseOrFail(t, "(u.a = 1 OR u.b = 2) AND u.c = 3")

	if root.Operator != model.LogicAnd {
		t.Errorf("Expected AND root, got %s", root.Operator)
	}
	if len(root.Conditions) != 1 || len(root.Groups) != 1 {
		t.Fatalf("Expected 1 condition and 1 group, got %d and %d", len(root.Conditions), len(root.Groups))
	}
	if root.Groups[0].Operator != model.LogicOr {
		t.Errorf("Expected OR group, got %s", root.Groups[0].Operator)
	}
}

func TestParseDepthLimit(t *testing.T) {
	ok := "u.a = 1 OR (u.b = 2 AND (u.c = 3 OR (u.d = 4 AND u.e = 5)))"
	if _, err := Parse(ok, &model.SequenceSource{}); err != nil {
		t.Fatalf("Expected depth %d to parse, got %v", model.MaxGroupDepth, err)
	}

	tooDeep := "u.a = 1 OR (u.b = 2 AND (u.c = 3 OR (u.d = 4 AND (u.e = 5 OR u.f = 6))))"
	_, err := Parse(tooDeep, &model.SequenceSource{})
	if !errors.Is(err, model.ErrMaxDepth) {
		t.Errorf("Expected ErrMaxDepth, got %v", err)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	inputs := []string{
		"",
		"age > 10",
		"u.age >",
		"u.age BETWEEN 1",
		"u.name LIKE",
		"u.role IN ()",
		"u.a = 1 AND",
		"(u.a = 1",
	}
	for _, input := range inputs {
		if _, err := Parse(input, nil); err == nil {
			t.Errorf("Expected parse of %q to fail", input)
		}
	}
}

func TestParseAssignsSequentialIDs(t *testing.T) {
	root := parseOrFail(t, "u.a = 1 OR (u.b = 2 AND u.c = 3)")

	seen := map[string]bool{root.ID: true}
	for _, c := range root.Conditions {
		if c.ID == "" || seen[c.ID] {
			t.Errorf("Condition id %q missing or duplicated", c.ID)
		}
		seen[c.ID] = true
	}
	for _, g := range root.Groups {
		if g.ID == "" || seen[g.ID] {
			t.Errorf("Group id %q missing or duplicated", g.ID)
		}
		seen[g.ID] = true
		for _, c := range g.Conditions {
			if c.ID == "" || seen[c.ID] {
				t.Errorf("Condition id %q missing or duplicated", c.ID)
			}
			seen[c.ID] = true
		}
	}
}
