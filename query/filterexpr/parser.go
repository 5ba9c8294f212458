// Package filterexpr provides a parser for boolean filter expressions
// using Participle. An expression like
//
//	u.age >= 30 AND (u.status = 'active' OR u.role IN ('admin', 'owner'))
//
// parses into a condition tree with OR binding looser than AND and
// parentheses introducing nested groups, ready to install as a query's
// WHERE clause.
package filterexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/satishbabariya/querystudio-go/query/model"
)

// orExpr is the raw parse tree root: AND chains joined by OR.
type orExpr struct {
	Left *andExpr   `@@`
	Rest []*andExpr `("OR" @@)*`
}

// andExpr is a chain of primaries joined by AND.
type andExpr struct {
	Left *primary   `@@`
	Rest []*primary `("AND" @@)*`
}

// primary is either a parenthesized sub-expression or one comparison.
type primary struct {
	Group      *orExpr     `"(" @@ ")"`
	Comparison *comparison `| @@`
}

// comparison is a qualified column followed by one operator shape.
type comparison struct {
	Ref     *columnRef `@@`
	IsNull  *isNullOp  `( @@`
	Between *betweenOp `| @@`
	In      *inOp      `| @@`
	Like    *likeOp    `| @@`
	Binary  *binaryOp  `| @@ )`
}

// columnRef is an alias-qualified column like u.created_at.
type columnRef struct {
	Table  string `@Ident "."`
	Column string `@Ident`
}

type isNullOp struct {
	Not bool `"IS" @"NOT"? "NULL"`
}

type betweenOp struct {
	Low  *literal `"BETWEEN" @@ "AND"`
	High *literal `@@`
}

type inOp struct {
	Not    bool       `@"NOT"? "IN" "("`
	Values []*literal `@@ ("," @@)* ")"`
}

type likeOp struct {
	Not     bool     `@"NOT"? "LIKE"`
	Pattern *literal `@@`
}

type binaryOp struct {
	Op    string   `@Operator`
	Value *literal `@@`
}

type literal struct {
	Str  *string `@String`
	Num  *string `| @Number`
	Bool *string `| @("TRUE" | "FALSE")`
	Null bool    `| @"NULL"`
}

// parser is the Participle parser instance.
var parser = participle.MustBuild[orExpr](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(10),
)

// Parse parses a filter expression into a condition tree. New groups
// and conditions are stamped with ids from the source; a nil source
// falls back to random UUIDs. Expressions whose parentheses nest
// groups deeper than the model allows are refused with
// model.ErrMaxDepth.
func Parse(input string, ids model.IDSource) (*model.ConditionGroup, error) {
	if ids == nil {
		ids = model.UUIDSource{}
	}
	raw, err := parser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	root := convertOr(raw, ids)
	if model.MaxDepth(&root) > model.MaxGroupDepth {
		return nil, fmt.Errorf("filter nests deeper than %d groups: %w", model.MaxGroupDepth, model.ErrMaxDepth)
	}
	return &root, nil
}

// MustParse parses a filter expression, panicking on error.
func MustParse(input string, ids model.IDSource) *model.ConditionGroup {
	root, err := Parse(input, ids)
	if err != nil {
		panic(err)
	}
	return root
}

// convertOr turns an OR chain into a group. A chain of one falls
// through to its AND chain so lone expressions do not pick up an
// extra OR wrapper.
func convertOr(e *orExpr, ids model.IDSource) model.ConditionGroup {
	terms := append([]*andExpr{e.Left}, e.Rest...)
	if len(terms) == 1 {
		return convertAnd(terms[0], ids)
	}
	g := model.ConditionGroup{ID: ids.NewID(), Operator: model.LogicOr}
	for _, t := range terms {
		appendChild(&g, convertAnd(t, ids))
	}
	return g
}

// convertAnd turns an AND chain into a group. A chain of a single
// parenthesized sub-expression unwraps to that sub-expression, so
// redundant parentheses never deepen the tree.
func convertAnd(e *andExpr, ids model.IDSource) model.ConditionGroup {
	prims := append([]*primary{e.Left}, e.Rest...)
	if len(prims) == 1 && prims[0].Group != nil {
		return convertOr(prims[0].Group, ids)
	}
	g := model.ConditionGroup{ID: ids.NewID(), Operator: model.LogicAnd}
	for _, p := range prims {
		if p.Group != nil {
			appendChild(&g, convertOr(p.Group, ids))
			continue
		}
		g.Conditions = append(g.Conditions, convertComparison(p.Comparison, ids))
	}
	return g
}

// appendChild attaches a converted sub-expression to its parent,
// folding a child holding one bare condition into the parent's
// condition list instead of nesting a single-member group.
func appendChild(g *model.ConditionGroup, child model.ConditionGroup) {
	if len(child.Groups) == 0 && len(child.Conditions) == 1 {
		g.Conditions = append(g.Conditions, child.Conditions[0])
		return
	}
	g.Groups = append(g.Groups, child)
}

func convertComparison(c *comparison, ids model.IDSource) model.Condition {
	cond := model.Condition{
		ID:         ids.NewID(),
		TableAlias: c.Ref.Table,
		ColumnName: c.Ref.Column,
	}
	switch {
	case c.IsNull != nil:
		cond.Operator = model.OpIsNull
		if c.IsNull.Not {
			cond.Operator = model.OpIsNotNull
		}
	case c.Between != nil:
		cond.Operator = model.OpBetween
		cond.Value = literalValue(c.Between.Low)
		cond.Value2 = literalValue(c.Between.High)
	case c.In != nil:
		cond.Operator = model.OpIn
		if c.In.Not {
			cond.Operator = model.OpNotIn
		}
		cond.Values = make([]any, len(c.In.Values))
		for i, l := range c.In.Values {
			cond.Values[i] = literalValue(l)
		}
	case c.Like != nil:
		cond.Operator = model.OpLike
		if c.Like.Not {
			cond.Operator = model.OpNotLike
		}
		cond.Value = literalValue(c.Like.Pattern)
	case c.Binary != nil:
		cond.Operator = binaryOperator(c.Binary.Op)
		cond.Value = literalValue(c.Binary.Value)
	}
	return cond
}

func binaryOperator(op string) model.Operator {
	switch op {
	case "=":
		return model.OpEquals
	case "!=", "<>":
		return model.OpNotEquals
	case ">":
		return model.OpGreater
	case "<":
		return model.OpLess
	case ">=":
		return model.OpGreaterOrEqual
	case "<=":
		return model.OpLessOrEqual
	}
	return model.Operator(op)
}

// literalValue converts a parsed literal to its Go value. Integers are
// preferred over floats; numbers too large for either stay strings and
// the value formatter deals with them downstream.
func literalValue(l *literal) any {
	switch {
	case l == nil:
		return nil
	case l.Str != nil:
		return unquote(*l.Str)
	case l.Num != nil:
		if n, err := strconv.Atoi(*l.Num); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(*l.Num, 64); err == nil {
			return f
		}
		return *l.Num
	case l.Bool != nil:
		return strings.EqualFold(*l.Bool, "true")
	}
	return nil
}

// unquote strips the surrounding single quotes and collapses the
// doubled-quote escape.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, "''", "'")
}
