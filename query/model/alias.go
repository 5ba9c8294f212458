package model

import (
	"fmt"
	"strings"
)

// AllocateAlias picks a unique alias for a table being added. It tries
// the lower-cased table name first and then appends _1, _2 and so on
// until the alias is free. Given a complete set of aliases in use it
// never returns a duplicate.
func AllocateAlias(tableName string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		taken[a] = struct{}{}
	}

	base := strings.ToLower(tableName)
	if base == "" {
		base = "t"
	}
	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// Aliases returns the table aliases currently in use, in table order.
func (q Query) Aliases() []string {
	out := make([]string, len(q.Tables))
	for i, t := range q.Tables {
		out[i] = t.Alias
	}
	return out
}

// HasAlias reports whether a table with the given alias is in the model.
func (q Query) HasAlias(alias string) bool {
	for _, t := range q.Tables {
		if t.Alias == alias {
			return true
		}
	}
	return false
}
