package sqlgen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/satishbabariya/querystudio-go/query/model"
)

type typeFamily int

const (
	familyText typeFamily = iota
	familyNumber
	familyBool
	familyTime
)

// classifyType buckets a declared column type into the family that
// decides how literals for it are rendered. Unknown types fall back to
// text, the safest family.
func classifyType(dataType string) typeFamily {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimSuffix(t, " unsigned")

	switch t {
	case "int", "integer", "smallint", "bigint", "int2", "int4", "int8",
		"tinyint", "mediumint", "serial", "smallserial", "bigserial",
		"decimal", "numeric", "real", "float", "float4", "float8",
		"double", "double precision", "money", "number", "hugeint",
		"uinteger", "ubigint":
		return familyNumber
	case "bool", "boolean", "bit":
		return familyBool
	case "date", "time", "timetz", "timestamp", "timestamptz",
		"datetime", "datetime2", "smalldatetime", "year", "interval",
		"timestamp with time zone", "timestamp without time zone",
		"time with time zone", "time without time zone":
		return familyTime
	default:
		return familyText
	}
}

// FormatValue renders one value as a SQL literal for a column of the
// given declared type. Formatting never fails: a value that does not
// fit the declared family degrades to a quoted string, and nil renders
// as the NULL keyword.
func FormatValue(v any, dataType string, d Dialect) string {
	if v == nil {
		return "NULL"
	}
	switch classifyType(dataType) {
	case familyNumber:
		return formatNumber(v)
	case familyBool:
		return formatBool(v, d)
	case familyTime:
		return formatTime(v)
	default:
		return quoteString(asString(v))
	}
}

// ValueExpr renders the right-hand side of a condition: nothing for
// the null-test operators, a parenthesized list for IN and NOT IN, a
// lower AND upper pair for BETWEEN, and a single literal otherwise.
func ValueExpr(c model.Condition, dataType string, d Dialect) string {
	switch {
	case !c.Operator.NeedsValue():
		return ""
	case c.Operator.TakesList():
		items := make([]string, len(c.Values))
		for i, v := range c.Values {
			items[i] = FormatValue(v, dataType, d)
		}
		return "(" + strings.Join(items, ", ") + ")"
	case c.Operator.TakesRange():
		return FormatValue(c.Value, dataType, d) + " AND " + FormatValue(c.Value2, dataType, d)
	default:
		return FormatValue(c.Value, dataType, d)
	}
}

func formatNumber(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", n)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		trimmed := strings.TrimSpace(n)
		if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return trimmed
		}
		return quoteString(n)
	default:
		return quoteString(asString(v))
	}
}

func formatBool(v any, d Dialect) string {
	if b, ok := v.(bool); ok {
		if b {
			return d.BoolTrue
		}
		return d.BoolFalse
	}
	switch strings.ToLower(strings.TrimSpace(asString(v))) {
	case "true", "t", "1", "yes":
		return d.BoolTrue
	case "false", "f", "0", "no":
		return d.BoolFalse
	default:
		return quoteString(asString(v))
	}
}

// formatTime keeps date and time values as quoted ISO-ish literals;
// dialect-specific cast syntax is left to the consuming database.
func formatTime(v any) string {
	if t, ok := v.(time.Time); ok {
		return quoteString(t.Format(time.RFC3339))
	}
	return quoteString(asString(v))
}

// quoteString escapes embedded single quotes by doubling them, the
// standard SQL string-literal escape.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
