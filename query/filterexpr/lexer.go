package filterexpr

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// filterLexer defines the token types for the filter expression
// language. Keywords are matched before identifiers so AND, OR and the
// operator words never lex as column names.
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(AND|OR|NOT|IN|IS|NULL|LIKE|BETWEEN|TRUE|FALSE)\b`},

	{Name: "Operator", Pattern: `<=|>=|<>|!=|=|<|>`},

	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dot", Pattern: `\.`},

	// SQL string literal with doubled-quote escaping
	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},

	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},

	{Name: "Whitespace", Pattern: `\s+`},
})
