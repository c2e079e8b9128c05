package ir

import (
	"strings"
	"unicode"
)

// PostgreSQL reserved words that need quoting when used as identifiers.
// Based on the PostgreSQL 17 keyword appendix.
var reservedWords = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true,
	"array": true, "as": true, "asc": true, "asymmetric": true,
	"authorization": true, "between": true, "bigint": true, "binary": true,
	"boolean": true, "both": true, "by": true, "case": true, "cast": true,
	"char": true, "character": true, "check": true, "collate": true,
	"collation": true, "column": true, "constraint": true, "create": true,
	"cross": true, "current_catalog": true, "current_date": true,
	"current_role": true, "current_schema": true, "current_time": true,
	"current_timestamp": true, "current_user": true, "default": true,
	"deferrable": true, "delete": true, "desc": true, "distinct": true,
	"do": true, "else": true, "end": true, "except": true, "exists": true,
	"false": true, "fetch": true, "filter": true, "for": true,
	"foreign": true, "freeze": true, "from": true, "full": true,
	"grant": true, "group": true, "having": true, "ilike": true,
	"in": true, "initially": true, "inner": true, "insert": true,
	"intersect": true, "into": true, "is": true, "isnull": true,
	"join": true, "lateral": true, "leading": true, "left": true,
	"like": true, "limit": true, "natural": true, "not": true,
	"null": true, "of": true, "offset": true, "on": true, "only": true,
	"or": true, "order": true, "outer": true, "overlaps": true,
	"placing": true, "primary": true, "references": true,
	"returning": true, "right": true, "select": true, "session_user": true,
	"similar": true, "some": true, "symmetric": true, "system_user": true,
	"table": true, "tablesample": true, "then": true, "to": true,
	"trailing": true, "true": true, "union": true, "unique": true,
	"update": true, "user": true, "using": true, "variadic": true,
	"verbose": true, "when": true, "where": true, "window": true,
	"with": true, "within": true,
}

// NeedsQuoting checks if an identifier needs to be quoted
func NeedsQuoting(identifier string) bool {
	if identifier == "" {
		return false
	}

	if reservedWords[strings.ToLower(identifier)] {
		return true
	}

	// PostgreSQL folds unquoted identifiers to lowercase
	for _, r := range identifier {
		if unicode.IsUpper(r) {
			return true
		}
	}

	for i, r := range identifier {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return true
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return true
		}
	}

	return false
}

// QuoteIdentifier adds quotes to an identifier if needed
func QuoteIdentifier(identifier string) string {
	if NeedsQuoting(identifier) {
		return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
	}
	return identifier
}

// QualifyTableName returns the schema-qualified table name, quoting
// each part only when required. Plain lowercase names render bare, so
// public.posts stays public.posts.
func QualifyTableName(schema, table string) string {
	return QuoteIdentifier(schema) + "." + QuoteIdentifier(table)
}
