package database

import "strings"

// QueryBuilder rewrites queries written with ? placeholders for a dialect.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts ? placeholders to the dialect's form.
//
//	input:    "SELECT id FROM generation_runs WHERE theme = ? LIMIT ?"
//	SQLite:   unchanged
//	Postgres: "SELECT id FROM generation_runs WHERE theme = $1 LIMIT $2"
//
// Question marks inside string literals are rewritten too, so queries must
// pass every value as a parameter.
func (qb *QueryBuilder) Build(query string) string {
	if qb.dialect.Placeholder(2) == "?" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteString(qb.dialect.Placeholder(n))
	}
	return b.String()
}

// BuildWithReturning is Build plus a RETURNING clause for dialects that
// cannot report the last inserted id.
func (qb *QueryBuilder) BuildWithReturning(query string, column string) string {
	converted := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted += qb.dialect.ReturningClause(column)
	}
	return converted
}
