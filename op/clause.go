// Package op builds the predicates used in WHERE clauses.
//
// It optimizes nothing and parses nothing: every combinator wraps its operands
// in parentheses, so the database evaluates the predicate with exactly the
// grouping it was written with.
package op

import (
	"fmt"
	"strings"

	"github.com/golobby/sqlbuilder/value"
)

const (
	eq = "="
	ne = "!="
	lt = "<"
	gt = ">"
	le = "<="
	ge = ">="
	in = "IN"
	is = "IS"
)

// Clause is a rendered predicate. Clauses are values: combining two of them
// produces a new Clause and leaves the operands untouched.
type Clause struct {
	sql string
}

// New renders `"field" operator rendered`. rendered is used verbatim, it must
// already be an escaped literal or a trusted sub expression.
func New(field, operator, rendered string) Clause {
	return Clause{sql: fmt.Sprintf(`"%s" %s %s`, field, operator, rendered)}
}

// Raw wraps trusted SQL text as a Clause.
func Raw(sql string) Clause {
	return Clause{sql: sql}
}

func (c Clause) SQL() string {
	return c.sql
}

func (c Clause) String() string {
	return c.sql
}

func (c Clause) IsEmpty() bool {
	return c.sql == ""
}

// And renders `(c) AND (other)`. An empty operand is dropped.
func (c Clause) And(other Clause) Clause {
	return c.join("AND", other)
}

// Or renders `(c) OR (other)`. An empty operand is dropped.
func (c Clause) Or(other Clause) Clause {
	return c.join("OR", other)
}

func (c Clause) join(operator string, other Clause) Clause {
	switch {
	case c.IsEmpty():
		return other
	case other.IsEmpty():
		return c
	}
	return Clause{sql: fmt.Sprintf("(%s) %s (%s)", c.sql, operator, other.sql)}
}

// Not renders `NOT (c)`.
func Not(c Clause) Clause {
	if c.IsEmpty() {
		return c
	}
	return Clause{sql: fmt.Sprintf("NOT (%s)", c.sql)}
}

// And folds clauses left to right: And(a, b, c) is (a AND b) AND c.
func And(clauses ...Clause) Clause {
	var out Clause
	for _, c := range clauses {
		out = out.And(c)
	}
	return out
}

// Or folds clauses left to right.
func Or(clauses ...Clause) Clause {
	var out Clause
	for _, c := range clauses {
		out = out.Or(c)
	}
	return out
}

func EQ(field string, v any) Clause {
	return New(field, eq, value.EscapeAny(v))
}

func NEQ(field string, v any) Clause {
	return New(field, ne, value.EscapeAny(v))
}

func LT(field string, v any) Clause {
	return New(field, lt, value.EscapeAny(v))
}

func GT(field string, v any) Clause {
	return New(field, gt, value.EscapeAny(v))
}

func LE(field string, v any) Clause {
	return New(field, le, value.EscapeAny(v))
}

func GE(field string, v any) Clause {
	return New(field, ge, value.EscapeAny(v))
}

// IN renders `"field" IN (v1,v2,...)`. With no values it renders `IN ()`
// untouched; SQLite evaluates that as false, PostgreSQL and MySQL reject it.
func IN(field string, values ...any) Clause {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		escaped = append(escaped, value.EscapeAny(v))
	}
	return New(field, in, "("+strings.Join(escaped, ",")+")")
}

func IsNull(field string) Clause {
	return New(field, is, "NULL")
}
