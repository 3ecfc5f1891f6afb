// Package disambiguate decides which table a bare column name belongs to when
// a SELECT joins tables that share column names.
package disambiguate

import "strings"

// Join describes one joined table as the resolver sees it.
type Join struct {
	Table   string
	Columns []string
	// ToOther resolves shared columns to the joined table instead of the
	// base table.
	ToOther bool
}

// Resolver qualifies ambiguous column names in the selected fields and in the
// WHERE text.
type Resolver interface {
	Resolve(base string, baseColumns []string, joins []Join, fields []string, where string) ([]string, string)
}

// Lexical resolves by plain text replacement. Joins are visited in order and
// a column claimed by an earlier join is never reassigned by a later one, so
// the first join that shares a column decides its table.
//
// Fields are matched by exact name and rewritten to table.field. In the WHERE
// text every quoted identifier "field" becomes table."field", unless it is
// already qualified. This is best effort: a quoted name inside a string
// literal is rewritten too.
type Lexical struct{}

func (Lexical) Resolve(base string, baseColumns []string, joins []Join, fields []string, where string) ([]string, string) {
	owners := map[string]string{}
	var claimed []string
	for _, join := range joins {
		table := base
		if join.ToOther {
			table = join.Table
		}
		for _, col := range intersect(baseColumns, join.Columns) {
			if _, ok := owners[col]; ok {
				continue
			}
			owners[col] = table
			claimed = append(claimed, col)
		}
	}

	resolved := make([]string, len(fields))
	for i, f := range fields {
		if table, ok := owners[f]; ok {
			resolved[i] = table + "." + f
			continue
		}
		resolved[i] = f
	}

	for _, col := range claimed {
		where = qualify(where, col, owners[col])
	}
	return resolved, where
}

// qualify prefixes each "col" in where with table, skipping occurrences
// preceded by a dot.
func qualify(where, col, table string) string {
	quoted := `"` + col + `"`
	var b strings.Builder
	prev := byte(0)
	for {
		i := strings.Index(where, quoted)
		if i < 0 {
			break
		}
		if i > 0 {
			prev = where[i-1]
		}
		b.WriteString(where[:i])
		if prev != '.' {
			b.WriteString(table + ".")
		}
		b.WriteString(quoted)
		where = where[i+len(quoted):]
		prev = '"'
	}
	b.WriteString(where)
	return b.String()
}

// intersect keeps the order of a.
func intersect(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := in[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
