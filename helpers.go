package sqlbuilder

import (
	"fmt"
	"strings"
	"unicode"
)

func postgresPlaceholder(n int) []string {
	output := []string{}
	for i := 1; i < n+1; i++ {
		output = append(output, fmt.Sprintf("$%d", i))
	}
	return output
}

func questionMarks(n int) []string {
	output := []string{}
	for i := 0; i < n; i++ {
		output = append(output, "?")
	}

	return output
}

// pop takes the next placeholder off the list.
func pop(phs *[]string) string {
	top := (*phs)[0]
	*phs = (*phs)[1:]
	return top
}

var rowReturningPrefixes = []string{"SELECT", "WITH", "VALUES", "PRAGMA", "SHOW", "EXPLAIN", "DESCRIBE"}

// returnsRows reports whether query produces a result set and has to go
// through QueryContext.
func returnsRows(query string) bool {
	upper := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range rowReturningPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return hasKeyword(query, "RETURNING")
}

// hasKeyword reports whether kw appears in query as a whole word outside
// quoted literals and identifiers.
func hasKeyword(query, kw string) bool {
	var (
		quote rune
		word  strings.Builder
	)
	flush := func() bool {
		found := strings.EqualFold(word.String(), kw)
		word.Reset()
		return found
	}
	for _, r := range query {
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}
		switch {
		case r == '\'' || r == '"' || r == '`':
			if flush() {
				return true
			}
			quote = r
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		default:
			if flush() {
				return true
			}
		}
	}
	return flush()
}

// statementOperation is the leading keyword of query, used to name spans.
func statementOperation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(strings.TrimRight(fields[0], ";"))
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
