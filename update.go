package sqlbuilder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/golobby/sqlbuilder/op"
	"github.com/golobby/sqlbuilder/value"
)

type UpdateStmt struct {
	table     *Table
	values    map[string]any
	where     string
	performed bool
}

// Where replaces the predicate.
func (u *UpdateStmt) Where(c op.Clause) *UpdateStmt {
	u.where = c.SQL()
	return u
}

// SQL renders the assignments sorted by column.
func (u *UpdateStmt) SQL() string {
	keys := make([]string, 0, len(u.values))
	for k := range u.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", u.table.quote(k), value.EscapeAny(u.values[k])))
	}
	where := u.where
	if where == "" {
		where = "True"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s;", u.table.quote(u.table.name), strings.Join(pairs, ", "), where)
}

// Perform reports whether any row changed. A failed statement also returns
// false, check the Table's error to tell the two apart. Without Where every
// row of the table is updated.
func (u *UpdateStmt) Perform() bool {
	if u.performed {
		u.table.record("", ErrStatementPerformed)
		return false
	}
	u.performed = true
	if u.where == "" {
		u.table.logger.Warnf("UPDATE without WHERE, every row of %s is updated", u.table.name)
	}
	res := u.table.perform(context.Background(), u.SQL(), false)
	return res.Err == nil && res.RowsAffected > 0
}
