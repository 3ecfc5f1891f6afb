package sqlbuilder

import (
	"context"
	"fmt"
)

type DeleteStmt struct {
	table     *Table
	where     string
	performed bool
}

func (d *DeleteStmt) SQL() string {
	where := d.where
	if where == "" {
		where = "True"
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s;", d.table.quote(d.table.name), where)
}

// Perform reports whether any row was deleted, see UpdateStmt.Perform.
func (d *DeleteStmt) Perform() bool {
	if d.performed {
		d.table.record("", ErrStatementPerformed)
		return false
	}
	d.performed = true
	if d.where == "" {
		d.table.logger.Warnf("DELETE with an empty predicate, every row of %s is deleted", d.table.name)
	}
	res := d.table.perform(context.Background(), d.SQL(), false)
	return res.Err == nil && res.RowsAffected > 0
}
