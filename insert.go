package sqlbuilder

import (
	"context"
	"fmt"
	"strings"

	"github.com/golobby/sqlbuilder/value"
)

// InsertStmt only names the columns, add a row with Values to get something
// that can be performed.
type InsertStmt struct {
	table  *Table
	fields []string
}

func (i *InsertStmt) Values(values ...any) *InsertValuesStmt {
	return &InsertValuesStmt{table: i.table, fields: i.fields, rows: [][]any{values}}
}

// InsertValuesStmt is a multi row INSERT. Row arity is checked by the
// database, not here.
type InsertValuesStmt struct {
	table     *Table
	fields    []string
	rows      [][]any
	performed bool
}

func (i *InsertValuesStmt) Values(values ...any) *InsertValuesStmt {
	i.rows = append(i.rows, values)
	return i
}

func (i *InsertValuesStmt) returning() bool {
	return i.table.pk != "" && i.table.dialect.Returning
}

func (i *InsertValuesStmt) SQL() string {
	cols := make([]string, 0, len(i.fields))
	for _, f := range i.fields {
		cols = append(cols, i.table.quote(f))
	}
	var valuesJoined []string
	for _, row := range i.rows {
		escaped := make([]string, 0, len(row))
		for _, v := range row {
			escaped = append(escaped, value.EscapeAny(v))
		}
		valuesJoined = append(valuesJoined, fmt.Sprintf("(%s)", strings.Join(escaped, ",")))
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`, i.table.quote(i.table.name), strings.Join(cols, ","), strings.Join(valuesJoined, ","))
	if i.returning() {
		query += " RETURNING " + i.table.quote(i.table.pk)
	}
	return query + ";"
}

// Perform inserts the rows and returns their generated primary keys in
// statement order. Without RETURNING the keys are derived from the first
// LastInsertId, which is what MySQL reports for a multi row insert.
func (i *InsertValuesStmt) Perform() []int64 {
	if i.performed {
		i.table.record("", ErrStatementPerformed)
		return []int64{}
	}
	i.performed = true
	res := i.table.perform(context.Background(), i.SQL(), i.returning())
	keys := []int64{}
	if res.Err != nil {
		return keys
	}
	if i.returning() {
		for _, r := range res.Records {
			if k, ok := value.Int64(r[i.table.pk]); ok {
				keys = append(keys, k)
			}
		}
		return keys
	}
	if i.table.dialect.Returning || res.LastInsertID <= 0 {
		return keys
	}
	for n := int64(0); n < res.RowsAffected; n++ {
		keys = append(keys, res.LastInsertID+n)
	}
	return keys
}
