package sqlbuilder

import (
	"database/sql"
	"sort"

	prettytable "github.com/jedib0t/go-pretty/table"

	"github.com/golobby/sqlbuilder/value"
)

// Record is one result row keyed by the column names the driver reports,
// aliases included.
type Record map[string]value.Value

type Records []Record

// Result is the outcome of Table.PerformSQL.
type Result struct {
	Records Records
	// Columns is the order the driver reported the result columns in.
	Columns      []string
	RowsAffected int64
	LastInsertID int64
	// Err is a *ErrorInfo when the statement failed.
	Err error
}

func scanRecords(rows *sql.Rows) (Records, []string, error) {
	defer rows.Close()
	cts, err := rows.ColumnTypes()
	if err != nil {
		return Records{}, nil, err
	}
	cols := make([]string, len(cts))
	for i, ct := range cts {
		cols[i] = ct.Name()
	}
	records := Records{}
	for rows.Next() {
		raw := make([]any, len(cts))
		ptrs := make([]any, len(cts))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Records{}, nil, err
		}
		record := make(Record, len(cts))
		for i, ct := range cts {
			record[ct.Name()] = value.FromDriver(raw[i], ct.DatabaseTypeName())
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return Records{}, nil, err
	}
	return records, cols, nil
}

// Render draws the records in the reported column order.
func (r *Result) Render() string {
	return r.Records.Render(r.Columns...)
}

// Columns lists every key found in the records, sorted.
func (rs Records) Columns() []string {
	seen := map[string]struct{}{}
	var cols []string
	for _, r := range rs {
		for k := range r {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// Render draws the records as a text table with columns in the given order.
// Without columns every key is drawn, sorted.
func (rs Records) Render(columns ...string) string {
	cols := columns
	if len(cols) == 0 {
		cols = rs.Columns()
	}
	w := prettytable.NewWriter()
	header := prettytable.Row{}
	for _, c := range cols {
		header = append(header, c)
	}
	w.AppendHeader(header)
	for _, r := range rs {
		row := prettytable.Row{}
		for _, c := range cols {
			v, ok := r[c]
			if !ok {
				v = value.Null{}
			}
			row = append(row, value.String(v))
		}
		w.AppendRow(row)
	}
	return w.Render()
}
