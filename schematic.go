package sqlbuilder

import (
	"fmt"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/table"
)

// Schematic describes the table as the handle sees it: its dialect and the
// discovered columns.
func (t *Table) Schematic() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SQL Dialect: %s\n", t.dialect.DriverName)
	fmt.Fprintf(&b, "t: %s\n", t.name)
	w := prettytable.NewWriter()
	w.AppendHeader(prettytable.Row{"SQL Name", "Is Primary Key"})
	for _, c := range t.columns {
		w.AppendRow(prettytable.Row{c, c == t.pk})
	}
	b.WriteString(w.Render())
	return b.String()
}
