package sqlbuilder

import (
	"context"
	"fmt"
	"strings"

	"github.com/gertd/go-pluralize"

	"github.com/golobby/sqlbuilder/disambiguate"
	"github.com/golobby/sqlbuilder/op"
)

type ClauseType string

const (
	ClauseType_Where     ClauseType = "WHERE"
	ClauseType_Limit     ClauseType = "LIMIT"
	ClauseType_Offset    ClauseType = "OFFSET"
	ClauseType_OrderBy   ClauseType = "ORDER BY"
	ClauseType_GroupBy   ClauseType = "GROUP BY"
	ClauseType_InnerJoin ClauseType = "INNER JOIN"
	ClauseType_LeftJoin  ClauseType = "LEFT JOIN"
	ClauseType_RightJoin ClauseType = "RIGHT JOIN"
	ClauseType_CrossJoin ClauseType = "CROSS JOIN"
	ClauseType_Select    ClauseType = "SELECT"
	ClauseType_Having    ClauseType = "HAVING"
)

// clause is one slot of a SELECT. A nil clause renders nothing.
type clause struct {
	typ       ClauseType
	arg       []string
	delimiter string
}

func (c *clause) String() string {
	if c == nil {
		return ""
	}
	if c.delimiter == "" {
		c.delimiter = " "
	}
	return fmt.Sprintf("%s %s", c.typ, strings.Join(c.arg, c.delimiter))
}

type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	CrossJoin
)

func (j JoinType) clauseType() ClauseType {
	switch j {
	case LeftJoin:
		return ClauseType_LeftJoin
	case RightJoin:
		return ClauseType_RightJoin
	case CrossJoin:
		return ClauseType_CrossJoin
	default:
		return ClauseType_InnerJoin
	}
}

func (j JoinType) String() string {
	return string(j.clauseType())
}

type Order int

const (
	Asc Order = iota
	Desc
)

func (o Order) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}

// JoinSpec is one JOIN of a SELECT. On holds the column of the base table
// and the column of the joined table. When both tables have a selected
// column, DisambiguateToOther makes it resolve to the joined table; the
// first JoinSpec sharing a column decides.
type JoinSpec struct {
	Table               string
	On                  [2]string
	Type                JoinType
	DisambiguateToOther bool
}

type SelectStmt struct {
	table     *Table
	fields    []string
	joins     []JoinSpec
	where     string
	groupBy   *clause
	having    *clause
	orderBy   *clause
	limit     *clause
	offset    *clause
	performed bool

	joinColumns map[string][]string
	columns     []string
}

// Join appends a join, it never replaces an earlier one.
func (s *SelectStmt) Join(table string, on [2]string, typ JoinType, disambiguateToOther ...bool) *SelectStmt {
	j := JoinSpec{Table: table, On: on, Type: typ}
	if len(disambiguateToOther) > 0 {
		j.DisambiguateToOther = disambiguateToOther[0]
	}
	s.joins = append(s.joins, j)
	return s
}

// JoinInferred joins other on the conventional foreign key: the singular of
// the base table name suffixed with _id, e.g. posts.id = comments.post_id.
func (s *SelectStmt) JoinInferred(other string, typ JoinType) *SelectStmt {
	pk := s.table.pk
	if pk == "" {
		pk = "id"
	}
	fk := pluralize.NewClient().Singular(s.table.name) + "_id"
	return s.Join(other, [2]string{pk, fk}, typ)
}

// Where replaces the predicate.
func (s *SelectStmt) Where(c op.Clause) *SelectStmt {
	s.where = c.SQL()
	return s
}

// Limit sets LIMIT n, n <= 0 removes it.
func (s *SelectStmt) Limit(n int) *SelectStmt {
	if n <= 0 {
		s.limit = nil
		return s
	}
	s.limit = &clause{typ: ClauseType_Limit, arg: []string{fmt.Sprint(n)}}
	return s
}

// Offset sets OFFSET n, n <= 0 removes it.
func (s *SelectStmt) Offset(n int) *SelectStmt {
	if n <= 0 {
		s.offset = nil
		return s
	}
	s.offset = &clause{typ: ClauseType_Offset, arg: []string{fmt.Sprint(n)}}
	return s
}

func (s *SelectStmt) OrderBy(field string, order Order) *SelectStmt {
	s.orderBy = &clause{typ: ClauseType_OrderBy, arg: []string{field, order.String()}}
	return s
}

func (s *SelectStmt) GroupBy(field string) *SelectStmt {
	s.groupBy = &clause{typ: ClauseType_GroupBy, arg: []string{field}}
	return s
}

// Having is used verbatim.
func (s *SelectStmt) Having(cond string) *SelectStmt {
	s.having = &clause{typ: ClauseType_Having, arg: []string{cond}}
	return s
}

func (s *SelectStmt) resolve() ([]string, string) {
	if len(s.joins) == 0 {
		return s.fields, s.where
	}
	if s.joinColumns == nil {
		s.joinColumns = map[string][]string{}
	}
	joins := make([]disambiguate.Join, 0, len(s.joins))
	for _, j := range s.joins {
		cols, ok := s.joinColumns[j.Table]
		if !ok {
			cols = s.table.ColumnNamesOf(j.Table)
			s.joinColumns[j.Table] = cols
		}
		joins = append(joins, disambiguate.Join{Table: j.Table, Columns: cols, ToOther: j.DisambiguateToOther})
	}
	return s.table.disambiguator.Resolve(s.table.name, s.table.columns, joins, s.fields, s.where)
}

func (s *SelectStmt) renderJoin(j JoinSpec) string {
	c := &clause{typ: j.Type.clauseType(), arg: []string{j.Table}}
	if j.Type != CrossJoin {
		c.arg = append(c.arg, "ON", fmt.Sprintf("%s.%s = %s.%s", s.table.name, j.On[0], j.Table, j.On[1]))
	}
	return c.String()
}

// SQL renders the statement without running it. Columns of joined tables
// are looked up on the first call.
func (s *SelectStmt) SQL() string {
	fields, where := s.resolve()
	selected := "*"
	if len(fields) > 0 {
		selected = strings.Join(fields, ", ")
	}
	if where == "" {
		where = "True"
	}
	joins := make([]string, 0, len(s.joins))
	for _, j := range s.joins {
		joins = append(joins, s.renderJoin(j))
	}
	return joinNonEmpty(
		(&clause{typ: ClauseType_Select, arg: []string{selected}}).String(),
		"FROM "+s.table.name,
		strings.Join(joins, " "),
		(&clause{typ: ClauseType_Where, arg: []string{where}}).String(),
		s.groupBy.String(),
		s.having.String(),
		s.orderBy.String(),
		s.limit.String(),
		s.offset.String(),
	) + ";"
}

// Perform runs the SELECT. On failure the error is recorded on the Table and
// no records are returned.
func (s *SelectStmt) Perform() Records {
	if s.performed {
		s.table.record("", ErrStatementPerformed)
		return Records{}
	}
	s.performed = true
	res := s.table.perform(context.Background(), s.SQL(), true)
	if res.Err != nil {
		return Records{}
	}
	s.columns = res.Columns
	return res.Records
}

// Columns is the column order of the performed SELECT, nil before Perform.
// Pass it to Records.Render to keep that order.
func (s *SelectStmt) Columns() []string {
	return s.columns
}
